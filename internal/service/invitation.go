package service

import (
	"fmt"

	"avtoclub/internal/domain"
	"avtoclub/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PlateResolution is the outcome of the duplicate check on the plate
// step of invitation creation. Exactly one of the three shapes holds:
// an owned car (flow must abort), an invitation-only car with history
// (explicit continue required), or nothing (proceed).
type PlateResolution struct {
	OwnedCar      *domain.Car
	InvitationCar *domain.Car
	History       []domain.Invitation
}

// InvitationService handles invitation creation and the cross-reference
// resolution against existing vehicle records.
type InvitationService struct {
	carRepo        repository.CarRepository
	invitationRepo repository.InvitationRepository
	logger         *zap.Logger
}

// NewInvitationService creates a new invitation service
func NewInvitationService(
	carRepo repository.CarRepository,
	invitationRepo repository.InvitationRepository,
	logger *zap.Logger,
) *InvitationService {
	return &InvitationService{
		carRepo:        carRepo,
		invitationRepo: invitationRepo,
		logger:         logger,
	}
}

// ResolvePlate checks existing vehicle records for the normalized plate.
// An owned match wins over an invitation-only match.
func (s *InvitationService) ResolvePlate(plate string) (*PlateResolution, error) {
	cars, err := s.carRepo.GetByPlate(plate)
	if err != nil {
		return nil, err
	}

	res := &PlateResolution{}
	for i := range cars {
		car := &cars[i]
		if car.Owned() {
			res.OwnedCar = car
			res.InvitationCar = nil
			res.History = nil
			return res, nil
		}
		if res.InvitationCar == nil && car.Status == domain.CarInvitation {
			res.InvitationCar = car
		}
	}

	if res.InvitationCar != nil {
		history, err := s.invitationRepo.GetByCar(res.InvitationCar.ID)
		if err != nil {
			return nil, err
		}
		res.History = history
	}

	return res, nil
}

// Create completes an invitation flow: reuses the existing
// invitation-only car record for the plate, or creates one with null
// ownership, then writes exactly one invitation referencing it. An
// explicitly confirmed re-invitation is recorded in the
// confirmed_duplicate status instead of new.
func (s *InvitationService) Create(inviterID *int64, data domain.InvitationData) (*domain.Invitation, error) {
	plate, ok := domain.NormalizePlate(data.Plate)
	if !ok {
		return nil, fmt.Errorf("invalid plate %q", data.Plate)
	}

	carID := data.CarID
	if carID == 0 {
		id, err := s.carRepo.Create(&domain.Car{
			Plate:  plate,
			Status: domain.CarInvitation,
		})
		if err != nil {
			return nil, err
		}
		carID = id
		s.logger.Info("Invitation-only car created",
			zap.Int64("car_id", carID),
			zap.String("plate", plate),
		)
	}

	status := domain.InvitationNew
	if data.ConfirmedDuplicate {
		status = domain.InvitationConfirmedDuplicate
	}

	inv := &domain.Invitation{
		Ref:          uuid.NewString(),
		CarID:        carID,
		InviterID:    inviterID,
		Comment:      data.Comment,
		PhotoFileIDs: data.PhotoFileIDs,
		Status:       status,
	}

	id, err := s.invitationRepo.Create(inv)
	if err != nil {
		return nil, err
	}
	inv.ID = id

	s.logger.Info("Invitation created",
		zap.Int64("invitation_id", id),
		zap.Int64("car_id", carID),
		zap.String("ref", inv.Ref),
	)
	return inv, nil
}

// HistoryForCar returns the invitations referencing a car, newest first
func (s *InvitationService) HistoryForCar(carID int64) ([]domain.Invitation, error) {
	return s.invitationRepo.GetByCar(carID)
}
