package service

import (
	"fmt"

	"avtoclub/internal/domain"
	"avtoclub/internal/repository"

	"go.uber.org/zap"
)

// CarService handles vehicle business logic, including the plate
// reconciliation that retires invitation-only records once the plate's
// owner joins the club.
type CarService struct {
	carRepo        repository.CarRepository
	invitationRepo repository.InvitationRepository
	logger         *zap.Logger
}

// NewCarService creates a new car service
func NewCarService(
	carRepo repository.CarRepository,
	invitationRepo repository.InvitationRepository,
	logger *zap.Logger,
) *CarService {
	return &CarService{
		carRepo:        carRepo,
		invitationRepo: invitationRepo,
		logger:         logger,
	}
}

// GetByID returns the car with the given id, or nil
func (s *CarService) GetByID(id int64) (*domain.Car, error) {
	return s.carRepo.GetByID(id)
}

// GetByOwner returns the member's cars
func (s *CarService) GetByOwner(memberID int64) ([]domain.Car, error) {
	return s.carRepo.GetByOwner(memberID)
}

// GetByPlate returns cars matching the normalized plate exactly
func (s *CarService) GetByPlate(plate string) ([]domain.Car, error) {
	return s.carRepo.GetByPlate(plate)
}

// RegisterOwnedCar creates an owned, active vehicle record and
// reconciles any invitation-only records and open invitations sharing
// the plate.
func (s *CarService) RegisterOwnedCar(ownerID int64, c *domain.Car) (int64, error) {
	plate, ok := domain.NormalizePlate(c.Plate)
	if !ok {
		return 0, fmt.Errorf("invalid plate %q", c.Plate)
	}

	c.Plate = plate
	c.OwnerID = &ownerID
	c.Status = domain.CarActive

	id, err := s.carRepo.Create(c)
	if err != nil {
		return 0, err
	}

	s.logger.Info("Car registered",
		zap.Int64("car_id", id),
		zap.Int64("owner_id", ownerID),
		zap.String("plate", c.Plate),
	)

	if err := s.ReconcilePlate(c.Plate, id); err != nil {
		// The owned record is already committed; reconciliation failure
		// must not roll it back
		s.logger.Error("Plate reconciliation failed",
			zap.Error(err),
			zap.String("plate", c.Plate),
			zap.Int64("car_id", id),
		)
	}

	return id, nil
}

// UpdateCar rewrites a car's editable fields
func (s *CarService) UpdateCar(c *domain.Car) error {
	return s.carRepo.Update(c)
}

// ReconcilePlate retires invitation-only vehicle records sharing the
// plate and moves their non-terminal invitations to the joined-club
// terminal status, linked to the new owned car. Runs exactly once per
// ownership transition; already-terminal records are untouched.
func (s *CarService) ReconcilePlate(plate string, newCarID int64) error {
	cars, err := s.carRepo.GetByPlate(plate)
	if err != nil {
		return fmt.Errorf("load cars for plate %s: %w", plate, err)
	}

	// Open invitations are collected across every car record with the
	// plate before any record is retired
	open, err := s.invitationRepo.GetOpenByPlate(plate)
	if err != nil {
		return fmt.Errorf("load open invitations for plate %s: %w", plate, err)
	}

	for _, car := range cars {
		if car.ID == newCarID || car.Owned() || car.Status != domain.CarInvitation {
			continue
		}
		if err := s.carRepo.UpdateStatus(car.ID, domain.CarInClub); err != nil {
			return fmt.Errorf("retire invitation car %d: %w", car.ID, err)
		}
		s.logger.Info("Invitation-only car joined club",
			zap.Int64("car_id", car.ID),
			zap.Int64("owned_car_id", newCarID),
			zap.String("plate", plate),
		)
	}

	for _, inv := range open {
		if err := s.invitationRepo.Relink(inv.ID, newCarID, domain.InvitationJoinedClub); err != nil {
			return fmt.Errorf("close invitation %d: %w", inv.ID, err)
		}
		s.logger.Info("Invitation closed as joined club",
			zap.Int64("invitation_id", inv.ID),
			zap.Int64("owned_car_id", newCarID),
		)
	}

	return nil
}
