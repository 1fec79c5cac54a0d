package service

import (
	"fmt"
	"testing"

	"avtoclub/internal/domain"
	"avtoclub/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCarService_RegisterOwnedCar_ReconcilesPlate(t *testing.T) {
	mockCars := new(testutil.MockCarRepository)
	mockInvitations := new(testutil.MockInvitationRepository)

	plate := "A123BC77"
	newCarID := int64(9)
	invitationCar := testutil.NewInvitationCar(2, plate)

	mockCars.On("Create", mock.MatchedBy(func(c *domain.Car) bool {
		return c.Plate == plate && c.Status == domain.CarActive && c.OwnerID != nil && *c.OwnerID == 5
	})).Return(newCarID, nil)

	// After creation the plate matches both the new owned record and the
	// old invitation-only one
	newCar := testutil.NewTestCar(newCarID, 5, plate, domain.CarActive)
	mockCars.On("GetByPlate", plate).Return([]domain.Car{*newCar, *invitationCar}, nil)

	openInvitation := testutil.NewTestInvitation(11, invitationCar.ID, domain.InvitationPending)
	mockInvitations.On("GetOpenByPlate", plate).Return([]domain.Invitation{*openInvitation}, nil)

	// The invitation-only record retires and the invitation closes,
	// linked to the new owned car — exactly once each
	mockCars.On("UpdateStatus", invitationCar.ID, domain.CarInClub).Return(nil).Once()
	mockInvitations.On("Relink", openInvitation.ID, newCarID, domain.InvitationJoinedClub).Return(nil).Once()

	service := NewCarService(mockCars, mockInvitations, testutil.NewTestLogger())

	id, err := service.RegisterOwnedCar(5, &domain.Car{Plate: plate, Brand: "Lada"})

	assert.NoError(t, err)
	assert.Equal(t, newCarID, id)
	mockCars.AssertExpectations(t)
	mockInvitations.AssertExpectations(t)
}

func TestCarService_RegisterOwnedCar_UnseenPlate(t *testing.T) {
	mockCars := new(testutil.MockCarRepository)
	mockInvitations := new(testutil.MockInvitationRepository)

	plate := "X777XX"
	newCar := testutil.NewTestCar(3, 5, plate, domain.CarActive)

	mockCars.On("Create", mock.Anything).Return(int64(3), nil)
	mockCars.On("GetByPlate", plate).Return([]domain.Car{*newCar}, nil)
	mockInvitations.On("GetOpenByPlate", plate).Return([]domain.Invitation{}, nil)

	service := NewCarService(mockCars, mockInvitations, testutil.NewTestLogger())

	_, err := service.RegisterOwnedCar(5, &domain.Car{Plate: plate})

	assert.NoError(t, err)
	// No retirement, no relink
	mockCars.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
	mockInvitations.AssertNotCalled(t, "Relink", mock.Anything, mock.Anything, mock.Anything)
}

func TestCarService_RegisterOwnedCar_NormalizesPlate(t *testing.T) {
	mockCars := new(testutil.MockCarRepository)
	mockInvitations := new(testutil.MockInvitationRepository)

	// The raw input is persisted and reconciled in normalized form
	mockCars.On("Create", mock.MatchedBy(func(c *domain.Car) bool {
		return c.Plate == "A123BC77"
	})).Return(int64(9), nil)
	mockCars.On("GetByPlate", "A123BC77").Return([]domain.Car{}, nil)
	mockInvitations.On("GetOpenByPlate", "A123BC77").Return([]domain.Invitation{}, nil)

	service := NewCarService(mockCars, mockInvitations, testutil.NewTestLogger())

	car := &domain.Car{Plate: " a123bc77 "}
	_, err := service.RegisterOwnedCar(5, car)

	assert.NoError(t, err)
	assert.Equal(t, "A123BC77", car.Plate)
	mockCars.AssertExpectations(t)
	mockInvitations.AssertExpectations(t)
}

func TestCarService_RegisterOwnedCar_InvalidPlate(t *testing.T) {
	mockCars := new(testutil.MockCarRepository)
	mockInvitations := new(testutil.MockInvitationRepository)

	service := NewCarService(mockCars, mockInvitations, testutil.NewTestLogger())

	_, err := service.RegisterOwnedCar(5, &domain.Car{Plate: "AB 12"})

	assert.Error(t, err)
	mockCars.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCarService_RegisterOwnedCar_ReconciliationFailureKeepsCar(t *testing.T) {
	mockCars := new(testutil.MockCarRepository)
	mockInvitations := new(testutil.MockInvitationRepository)

	plate := "A123BC77"
	mockCars.On("Create", mock.Anything).Return(int64(9), nil)
	mockCars.On("GetByPlate", plate).Return(nil, fmt.Errorf("connection refused"))

	service := NewCarService(mockCars, mockInvitations, testutil.NewTestLogger())

	// The committed owned record is never rolled back by a failed
	// reconciliation pass
	id, err := service.RegisterOwnedCar(5, &domain.Car{Plate: plate})

	assert.NoError(t, err)
	assert.Equal(t, int64(9), id)
}

func TestCarService_ReconcilePlate_SkipsTerminalRecords(t *testing.T) {
	mockCars := new(testutil.MockCarRepository)
	mockInvitations := new(testutil.MockInvitationRepository)

	plate := "A123BC77"
	newCarID := int64(9)

	alreadyInClub := testutil.NewInvitationCar(2, plate)
	alreadyInClub.Status = domain.CarInClub

	mockCars.On("GetByPlate", plate).Return([]domain.Car{*alreadyInClub}, nil)
	mockInvitations.On("GetOpenByPlate", plate).Return([]domain.Invitation{}, nil)

	service := NewCarService(mockCars, mockInvitations, testutil.NewTestLogger())

	assert.NoError(t, service.ReconcilePlate(plate, newCarID))
	mockCars.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
}
