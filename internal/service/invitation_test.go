package service

import (
	"fmt"
	"testing"

	"avtoclub/internal/domain"
	"avtoclub/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestInvitationService_ResolvePlate(t *testing.T) {
	plate := "A123BC77"
	ownedCar := testutil.NewTestCar(1, 5, plate, domain.CarActive)
	invitationCar := testutil.NewInvitationCar(2, plate)
	history := []domain.Invitation{*testutil.NewTestInvitation(11, 2, domain.InvitationNew)}

	tests := []struct {
		name          string
		cars          []domain.Car
		history       []domain.Invitation
		expectOwned   bool
		expectInvite  bool
		expectHistory int
	}{
		{
			name:        "owned match aborts",
			cars:        []domain.Car{*ownedCar},
			expectOwned: true,
		},
		{
			name:        "owned match wins over invitation record",
			cars:        []domain.Car{*invitationCar, *ownedCar},
			expectOwned: true,
		},
		{
			name:          "invitation-only match carries history",
			cars:          []domain.Car{*invitationCar},
			history:       history,
			expectInvite:  true,
			expectHistory: 1,
		},
		{
			name: "no match",
			cars: []domain.Car{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockCars := new(testutil.MockCarRepository)
			mockInvitations := new(testutil.MockInvitationRepository)

			mockCars.On("GetByPlate", plate).Return(tt.cars, nil)
			if tt.expectInvite {
				mockInvitations.On("GetByCar", invitationCar.ID).Return(tt.history, nil)
			}

			service := NewInvitationService(mockCars, mockInvitations, testutil.NewTestLogger())

			res, err := service.ResolvePlate(plate)

			assert.NoError(t, err)
			if tt.expectOwned {
				assert.NotNil(t, res.OwnedCar)
				assert.Nil(t, res.InvitationCar)
				assert.Empty(t, res.History)
			} else if tt.expectInvite {
				assert.Nil(t, res.OwnedCar)
				assert.NotNil(t, res.InvitationCar)
				assert.Len(t, res.History, tt.expectHistory)
			} else {
				assert.Nil(t, res.OwnedCar)
				assert.Nil(t, res.InvitationCar)
			}

			mockCars.AssertExpectations(t)
			mockInvitations.AssertExpectations(t)
		})
	}
}

func TestInvitationService_Create_UnseenPlate(t *testing.T) {
	mockCars := new(testutil.MockCarRepository)
	mockInvitations := new(testutil.MockInvitationRepository)

	inviterID := int64(5)

	// Exactly one invitation-only car record and one invitation
	mockCars.On("Create", mock.MatchedBy(func(c *domain.Car) bool {
		return c.Plate == "A123BC77" && c.Status == domain.CarInvitation && !c.Owned()
	})).Return(int64(2), nil).Once()

	mockInvitations.On("Create", mock.MatchedBy(func(inv *domain.Invitation) bool {
		return inv.CarID == 2 && inv.Status == domain.InvitationNew &&
			inv.InviterID != nil && *inv.InviterID == inviterID && inv.Ref != ""
	})).Return(int64(11), nil).Once()

	service := NewInvitationService(mockCars, mockInvitations, testutil.NewTestLogger())

	inv, err := service.Create(&inviterID, domain.InvitationData{
		Plate:   "a123bc77", // normalized before any write
		Comment: "видел во дворе",
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(11), inv.ID)
	mockCars.AssertExpectations(t)
	mockInvitations.AssertExpectations(t)
}

func TestInvitationService_Create_ReusesInvitationCar(t *testing.T) {
	mockCars := new(testutil.MockCarRepository)
	mockInvitations := new(testutil.MockInvitationRepository)

	mockInvitations.On("Create", mock.MatchedBy(func(inv *domain.Invitation) bool {
		return inv.CarID == 2
	})).Return(int64(12), nil).Once()

	service := NewInvitationService(mockCars, mockInvitations, testutil.NewTestLogger())

	inv, err := service.Create(nil, domain.InvitationData{
		Plate: "A123BC77",
		CarID: 2, // existing invitation-only record
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(12), inv.ID)
	mockCars.AssertNotCalled(t, "Create", mock.Anything)
}

func TestInvitationService_Create_ConfirmedDuplicate(t *testing.T) {
	mockCars := new(testutil.MockCarRepository)
	mockInvitations := new(testutil.MockInvitationRepository)

	// The explicit re-invite decision lands in the invitation status
	mockInvitations.On("Create", mock.MatchedBy(func(inv *domain.Invitation) bool {
		return inv.CarID == 2 && inv.Status == domain.InvitationConfirmedDuplicate
	})).Return(int64(13), nil).Once()

	service := NewInvitationService(mockCars, mockInvitations, testutil.NewTestLogger())

	_, err := service.Create(nil, domain.InvitationData{
		Plate:              "A123BC77",
		CarID:              2,
		ConfirmedDuplicate: true,
	})

	assert.NoError(t, err)
	mockInvitations.AssertExpectations(t)
}

func TestInvitationService_Create_InvalidPlate(t *testing.T) {
	service := NewInvitationService(
		new(testutil.MockCarRepository),
		new(testutil.MockInvitationRepository),
		testutil.NewTestLogger(),
	)

	_, err := service.Create(nil, domain.InvitationData{Plate: "!!"})
	assert.Error(t, err)
}

func TestInvitationService_Create_StoreUnavailable(t *testing.T) {
	mockCars := new(testutil.MockCarRepository)
	mockInvitations := new(testutil.MockInvitationRepository)

	mockCars.On("Create", mock.Anything).Return(int64(0), fmt.Errorf("connection refused"))

	service := NewInvitationService(mockCars, mockInvitations, testutil.NewTestLogger())

	_, err := service.Create(nil, domain.InvitationData{Plate: "A123BC77"})

	assert.Error(t, err)
	mockInvitations.AssertNotCalled(t, "Create", mock.Anything)
}
