package testutil

import (
	"time"

	"avtoclub/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestMember creates a test member
func NewTestMember(id, telegramID int64, status domain.MemberStatus) *domain.Member {
	return &domain.Member{
		ID:         id,
		TelegramID: telegramID,
		ChatID:     telegramID,
		FirstName:  "Иван",
		LastName:   "Петров",
		Country:    "Россия",
		Status:     status,
		CreatedAt:  time.Now(),
	}
}

// NewTestCar creates an owned test car
func NewTestCar(id, ownerID int64, plate string, status domain.CarStatus) *domain.Car {
	return &domain.Car{
		ID:        id,
		OwnerID:   &ownerID,
		Plate:     plate,
		Brand:     "Lada",
		Model:     "Vesta",
		Year:      2020,
		Status:    status,
		CreatedAt: time.Now(),
	}
}

// NewInvitationCar creates an invitation-only test car (no owner)
func NewInvitationCar(id int64, plate string) *domain.Car {
	return &domain.Car{
		ID:        id,
		Plate:     plate,
		Status:    domain.CarInvitation,
		CreatedAt: time.Now(),
	}
}

// NewTestInvitation creates a test invitation
func NewTestInvitation(id, carID int64, status domain.InvitationStatus) *domain.Invitation {
	return &domain.Invitation{
		ID:        id,
		Ref:       "00000000-0000-0000-0000-000000000001",
		CarID:     carID,
		Status:    status,
		CreatedAt: time.Now(),
	}
}
