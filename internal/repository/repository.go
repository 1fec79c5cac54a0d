package repository

import (
	"avtoclub/internal/domain"
)

// MemberRepository defines member data operations. Lookups return
// (nil, nil) when no record exists; errors mean the store itself failed.
type MemberRepository interface {
	GetByTelegramID(telegramID int64) (*domain.Member, error)
	GetByID(id int64) (*domain.Member, error)
	Create(m *domain.Member) (int64, error)
	Update(m *domain.Member) error
	UpdateStatus(id int64, status domain.MemberStatus) error
}

// CarRepository defines vehicle data operations
type CarRepository interface {
	GetByID(id int64) (*domain.Car, error)
	GetByOwner(memberID int64) ([]domain.Car, error)
	GetByPlate(plate string) ([]domain.Car, error)
	Create(c *domain.Car) (int64, error)
	Update(c *domain.Car) error
	UpdateStatus(id int64, status domain.CarStatus) error
}

// InvitationRepository defines invitation data operations
type InvitationRepository interface {
	GetByCar(carID int64) ([]domain.Invitation, error)
	// GetOpenByPlate returns non-terminal invitations whose car carries
	// the plate, across all vehicle records sharing it.
	GetOpenByPlate(plate string) ([]domain.Invitation, error)
	Create(inv *domain.Invitation) (int64, error)
	UpdateStatus(id int64, status domain.InvitationStatus) error
	Relink(id int64, carID int64, status domain.InvitationStatus) error
}
