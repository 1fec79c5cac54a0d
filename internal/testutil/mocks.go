package testutil

import (
	"avtoclub/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockMemberRepository is a mock for repository.MemberRepository
type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) GetByTelegramID(telegramID int64) (*domain.Member, error) {
	args := m.Called(telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockMemberRepository) GetByID(id int64) (*domain.Member, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockMemberRepository) Create(member *domain.Member) (int64, error) {
	args := m.Called(member)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMemberRepository) Update(member *domain.Member) error {
	args := m.Called(member)
	return args.Error(0)
}

func (m *MockMemberRepository) UpdateStatus(id int64, status domain.MemberStatus) error {
	args := m.Called(id, status)
	return args.Error(0)
}

// MockCarRepository is a mock for repository.CarRepository
type MockCarRepository struct {
	mock.Mock
}

func (m *MockCarRepository) GetByID(id int64) (*domain.Car, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Car), args.Error(1)
}

func (m *MockCarRepository) GetByOwner(memberID int64) ([]domain.Car, error) {
	args := m.Called(memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Car), args.Error(1)
}

func (m *MockCarRepository) GetByPlate(plate string) ([]domain.Car, error) {
	args := m.Called(plate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Car), args.Error(1)
}

func (m *MockCarRepository) Create(car *domain.Car) (int64, error) {
	args := m.Called(car)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCarRepository) Update(car *domain.Car) error {
	args := m.Called(car)
	return args.Error(0)
}

func (m *MockCarRepository) UpdateStatus(id int64, status domain.CarStatus) error {
	args := m.Called(id, status)
	return args.Error(0)
}

// MockInvitationRepository is a mock for repository.InvitationRepository
type MockInvitationRepository struct {
	mock.Mock
}

func (m *MockInvitationRepository) GetByCar(carID int64) ([]domain.Invitation, error) {
	args := m.Called(carID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) GetOpenByPlate(plate string) ([]domain.Invitation, error) {
	args := m.Called(plate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) Create(inv *domain.Invitation) (int64, error) {
	args := m.Called(inv)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvitationRepository) UpdateStatus(id int64, status domain.InvitationStatus) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func (m *MockInvitationRepository) Relink(id int64, carID int64, status domain.InvitationStatus) error {
	args := m.Called(id, carID, status)
	return args.Error(0)
}

// MockSender is a mock for service.Sender
type MockSender struct {
	mock.Mock
}

func (m *MockSender) SendText(chatID int64, text string) error {
	args := m.Called(chatID, text)
	return args.Error(0)
}

func (m *MockSender) SendPhoto(chatID int64, fileID, caption string) error {
	args := m.Called(chatID, fileID, caption)
	return args.Error(0)
}
