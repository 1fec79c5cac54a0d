package service

import (
	"fmt"

	"avtoclub/internal/domain"
	"avtoclub/internal/repository"

	"go.uber.org/zap"
)

// MemberService handles member business logic
type MemberService struct {
	memberRepo repository.MemberRepository
	logger     *zap.Logger
}

// NewMemberService creates a new member service
func NewMemberService(memberRepo repository.MemberRepository, logger *zap.Logger) *MemberService {
	return &MemberService{
		memberRepo: memberRepo,
		logger:     logger,
	}
}

// GetByTelegramID returns the member for a Telegram user, or nil
func (s *MemberService) GetByTelegramID(telegramID int64) (*domain.Member, error) {
	return s.memberRepo.GetByTelegramID(telegramID)
}

// GetByID returns the member with the given id, or nil
func (s *MemberService) GetByID(id int64) (*domain.Member, error) {
	return s.memberRepo.GetByID(id)
}

// Register creates a new member record. Members always start in the
// "new" status; rejects a second registration for the same Telegram user.
func (s *MemberService) Register(m *domain.Member) (int64, error) {
	if m.FirstName == "" || m.LastName == "" {
		return 0, fmt.Errorf("first and last name are required")
	}

	existing, err := s.memberRepo.GetByTelegramID(m.TelegramID)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return 0, fmt.Errorf("member already registered: telegram_id %d", m.TelegramID)
	}

	m.Status = domain.StatusNew
	id, err := s.memberRepo.Create(m)
	if err != nil {
		return 0, err
	}

	s.logger.Info("Member registered",
		zap.Int64("member_id", id),
		zap.Int64("telegram_id", m.TelegramID),
	)
	return id, nil
}

// UpdateProfile rewrites a member's editable profile fields
func (s *MemberService) UpdateProfile(m *domain.Member) error {
	return s.memberRepo.Update(m)
}

// ChangeStatus moves a member to the given status
func (s *MemberService) ChangeStatus(memberID int64, status domain.MemberStatus) error {
	if !domain.ValidMemberStatus(string(status)) {
		return fmt.Errorf("unknown member status %q", status)
	}

	if err := s.memberRepo.UpdateStatus(memberID, status); err != nil {
		return err
	}

	s.logger.Info("Member status changed",
		zap.Int64("member_id", memberID),
		zap.String("status", string(status)),
	)
	return nil
}

// Activate upgrades a member to the active status via the temporary
// password path. Only members in the member or no_vehicle statuses may
// be upgraded, and active is the only target.
func (s *MemberService) Activate(m *domain.Member) error {
	if !m.CanVerifyPassword() {
		return fmt.Errorf("status %s is not eligible for activation", m.Status)
	}
	return s.ChangeStatus(m.ID, domain.StatusActive)
}
