package service

import (
	"go.uber.org/zap"
)

// NotifyCategory names a class of broadcast notification
type NotifyCategory string

const (
	NotifyNewMember     NotifyCategory = "new_member"
	NotifyNewCar        NotifyCategory = "new_car"
	NotifyNewInvitation NotifyCategory = "new_invitation"
)

// Sender is the outbound messaging surface the notifier uses
type Sender interface {
	SendText(chatID int64, text string) error
	SendPhoto(chatID int64, fileID, caption string) error
}

// NotifyService broadcasts flow-completion announcements to the club
// chat. Sends are fire-and-forget: failures are logged, never returned
// to the completing flow.
type NotifyService struct {
	sender     Sender
	clubChatID int64
	enabled    map[NotifyCategory]bool
	logger     *zap.Logger
}

// NewNotifyService creates a notifier for the given club chat.
// Categories absent from enabled are treated as off.
func NewNotifyService(sender Sender, clubChatID int64, enabled map[NotifyCategory]bool, logger *zap.Logger) *NotifyService {
	return &NotifyService{
		sender:     sender,
		clubChatID: clubChatID,
		enabled:    enabled,
		logger:     logger,
	}
}

// CategoryEnabled reports whether broadcasts of the category are on
func (s *NotifyService) CategoryEnabled(category NotifyCategory) bool {
	return s.enabled[category]
}

// Broadcast sends a text announcement to the club chat if the category
// is enabled
func (s *NotifyService) Broadcast(category NotifyCategory, text string) {
	if !s.CategoryEnabled(category) || s.clubChatID == 0 {
		return
	}

	if err := s.sender.SendText(s.clubChatID, text); err != nil {
		s.logger.Error("Failed to broadcast notification",
			zap.Error(err),
			zap.String("category", string(category)),
		)
	}
}

// BroadcastPhoto sends a photo announcement, falling back to text-only
// when the photo send fails
func (s *NotifyService) BroadcastPhoto(category NotifyCategory, fileID, caption string) {
	if !s.CategoryEnabled(category) || s.clubChatID == 0 {
		return
	}

	if err := s.sender.SendPhoto(s.clubChatID, fileID, caption); err != nil {
		s.logger.Warn("Photo broadcast failed, falling back to text",
			zap.Error(err),
			zap.String("category", string(category)),
		)
		if err := s.sender.SendText(s.clubChatID, caption); err != nil {
			s.logger.Error("Failed to broadcast notification",
				zap.Error(err),
				zap.String("category", string(category)),
			)
		}
	}
}
