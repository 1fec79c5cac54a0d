package handler

import (
	"errors"
	"fmt"

	"avtoclub/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handlePasswordCommand starts the self-service status upgrade flow.
// Only members in the member or no_vehicle statuses may attempt it, and
// only while a temporary password is active.
func (h *Handler) handlePasswordCommand(c tele.Context) error {
	userID := c.Sender().ID

	m, err := h.requireMember(c)
	if errors.Is(err, errNotRegistered) {
		return c.Send("Сначала зарегистрируйтесь: /register")
	}
	if err != nil {
		return h.retryLater(c, userID, err)
	}

	if !m.CanVerifyPassword() {
		return c.Send(fmt.Sprintf("Повышение недоступно для статуса «%s».", m.Status))
	}
	if !h.passwords.IsActive() {
		return c.Send("Сейчас нет активного пароля. Узнайте пароль у администратора на встрече клуба.")
	}

	sess := domain.NewSession(userID, c.Chat().ID, domain.FlowPasswordVerify, domain.StepPasswordValue)
	h.sessions.Set(userID, sess)

	return c.Send("Введите пароль:", cancelMarkup())
}

// passwordVerifyText consumes a verification attempt. Failure re-prompts
// without consuming the password or clearing the session; success
// upgrades the member to the active status.
func (h *Handler) passwordVerifyText(c tele.Context, sess *domain.Session, text string) error {
	if !h.passwords.Verify(text) {
		return c.Send("Неверный пароль. Попробуйте ещё раз:", cancelMarkup())
	}

	m, err := h.requireMember(c)
	if err != nil {
		return h.retryLater(c, sess.UserID, err)
	}

	if err := h.members.Activate(m); err != nil {
		h.sessions.Delete(sess.UserID)
		h.logger.Warn("Password upgrade refused",
			zap.Error(err),
			zap.Int64("member_id", m.ID),
		)
		return c.Send(fmt.Sprintf("Повышение недоступно для статуса «%s».", m.Status))
	}

	h.sessions.Delete(sess.UserID)

	h.logger.Info("Member activated via password",
		zap.Int64("member_id", m.ID),
	)
	return c.Send("Статус повышен — добро пожаловать в актив клуба! 🎉")
}
