package handler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"avtoclub/internal/domain"
	"avtoclub/internal/password"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const adminOnlyMessage = "Команда доступна только администраторам."

// handleSetStatusCommand starts the administrative status-change flow
func (h *Handler) handleSetStatusCommand(c tele.Context) error {
	userID := c.Sender().ID
	if !h.cfg.IsAdmin(userID) {
		return c.Send(adminOnlyMessage)
	}

	sess := domain.NewSession(userID, c.Chat().ID, domain.FlowStatusChange, domain.StepTargetMember)
	h.sessions.Set(userID, sess)

	return c.Send("Telegram ID участника, чей статус меняем:", cancelMarkup())
}

// statusChangeText consumes one text event for the status-change flow
func (h *Handler) statusChangeText(c tele.Context, sess *domain.Session, text string) error {
	switch sess.Step {
	case domain.StepTargetMember:
		telegramID, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return c.Send("Нужен числовой Telegram ID. Попробуйте ещё раз:", cancelMarkup())
		}

		m, err := h.members.GetByTelegramID(telegramID)
		if err != nil {
			return h.retryLater(c, sess.UserID, err)
		}
		if m == nil {
			return c.Send("Участник с таким ID не найден. Попробуйте ещё раз:", cancelMarkup())
		}

		sess.StatusChange.TargetMemberID = m.ID
		sess.Step = domain.StepNewStatus
		h.sessions.Set(sess.UserID, sess)

		return c.Send(
			fmt.Sprintf("%s, текущий статус: %s. Новый статус:", m.FullName(), m.Status),
			statusMarkup(),
		)

	case domain.StepNewStatus:
		return c.Send("Выберите статус кнопкой.", statusMarkup())
	}

	return h.fail(c, sess.UserID, fmt.Errorf("status change at unknown step %s", sess.Step))
}

// handleStatusPick applies the chosen status to the target member
func (h *Handler) handleStatusPick(c tele.Context) error {
	userID := c.Sender().ID

	sess := h.sessions.Get(userID)
	if sess == nil || sess.Flow != domain.FlowStatusChange || sess.Step != domain.StepNewStatus {
		return c.Respond(&tele.CallbackResponse{Text: "Начните с команды /setstatus"})
	}

	status := c.Data()
	if !domain.ValidMemberStatus(status) {
		return c.Respond(&tele.CallbackResponse{Text: "Неизвестный статус"})
	}
	if err := c.Respond(); err != nil {
		return err
	}

	if err := h.members.ChangeStatus(sess.StatusChange.TargetMemberID, domain.MemberStatus(status)); err != nil {
		return h.retryLater(c, userID, err)
	}

	h.sessions.Delete(userID)

	h.logger.Info("Admin changed member status",
		zap.Int64("admin_id", userID),
		zap.Int64("member_id", sess.StatusChange.TargetMemberID),
		zap.String("status", status),
	)
	return c.Send(fmt.Sprintf("Статус изменён на «%s».", status))
}

// statusMarkup returns a keyboard of all member statuses
func statusMarkup() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(
			markup.Data("new", btnStatusSet.Unique, string(domain.StatusNew)),
			markup.Data("no_vehicle", btnStatusSet.Unique, string(domain.StatusNoVehicle)),
		),
		markup.Row(
			markup.Data("member", btnStatusSet.Unique, string(domain.StatusMember)),
			markup.Data("active", btnStatusSet.Unique, string(domain.StatusActive)),
		),
		markup.Row(
			markup.Data("left", btnStatusSet.Unique, string(domain.StatusLeft)),
			markup.Data("banned", btnStatusSet.Unique, string(domain.StatusBanned)),
		),
		markup.Row(btnCancel),
	)
	return markup
}

// handleSetPasswordCommand starts the temporary-password set flow
func (h *Handler) handleSetPasswordCommand(c tele.Context) error {
	userID := c.Sender().ID
	if !h.cfg.IsAdmin(userID) {
		return c.Send(adminOnlyMessage)
	}

	sess := domain.NewSession(userID, c.Chat().ID, domain.FlowPasswordSet, domain.StepPasswordValue)
	h.sessions.Set(userID, sess)

	return c.Send(
		fmt.Sprintf("Новый временный пароль (не короче %d символов):", password.MinLength),
		cancelMarkup(),
	)
}

// passwordSetText consumes the password value for the set flow
func (h *Handler) passwordSetText(c tele.Context, sess *domain.Session, text string) error {
	if err := h.passwords.Set(text); err != nil {
		if errors.Is(err, password.ErrTooShort) {
			return c.Send(
				fmt.Sprintf("Слишком короткий. Нужно не меньше %d символов:", password.MinLength),
				cancelMarkup(),
			)
		}
		return h.fail(c, sess.UserID, err)
	}

	h.sessions.Delete(sess.UserID)

	h.logger.Info("Temporary password set", zap.Int64("admin_id", sess.UserID))
	return c.Send(fmt.Sprintf("Пароль установлен. Истечёт через %s.", h.cfg.PasswordTTL))
}

// handleClearPasswordCommand drops the temporary password immediately
func (h *Handler) handleClearPasswordCommand(c tele.Context) error {
	if !h.cfg.IsAdmin(c.Sender().ID) {
		return c.Send(adminOnlyMessage)
	}

	h.passwords.Clear()
	h.logger.Info("Temporary password cleared", zap.Int64("admin_id", c.Sender().ID))
	return c.Send("Пароль сброшен.")
}

// handleResetLimitCommand clears all rate-limit windows for a user
func (h *Handler) handleResetLimitCommand(c tele.Context) error {
	if !h.cfg.IsAdmin(c.Sender().ID) {
		return c.Send(adminOnlyMessage)
	}

	arg := strings.TrimSpace(c.Message().Payload)
	targetID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return c.Send("Использование: /resetlimit <telegram id>")
	}

	h.limiter.ResetUser(targetID)

	h.logger.Info("Rate limits reset",
		zap.Int64("admin_id", c.Sender().ID),
		zap.Int64("target_id", targetID),
	)
	return c.Send("Лимиты сброшены.")
}
