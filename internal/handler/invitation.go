package handler

import (
	"errors"
	"fmt"
	"strings"

	"avtoclub/internal/domain"
	"avtoclub/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleInviteCommand starts the invitation-create flow
func (h *Handler) handleInviteCommand(c tele.Context) error {
	userID := c.Sender().ID

	_, err := h.requireMember(c)
	if errors.Is(err, errNotRegistered) {
		return c.Send("Приглашения могут оставлять только участники клуба. Сначала зарегистрируйтесь: /register")
	}
	if err != nil {
		return h.retryLater(c, userID, err)
	}

	sess := domain.NewSession(userID, c.Chat().ID, domain.FlowInvitationCreate, domain.StepInvitePlate)
	sess.Notify = c.Chat().Type == tele.ChatPrivate
	h.sessions.Set(userID, sess)

	h.logger.Info("Invitation flow started", zap.Int64("user_id", userID))
	return c.Send("Госномер автомобиля, который хотите пригласить:", cancelMarkup())
}

// invitationText consumes one text event for the invitation flow
func (h *Handler) invitationText(c tele.Context, sess *domain.Session, text string) error {
	switch sess.Step {
	case domain.StepInvitePlate:
		return h.invitationPlateStep(c, sess, text)

	case domain.StepInviteDuplicate:
		return c.Send("Выберите: пригласить ещё раз или отменить.", duplicateMarkup())

	case domain.StepInvitePhotos:
		return c.Send("Жду фото автомобиля. Когда закончите — нажмите «Готово».", photosMarkup(true))

	case domain.StepInviteComment:
		sess.Invitation.Comment = text
		h.sessions.Set(sess.UserID, sess)
		return h.completeInvitation(c, sess)
	}

	return h.fail(c, sess.UserID, fmt.Errorf("invitation flow at unknown step %s", sess.Step))
}

// invitationPlateStep validates the plate and branches on existing
// records: an owned match aborts the flow, an invitation-only match
// demands an explicit continue, an unseen plate proceeds.
func (h *Handler) invitationPlateStep(c tele.Context, sess *domain.Session, text string) error {
	plate, ok := domain.NormalizePlate(text)
	if !ok {
		// The plate is mandatory and never skippable
		return c.Send("Номер должен состоять из 4–12 латинских букв и цифр, без пробелов. Попробуйте ещё раз:", cancelMarkup())
	}

	res, err := h.invitations.ResolvePlate(plate)
	if err != nil {
		return h.retryLater(c, sess.UserID, err)
	}

	if res.OwnedCar != nil {
		// The plate belongs to a club member; an invitation cannot be
		// created against it
		h.sessions.Delete(sess.UserID)
		return c.Send(fmt.Sprintf(
			"Этот автомобиль уже в клубе: %s. Приглашение не требуется.",
			res.OwnedCar.Description(),
		))
	}

	sess.Invitation.Plate = plate

	if res.InvitationCar != nil {
		sess.Invitation.CarID = res.InvitationCar.ID
		sess.Step = domain.StepInviteDuplicate
		h.sessions.Set(sess.UserID, sess)

		return c.Send(historyText(plate, res.History), duplicateMarkup())
	}

	sess.Step = domain.StepInvitePhotos
	h.sessions.Set(sess.UserID, sess)
	return c.Send(
		fmt.Sprintf("Пришлите до %d фото автомобиля. Когда закончите — нажмите «Готово».", maxInvitationPhotos),
		photosMarkup(true),
	)
}

// handleDuplicateContinue records the explicit decision to re-invite an
// already-invited plate and proceeds to photo collection
func (h *Handler) handleDuplicateContinue(c tele.Context) error {
	userID := c.Sender().ID

	sess := h.sessions.Get(userID)
	if sess == nil || sess.Flow != domain.FlowInvitationCreate || sess.Step != domain.StepInviteDuplicate {
		return c.Respond(&tele.CallbackResponse{Text: "Нет ожидающего решения"})
	}
	if err := c.Respond(); err != nil {
		return err
	}

	sess.Invitation.ConfirmedDuplicate = true
	sess.Step = domain.StepInvitePhotos
	h.sessions.Set(userID, sess)

	h.logger.Info("Duplicate invitation confirmed",
		zap.Int64("user_id", userID),
		zap.String("plate", sess.Invitation.Plate),
	)
	return c.Send(
		fmt.Sprintf("Хорошо, приглашаем ещё раз. Пришлите до %d фото. Когда закончите — нажмите «Готово».", maxInvitationPhotos),
		photosMarkup(true),
	)
}

// invitationSkip handles the skip signal in the invitation flow
func (h *Handler) invitationSkip(c tele.Context, sess *domain.Session) error {
	switch sess.Step {
	case domain.StepInviteComment:
		return h.completeInvitation(c, sess)
	}

	return c.Send("Этот шаг нельзя пропустить.")
}

// advanceToInviteComment moves from photo collection to the comment step
func (h *Handler) advanceToInviteComment(c tele.Context, sess *domain.Session) error {
	sess.Step = domain.StepInviteComment
	h.sessions.Set(sess.UserID, sess)

	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(btnSkip, btnFinish, btnCancel))
	return c.Send("Комментарий к приглашению (где видели автомобиль и т.п.):", markup)
}

// completeInvitation performs the single persistence write: reuse or
// create the invitation-only car and create exactly one invitation
func (h *Handler) completeInvitation(c tele.Context, sess *domain.Session) error {
	userID := sess.UserID

	if h.sessions.Get(userID) != sess {
		return nil
	}

	m, err := h.requireMember(c)
	if err != nil {
		return h.retryLater(c, userID, err)
	}

	inv, err := h.invitations.Create(&m.ID, sess.Invitation)
	if err != nil {
		return h.retryLater(c, userID, err)
	}

	h.sessions.Delete(userID)

	if sess.Notify {
		caption := fmt.Sprintf("✉️ Новое приглашение: %s", sess.Invitation.Plate)
		if len(inv.PhotoFileIDs) > 0 {
			h.notify.BroadcastPhoto(service.NotifyNewInvitation, inv.PhotoFileIDs[0], caption)
		} else {
			h.notify.Broadcast(service.NotifyNewInvitation, caption)
		}
	}

	return c.Send("Приглашение создано!")
}

// duplicateMarkup returns the continue/cancel decision keyboard
func duplicateMarkup() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(btnDupContinue, btnCancel))
	return markup
}

// historyText renders existing invitation history for a plate
func historyText(plate string, history []domain.Invitation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Номер %s уже приглашали (%d раз).\n", plate, len(history))
	for i, inv := range history {
		if i >= 5 {
			fmt.Fprintf(&b, "…и ещё %d.\n", len(history)-i)
			break
		}
		fmt.Fprintf(&b, "• %s — %s\n", inv.CreatedAt.Format("02.01.2006"), inv.Status)
	}
	b.WriteString("Пригласить ещё раз?")
	return b.String()
}
