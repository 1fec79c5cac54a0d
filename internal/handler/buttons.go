package handler

import (
	"fmt"

	"avtoclub/internal/domain"

	tele "gopkg.in/telebot.v3"
)

// handleCancelButton deletes the session and reports which flow was
// abandoned. Available at any step of any flow; synchronous — state is
// gone regardless of any in-flight call started by a previous step.
func (h *Handler) handleCancelButton(c tele.Context) error {
	userID := c.Sender().ID

	sess := h.sessions.Get(userID)
	if sess == nil {
		return c.Respond(&tele.CallbackResponse{Text: "Нет активной операции"})
	}

	title := sess.Flow.Title()
	h.sessions.Delete(userID)

	if err := c.Respond(); err != nil {
		return err
	}
	return c.Send(fmt.Sprintf("«%s» — отменено.", title))
}

// handleCancelCommand is the /cancel text alternative to the button
func (h *Handler) handleCancelCommand(c tele.Context) error {
	userID := c.Sender().ID

	sess := h.sessions.Get(userID)
	if sess == nil {
		return c.Send("Нет активной операции.")
	}

	title := sess.Flow.Title()
	h.sessions.Delete(userID)
	return c.Send(fmt.Sprintf("«%s» — отменено.", title))
}

// handleSkipButton advances past an optional step leaving the field
// absent. A skip on a required step never advances.
func (h *Handler) handleSkipButton(c tele.Context) error {
	userID := c.Sender().ID

	sess := h.sessions.Get(userID)
	if sess == nil {
		return c.Respond(&tele.CallbackResponse{Text: "Нет активной операции"})
	}
	if err := c.Respond(); err != nil {
		return err
	}

	switch sess.Flow {
	case domain.FlowRegistration:
		return h.registrationSkip(c, sess)
	case domain.FlowVehicleAdd:
		return h.vehicleSkip(c, sess)
	case domain.FlowInvitationCreate:
		return h.invitationSkip(c, sess)
	}

	return c.Send("Этот шаг нельзя пропустить.")
}

// handleDoneButton ends a photo-collecting step and advances
func (h *Handler) handleDoneButton(c tele.Context) error {
	userID := c.Sender().ID

	sess := h.sessions.Get(userID)
	if sess == nil {
		return c.Respond(&tele.CallbackResponse{Text: "Нет активной операции"})
	}
	if err := c.Respond(); err != nil {
		return err
	}

	switch {
	case sess.Flow == domain.FlowRegistration && sess.Step == domain.StepPhoto:
		return h.completeRegistration(c, sess)
	case sess.Flow == domain.FlowVehicleAdd && sess.Step == domain.StepPhotos:
		return h.completeVehicleAdd(c, sess)
	case sess.Flow == domain.FlowInvitationCreate && sess.Step == domain.StepInvitePhotos:
		return h.advanceToInviteComment(c, sess)
	}

	return nil
}

// handleFinishButton completes the flow early, treating all remaining
// optional fields as absent
func (h *Handler) handleFinishButton(c tele.Context) error {
	userID := c.Sender().ID

	sess := h.sessions.Get(userID)
	if sess == nil {
		return c.Respond(&tele.CallbackResponse{Text: "Нет активной операции"})
	}
	if err := c.Respond(); err != nil {
		return err
	}

	if sess.Flow == domain.FlowInvitationCreate &&
		(sess.Step == domain.StepInvitePhotos || sess.Step == domain.StepInviteComment) {
		return h.completeInvitation(c, sess)
	}

	return c.Send("Завершить досрочно можно только создание приглашения.")
}
