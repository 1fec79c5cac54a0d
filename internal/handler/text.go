package handler

import (
	"strings"

	"avtoclub/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleText routes a text event to the active flow's current step.
// Text with no active session is ignored.
func (h *Handler) handleText(c tele.Context) error {
	userID := c.Sender().ID
	text := strings.TrimSpace(c.Text())

	// Commands are handled by their own handlers
	if strings.HasPrefix(text, "/") {
		return nil
	}

	sess := h.sessions.Get(userID)
	if sess == nil {
		return nil
	}

	switch sess.Flow {
	case domain.FlowRegistration:
		return h.registrationText(c, sess, text)
	case domain.FlowVehicleAdd:
		return h.vehicleText(c, sess, text)
	case domain.FlowInvitationCreate:
		return h.invitationText(c, sess, text)
	case domain.FlowProfileEdit:
		return h.profileEditText(c, sess, text)
	case domain.FlowVehicleEdit:
		return h.vehicleEditText(c, sess, text)
	case domain.FlowStatusChange:
		return h.statusChangeText(c, sess, text)
	case domain.FlowPasswordSet:
		return h.passwordSetText(c, sess, text)
	case domain.FlowPasswordVerify:
		return h.passwordVerifyText(c, sess, text)
	case domain.FlowSearch:
		return h.searchText(c, sess, text)
	}

	h.logger.Warn("Session with unknown flow",
		zap.String("flow", string(sess.Flow)),
		zap.Int64("user_id", userID),
	)
	h.sessions.Delete(userID)
	return nil
}

// handlePhoto routes a photo event to the active photo-collecting step.
// Photos outside such a step are ignored.
func (h *Handler) handlePhoto(c tele.Context) error {
	userID := c.Sender().ID

	sess := h.sessions.Get(userID)
	if sess == nil {
		return nil
	}

	photo := c.Message().Photo
	if photo == nil {
		return nil
	}
	// Telegram offers several size variants; only the file reference of
	// the largest is stored
	fileID := photo.FileID

	switch {
	case sess.Flow == domain.FlowRegistration && sess.Step == domain.StepPhoto:
		sess.Registration.PhotoFileID = fileID
		h.sessions.Set(userID, sess)
		return h.completeRegistration(c, sess)

	case sess.Flow == domain.FlowVehicleAdd && sess.Step == domain.StepPhotos:
		sess.Vehicle.PhotoFileIDs = append(sess.Vehicle.PhotoFileIDs, fileID)
		h.sessions.Set(userID, sess)
		if len(sess.Vehicle.PhotoFileIDs) >= maxCarPhotos {
			return h.completeVehicleAdd(c, sess)
		}
		return c.Send("Фото добавлено. Пришлите ещё или нажмите «Готово».", photosMarkup(false))

	case sess.Flow == domain.FlowInvitationCreate && sess.Step == domain.StepInvitePhotos:
		sess.Invitation.PhotoFileIDs = append(sess.Invitation.PhotoFileIDs, fileID)
		h.sessions.Set(userID, sess)
		if len(sess.Invitation.PhotoFileIDs) >= maxInvitationPhotos {
			return h.advanceToInviteComment(c, sess)
		}
		return c.Send("Фото добавлено. Пришлите ещё или нажмите «Готово».", photosMarkup(true))
	}

	return nil
}
