package handler

import (
	"fmt"

	"avtoclub/internal/domain"
	"avtoclub/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleRegisterCommand starts the registration flow
func (h *Handler) handleRegisterCommand(c tele.Context) error {
	userID := c.Sender().ID

	existing, err := h.members.GetByTelegramID(userID)
	if err != nil {
		return h.retryLater(c, userID, err)
	}
	if existing != nil {
		return c.Send("Вы уже зарегистрированы. Профиль: /profile")
	}

	sess := domain.NewSession(userID, c.Chat().ID, domain.FlowRegistration, domain.StepFirstName)
	sess.Notify = c.Chat().Type == tele.ChatPrivate
	h.sessions.Set(userID, sess)

	h.logger.Info("Registration started", zap.Int64("user_id", userID))
	return c.Send("Начнём регистрацию. Как вас зовут? (имя)", cancelMarkup())
}

// registrationText consumes one text event for the registration flow
func (h *Handler) registrationText(c tele.Context, sess *domain.Session, text string) error {
	switch sess.Step {
	case domain.StepFirstName:
		if text == "" {
			return c.Send("Имя не может быть пустым. Как вас зовут?", cancelMarkup())
		}
		sess.Registration.FirstName = text
		sess.Step = domain.StepLastName
		h.sessions.Set(sess.UserID, sess)
		return c.Send("Ваша фамилия?", cancelMarkup())

	case domain.StepLastName:
		if text == "" {
			return c.Send("Фамилия не может быть пустой. Ваша фамилия?", cancelMarkup())
		}
		sess.Registration.LastName = text
		sess.Step = domain.StepBirthDate
		h.sessions.Set(sess.UserID, sess)
		return c.Send("Дата рождения в формате ДД.ММ.ГГГГ:", cancelMarkup())

	case domain.StepBirthDate:
		date, err := domain.ParseBirthDate(text)
		if err != nil {
			return c.Send("Не похоже на дату. Укажите дату рождения в формате ДД.ММ.ГГГГ, например 15.06.1990:", cancelMarkup())
		}
		sess.Registration.BirthDate = date.Format("02.01.2006")
		sess.Step = domain.StepCity
		h.sessions.Set(sess.UserID, sess)
		return c.Send("Из какого вы города?", skipMarkup())

	case domain.StepCity:
		sess.Registration.City = text
		sess.Step = domain.StepCountry
		h.sessions.Set(sess.UserID, sess)
		return c.Send("Страна? (по умолчанию — Россия)", skipMarkup())

	case domain.StepCountry:
		sess.Registration.Country = text
		sess.Step = domain.StepPhone
		h.sessions.Set(sess.UserID, sess)
		return c.Send("Номер телефона для связи:", cancelMarkup())

	case domain.StepPhone:
		if text == "" {
			return c.Send("Телефон обязателен. Укажите номер:", cancelMarkup())
		}
		sess.Registration.Phone = text
		sess.Step = domain.StepAbout
		h.sessions.Set(sess.UserID, sess)
		return c.Send("Пара слов о себе:", skipMarkup())

	case domain.StepAbout:
		sess.Registration.About = text
		sess.Step = domain.StepPhoto
		h.sessions.Set(sess.UserID, sess)
		return c.Send("Пришлите ваше фото или нажмите «Пропустить».", skipMarkup())

	case domain.StepPhoto:
		return c.Send("Жду фото. Либо нажмите «Пропустить».", skipMarkup())
	}

	return h.fail(c, sess.UserID, fmt.Errorf("registration flow at unknown step %s", sess.Step))
}

// registrationSkip handles the skip signal: optional steps advance with
// the field absent, required steps re-prompt unchanged
func (h *Handler) registrationSkip(c tele.Context, sess *domain.Session) error {
	switch sess.Step {
	case domain.StepCity:
		sess.Step = domain.StepCountry
		h.sessions.Set(sess.UserID, sess)
		return c.Send("Страна? (по умолчанию — Россия)", skipMarkup())

	case domain.StepCountry:
		// Skipped country takes the fixed default
		sess.Registration.Country = defaultCountry
		sess.Step = domain.StepPhone
		h.sessions.Set(sess.UserID, sess)
		return c.Send("Номер телефона для связи:", cancelMarkup())

	case domain.StepAbout:
		sess.Step = domain.StepPhoto
		h.sessions.Set(sess.UserID, sess)
		return c.Send("Пришлите ваше фото или нажмите «Пропустить».", skipMarkup())

	case domain.StepPhoto:
		return h.completeRegistration(c, sess)
	}

	return c.Send("Этот шаг нельзя пропустить.")
}

// completeRegistration performs the single persistence write, deletes
// the session and then attempts the broadcast notification
func (h *Handler) completeRegistration(c tele.Context, sess *domain.Session) error {
	userID := sess.UserID

	// A synchronous cancel may have removed the session while a prior
	// step awaited I/O; never commit without it
	if h.sessions.Get(userID) != sess {
		return nil
	}

	m := &domain.Member{
		TelegramID:  userID,
		ChatID:      sess.ChatID,
		FirstName:   sess.Registration.FirstName,
		LastName:    sess.Registration.LastName,
		City:        sess.Registration.City,
		Country:     sess.Registration.Country,
		Phone:       sess.Registration.Phone,
		About:       sess.Registration.About,
		PhotoFileID: sess.Registration.PhotoFileID,
	}
	if sess.Registration.BirthDate != "" {
		date, err := domain.ParseBirthDate(sess.Registration.BirthDate)
		if err != nil {
			return h.fail(c, userID, fmt.Errorf("stored birth date invalid: %w", err))
		}
		m.BirthDate = &date
	}

	if _, err := h.members.Register(m); err != nil {
		return h.retryLater(c, userID, err)
	}

	h.sessions.Delete(userID)

	if sess.Notify {
		caption := fmt.Sprintf("🎉 Новый участник: %s", m.FullName())
		if m.PhotoFileID != "" {
			h.notify.BroadcastPhoto(service.NotifyNewMember, m.PhotoFileID, caption)
		} else {
			h.notify.Broadcast(service.NotifyNewMember, caption)
		}
	}

	return c.Send("Регистрация завершена! Добавьте автомобиль: /addcar")
}
