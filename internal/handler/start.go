package handler

import (
	"fmt"
	"strings"

	"avtoclub/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleStart handles /start command
func (h *Handler) handleStart(c tele.Context) error {
	userID := c.Sender().ID

	h.logger.Info("User started bot",
		zap.Int64("user_id", userID),
		zap.String("username", c.Sender().Username),
	)

	m, err := h.members.GetByTelegramID(userID)
	if err != nil {
		return c.Send(retryLaterMessage)
	}

	if m == nil {
		return c.Send("Привет! Это бот автоклуба.\n\n" +
			"Зарегистрироваться: /register\n" +
			"Найти автомобиль по номеру: /search")
	}

	return c.Send(fmt.Sprintf("С возвращением, %s!\n\n", m.FirstName) +
		"Профиль: /profile\n" +
		"Добавить автомобиль: /addcar\n" +
		"Пригласить автомобиль: /invite\n" +
		"Поиск по номеру: /search")
}

// handleProfileCommand shows the member's card with an edit keyboard
func (h *Handler) handleProfileCommand(c tele.Context) error {
	userID := c.Sender().ID

	m, err := h.members.GetByTelegramID(userID)
	if err != nil {
		return c.Send(retryLaterMessage)
	}
	if m == nil {
		return c.Send("Вы ещё не зарегистрированы: /register")
	}

	cars, err := h.cars.GetByOwner(m.ID)
	if err != nil {
		return c.Send(retryLaterMessage)
	}

	text := profileText(m, cars)

	if m.PhotoFileID != "" {
		photo := &tele.Photo{File: tele.File{FileID: m.PhotoFileID}, Caption: text}
		if err := c.Send(photo, profileEditMarkup()); err != nil {
			h.logger.Warn("Profile photo send failed, falling back to text",
				zap.Error(err),
				zap.Int64("user_id", userID),
			)
			return c.Send(text, profileEditMarkup())
		}
		return nil
	}

	return c.Send(text, profileEditMarkup())
}

// profileText renders the member card
func profileText(m *domain.Member, cars []domain.Car) string {
	var b strings.Builder

	fmt.Fprintf(&b, "👤 %s\n", m.FullName())
	fmt.Fprintf(&b, "Статус: %s\n", m.Status)
	if m.BirthDate != nil {
		fmt.Fprintf(&b, "Дата рождения: %s\n", m.BirthDateString())
	}
	if m.City != "" {
		fmt.Fprintf(&b, "Город: %s\n", m.City)
	}
	if m.Country != "" {
		fmt.Fprintf(&b, "Страна: %s\n", m.Country)
	}
	if m.Phone != "" {
		fmt.Fprintf(&b, "Телефон: %s\n", m.Phone)
	}
	if m.About != "" {
		fmt.Fprintf(&b, "О себе: %s\n", m.About)
	}

	if len(cars) > 0 {
		b.WriteString("\n🚗 Автомобили:\n")
		for _, car := range cars {
			fmt.Fprintf(&b, "• %s, %d — %s\n", car.Description(), car.Year, car.Status)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
