package handler

import (
	"errors"
	"fmt"
	"strconv"

	"avtoclub/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// profileFields maps editable profile field names to their prompts
var profileFields = map[string]string{
	"first_name": "Новое имя:",
	"last_name":  "Новая фамилия:",
	"birth_date": "Новая дата рождения (ДД.ММ.ГГГГ):",
	"city":       "Новый город:",
	"country":    "Новая страна:",
	"phone":      "Новый телефон:",
	"about":      "Новый текст о себе:",
}

// carFields maps editable car field names to their prompts
var carFields = map[string]string{
	"brand": "Новая марка:",
	"model": "Новая модель:",
	"year":  "Новый год выпуска:",
	"color": "Новый цвет:",
	"plate": "Новый госномер:",
}

// profileEditMarkup returns the field-picker keyboard for /profile
func profileEditMarkup() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(
			markup.Data("Имя", btnEditField.Unique, "first_name"),
			markup.Data("Фамилия", btnEditField.Unique, "last_name"),
		),
		markup.Row(
			markup.Data("Дата рождения", btnEditField.Unique, "birth_date"),
			markup.Data("Телефон", btnEditField.Unique, "phone"),
		),
		markup.Row(
			markup.Data("Город", btnEditField.Unique, "city"),
			markup.Data("Страна", btnEditField.Unique, "country"),
		),
		markup.Row(markup.Data("О себе", btnEditField.Unique, "about")),
	)
	return markup
}

// handleEditFieldPick starts the profile-edit flow at the chosen field.
// An explicit field pick replaces any active flow.
func (h *Handler) handleEditFieldPick(c tele.Context) error {
	userID := c.Sender().ID
	field := c.Data()

	prompt, ok := profileFields[field]
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "Неизвестное поле"})
	}

	_, err := h.requireMember(c)
	if errors.Is(err, errNotRegistered) {
		return c.Respond(&tele.CallbackResponse{Text: "Сначала зарегистрируйтесь: /register"})
	}
	if err != nil {
		return h.retryLater(c, userID, err)
	}
	if err := c.Respond(); err != nil {
		return err
	}

	sess := domain.NewSession(userID, c.Chat().ID, domain.FlowProfileEdit, domain.StepEditValue)
	sess.Edit.Field = field
	h.sessions.Set(userID, sess)

	return c.Send(prompt, cancelMarkup())
}

// profileEditText consumes the new value for the picked profile field
func (h *Handler) profileEditText(c tele.Context, sess *domain.Session, text string) error {
	if sess.Step != domain.StepEditValue {
		return h.fail(c, sess.UserID, fmt.Errorf("profile edit at unknown step %s", sess.Step))
	}

	m, err := h.requireMember(c)
	if err != nil {
		return h.retryLater(c, sess.UserID, err)
	}

	switch sess.Edit.Field {
	case "first_name":
		if text == "" {
			return c.Send("Имя не может быть пустым. Новое имя:", cancelMarkup())
		}
		m.FirstName = text
	case "last_name":
		if text == "" {
			return c.Send("Фамилия не может быть пустой. Новая фамилия:", cancelMarkup())
		}
		m.LastName = text
	case "birth_date":
		date, err := domain.ParseBirthDate(text)
		if err != nil {
			return c.Send("Не похоже на дату. Формат — ДД.ММ.ГГГГ:", cancelMarkup())
		}
		m.BirthDate = &date
	case "city":
		m.City = text
	case "country":
		m.Country = text
	case "phone":
		if text == "" {
			return c.Send("Телефон не может быть пустым. Новый телефон:", cancelMarkup())
		}
		m.Phone = text
	case "about":
		m.About = text
	default:
		return h.fail(c, sess.UserID, fmt.Errorf("profile edit of unknown field %s", sess.Edit.Field))
	}

	if err := h.members.UpdateProfile(m); err != nil {
		return h.retryLater(c, sess.UserID, err)
	}

	h.sessions.Delete(sess.UserID)

	h.logger.Info("Profile field updated",
		zap.Int64("member_id", m.ID),
		zap.String("field", sess.Edit.Field),
	)
	return c.Send("Профиль обновлён. Посмотреть: /profile")
}

// handleEditCarCommand starts the vehicle-edit flow with a car picker
func (h *Handler) handleEditCarCommand(c tele.Context) error {
	userID := c.Sender().ID

	m, err := h.requireMember(c)
	if errors.Is(err, errNotRegistered) {
		return c.Send("Сначала зарегистрируйтесь: /register")
	}
	if err != nil {
		return h.retryLater(c, userID, err)
	}

	cars, err := h.cars.GetByOwner(m.ID)
	if err != nil {
		return h.retryLater(c, userID, err)
	}
	if len(cars) == 0 {
		return c.Send("У вас пока нет автомобилей. Добавить: /addcar")
	}

	sess := domain.NewSession(userID, c.Chat().ID, domain.FlowVehicleEdit, domain.StepEditCarSelect)
	h.sessions.Set(userID, sess)

	markup := &tele.ReplyMarkup{}
	rows := []tele.Row{}
	for _, car := range cars {
		rows = append(rows, markup.Row(
			markup.Data(car.Description(), btnEditCarPick.Unique, strconv.FormatInt(car.ID, 10)),
		))
	}
	rows = append(rows, markup.Row(btnCancel))
	markup.Inline(rows...)

	return c.Send("Какой автомобиль редактируем?", markup)
}

// handleEditCarPick stores the chosen car and shows the field picker
func (h *Handler) handleEditCarPick(c tele.Context) error {
	userID := c.Sender().ID

	sess := h.sessions.Get(userID)
	if sess == nil || sess.Flow != domain.FlowVehicleEdit {
		return c.Respond(&tele.CallbackResponse{Text: "Начните с команды /editcar"})
	}

	carID, err := strconv.ParseInt(c.Data(), 10, 64)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Неизвестный автомобиль"})
	}
	if err := c.Respond(); err != nil {
		return err
	}

	sess.Edit.CarID = carID
	sess.Step = domain.StepEditCarField
	h.sessions.Set(userID, sess)

	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(
			markup.Data("Марка", btnEditCarField.Unique, "brand"),
			markup.Data("Модель", btnEditCarField.Unique, "model"),
		),
		markup.Row(
			markup.Data("Год", btnEditCarField.Unique, "year"),
			markup.Data("Цвет", btnEditCarField.Unique, "color"),
		),
		markup.Row(markup.Data("Госномер", btnEditCarField.Unique, "plate")),
	)
	return c.Send("Что меняем?", markup)
}

// handleEditCarFieldPick stores the chosen field and prompts for a value
func (h *Handler) handleEditCarFieldPick(c tele.Context) error {
	userID := c.Sender().ID

	sess := h.sessions.Get(userID)
	if sess == nil || sess.Flow != domain.FlowVehicleEdit || sess.Step != domain.StepEditCarField {
		return c.Respond(&tele.CallbackResponse{Text: "Начните с команды /editcar"})
	}

	field := c.Data()
	prompt, ok := carFields[field]
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "Неизвестное поле"})
	}
	if err := c.Respond(); err != nil {
		return err
	}

	sess.Edit.Field = field
	sess.Step = domain.StepEditCarValue
	h.sessions.Set(userID, sess)

	return c.Send(prompt, cancelMarkup())
}

// vehicleEditText consumes the new value for the picked car field
func (h *Handler) vehicleEditText(c tele.Context, sess *domain.Session, text string) error {
	switch sess.Step {
	case domain.StepEditCarSelect:
		return c.Send("Выберите автомобиль кнопкой выше.")
	case domain.StepEditCarField:
		return c.Send("Выберите поле кнопкой выше.")
	case domain.StepEditCarValue:
		// handled below
	default:
		return h.fail(c, sess.UserID, fmt.Errorf("vehicle edit at unknown step %s", sess.Step))
	}

	m, err := h.requireMember(c)
	if err != nil {
		return h.retryLater(c, sess.UserID, err)
	}

	car, err := h.cars.GetByID(sess.Edit.CarID)
	if err != nil {
		return h.retryLater(c, sess.UserID, err)
	}
	if car == nil || !car.Owned() || *car.OwnerID != m.ID {
		h.sessions.Delete(sess.UserID)
		return c.Send("Этот автомобиль вам не принадлежит.")
	}

	plateChanged := false
	switch sess.Edit.Field {
	case "brand":
		if text == "" {
			return c.Send("Марка не может быть пустой. Новая марка:", cancelMarkup())
		}
		car.Brand = text
	case "model":
		if text == "" {
			return c.Send("Модель не может быть пустой. Новая модель:", cancelMarkup())
		}
		car.Model = text
	case "year":
		year, err := strconv.Atoi(text)
		if err != nil || !domain.ValidCarYear(year) {
			return c.Send(
				fmt.Sprintf("Укажите год числом от %d до следующего года:", domain.MinCarYear),
				cancelMarkup(),
			)
		}
		car.Year = year
	case "color":
		car.Color = text
	case "plate":
		plate, ok := domain.NormalizePlate(text)
		if !ok {
			return c.Send("Номер должен состоять из 4–12 латинских букв и цифр, без пробелов:", cancelMarkup())
		}
		plateChanged = plate != car.Plate
		car.Plate = plate
	default:
		return h.fail(c, sess.UserID, fmt.Errorf("vehicle edit of unknown field %s", sess.Edit.Field))
	}

	if err := h.cars.UpdateCar(car); err != nil {
		return h.retryLater(c, sess.UserID, err)
	}

	// A re-plated active car is a fresh ownership claim on that plate
	if plateChanged && car.Status == domain.CarActive {
		if err := h.cars.ReconcilePlate(car.Plate, car.ID); err != nil {
			h.logger.Error("Plate reconciliation after edit failed",
				zap.Error(err),
				zap.String("plate", car.Plate),
			)
		}
	}

	h.sessions.Delete(sess.UserID)

	h.logger.Info("Car field updated",
		zap.Int64("car_id", car.ID),
		zap.String("field", sess.Edit.Field),
	)
	return c.Send("Автомобиль обновлён.")
}
