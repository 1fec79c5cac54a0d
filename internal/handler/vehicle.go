package handler

import (
	"errors"
	"fmt"
	"strconv"

	"avtoclub/internal/domain"
	"avtoclub/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleAddCarCommand starts the vehicle-add flow for a registered member
func (h *Handler) handleAddCarCommand(c tele.Context) error {
	userID := c.Sender().ID

	m, err := h.requireMember(c)
	if errors.Is(err, errNotRegistered) {
		return c.Send("Сначала зарегистрируйтесь: /register")
	}
	if err != nil {
		return h.retryLater(c, userID, err)
	}
	if m.Status == domain.StatusBanned || m.Status == domain.StatusLeft {
		return c.Send("Добавление автомобиля недоступно для вашего статуса.")
	}

	sess := domain.NewSession(userID, c.Chat().ID, domain.FlowVehicleAdd, domain.StepBrand)
	sess.Notify = c.Chat().Type == tele.ChatPrivate
	h.sessions.Set(userID, sess)

	h.logger.Info("Vehicle add started", zap.Int64("user_id", userID))
	return c.Send("Какой марки ваш автомобиль?", cancelMarkup())
}

// vehicleText consumes one text event for the vehicle-add flow
func (h *Handler) vehicleText(c tele.Context, sess *domain.Session, text string) error {
	switch sess.Step {
	case domain.StepBrand:
		if text == "" {
			return c.Send("Марка не может быть пустой. Какой марки автомобиль?", cancelMarkup())
		}
		sess.Vehicle.Brand = text
		sess.Step = domain.StepModel
		h.sessions.Set(sess.UserID, sess)
		return c.Send("Модель?", cancelMarkup())

	case domain.StepModel:
		if text == "" {
			return c.Send("Модель не может быть пустой. Какая модель?", cancelMarkup())
		}
		sess.Vehicle.Model = text
		sess.Step = domain.StepYear
		h.sessions.Set(sess.UserID, sess)
		return c.Send("Год выпуска?", cancelMarkup())

	case domain.StepYear:
		year, err := strconv.Atoi(text)
		if err != nil || !domain.ValidCarYear(year) {
			return c.Send(
				fmt.Sprintf("Укажите год выпуска числом от %d до следующего года:", domain.MinCarYear),
				cancelMarkup(),
			)
		}
		sess.Vehicle.Year = year
		sess.Step = domain.StepColor
		h.sessions.Set(sess.UserID, sess)
		return c.Send("Цвет?", skipMarkup())

	case domain.StepColor:
		sess.Vehicle.Color = text
		sess.Step = domain.StepPlate
		h.sessions.Set(sess.UserID, sess)
		return c.Send("Госномер автомобиля:", cancelMarkup())

	case domain.StepPlate:
		plate, ok := domain.NormalizePlate(text)
		if !ok {
			return c.Send("Номер должен состоять из 4–12 латинских букв и цифр, без пробелов. Попробуйте ещё раз:", cancelMarkup())
		}
		sess.Vehicle.Plate = plate
		sess.Step = domain.StepPhotos
		h.sessions.Set(sess.UserID, sess)
		return c.Send(
			fmt.Sprintf("Пришлите до %d фото автомобиля. Когда закончите — нажмите «Готово».", maxCarPhotos),
			photosMarkup(false),
		)

	case domain.StepPhotos:
		return c.Send("Жду фото. Когда закончите — нажмите «Готово».", photosMarkup(false))
	}

	return h.fail(c, sess.UserID, fmt.Errorf("vehicle flow at unknown step %s", sess.Step))
}

// vehicleSkip handles the skip signal in the vehicle-add flow
func (h *Handler) vehicleSkip(c tele.Context, sess *domain.Session) error {
	switch sess.Step {
	case domain.StepColor:
		sess.Step = domain.StepPlate
		h.sessions.Set(sess.UserID, sess)
		return c.Send("Госномер автомобиля:", cancelMarkup())
	}

	return c.Send("Этот шаг нельзя пропустить.")
}

// completeVehicleAdd persists the owned car, reconciling any invitation
// records for its plate, then deletes the session and notifies
func (h *Handler) completeVehicleAdd(c tele.Context, sess *domain.Session) error {
	userID := sess.UserID

	if h.sessions.Get(userID) != sess {
		return nil
	}

	m, err := h.requireMember(c)
	if err != nil {
		return h.retryLater(c, userID, err)
	}

	car := &domain.Car{
		Plate:        sess.Vehicle.Plate,
		Brand:        sess.Vehicle.Brand,
		Model:        sess.Vehicle.Model,
		Year:         sess.Vehicle.Year,
		Color:        sess.Vehicle.Color,
		PhotoFileIDs: sess.Vehicle.PhotoFileIDs,
	}

	if _, err := h.cars.RegisterOwnedCar(m.ID, car); err != nil {
		return h.retryLater(c, userID, err)
	}

	// A member with a car is at least in the member status
	if m.Status == domain.StatusNew || m.Status == domain.StatusNoVehicle {
		if err := h.members.ChangeStatus(m.ID, domain.StatusMember); err != nil {
			h.logger.Error("Failed to promote member after car add",
				zap.Error(err),
				zap.Int64("member_id", m.ID),
			)
		}
	}

	h.sessions.Delete(userID)

	if sess.Notify {
		caption := fmt.Sprintf("🚗 Новый автомобиль в клубе: %s — %s", car.Description(), m.FullName())
		if len(car.PhotoFileIDs) > 0 {
			h.notify.BroadcastPhoto(service.NotifyNewCar, car.PhotoFileIDs[0], caption)
		} else {
			h.notify.Broadcast(service.NotifyNewCar, caption)
		}
	}

	return c.Send("Автомобиль добавлен!")
}
