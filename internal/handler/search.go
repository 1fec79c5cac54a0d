package handler

import (
	"fmt"
	"strings"

	"avtoclub/internal/domain"

	tele "gopkg.in/telebot.v3"
)

// handleSearchCommand starts the plate search flow. A plate passed as
// the command argument is looked up immediately without a session.
func (h *Handler) handleSearchCommand(c tele.Context) error {
	userID := c.Sender().ID

	if arg := strings.TrimSpace(c.Message().Payload); arg != "" {
		plate, ok := domain.NormalizePlate(arg)
		if !ok {
			return c.Send("Номер должен состоять из 4–12 латинских букв и цифр, без пробелов.")
		}
		return h.sendPlateReport(c, plate)
	}

	sess := domain.NewSession(userID, c.Chat().ID, domain.FlowSearch, domain.StepSearchPlate)
	h.sessions.Set(userID, sess)

	return c.Send("Какой госномер ищем?", cancelMarkup())
}

// searchText consumes the plate for the search flow
func (h *Handler) searchText(c tele.Context, sess *domain.Session, text string) error {
	if sess.Step != domain.StepSearchPlate {
		return h.fail(c, sess.UserID, fmt.Errorf("search flow at unknown step %s", sess.Step))
	}

	plate, ok := domain.NormalizePlate(text)
	if !ok {
		return c.Send("Номер должен состоять из 4–12 латинских букв и цифр, без пробелов. Попробуйте ещё раз:", cancelMarkup())
	}

	if err := h.sendPlateReport(c, plate); err != nil {
		return h.retryLater(c, sess.UserID, err)
	}

	h.sessions.Delete(sess.UserID)
	return nil
}

// sendPlateReport renders everything known about a plate: vehicle
// records, their owners and invitation history
func (h *Handler) sendPlateReport(c tele.Context, plate string) error {
	cars, err := h.cars.GetByPlate(plate)
	if err != nil {
		return err
	}
	if len(cars) == 0 {
		return c.Send(fmt.Sprintf("По номеру %s ничего не найдено.", plate))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🔍 Номер %s:\n\n", plate)

	for _, car := range cars {
		fmt.Fprintf(&b, "• %s — статус: %s\n", car.Description(), car.Status)

		if car.Owned() {
			owner, err := h.members.GetByID(*car.OwnerID)
			if err != nil {
				return err
			}
			if owner != nil {
				fmt.Fprintf(&b, "  Владелец: %s (%s)\n", owner.FullName(), owner.Status)
			}
		}

		history, err := h.invitations.HistoryForCar(car.ID)
		if err != nil {
			return err
		}
		for _, inv := range history {
			fmt.Fprintf(&b, "  Приглашение от %s — %s\n",
				inv.CreatedAt.Format("02.01.2006"), inv.Status)
		}
		b.WriteString("\n")
	}

	return c.Send(strings.TrimRight(b.String(), "\n"))
}
