package domain

// Flow identifies a multi-step conversation
type Flow string

const (
	FlowRegistration     Flow = "registration"
	FlowVehicleAdd       Flow = "vehicle_add"
	FlowInvitationCreate Flow = "invitation_create"
	FlowProfileEdit      Flow = "profile_edit"
	FlowVehicleEdit      Flow = "vehicle_edit"
	FlowStatusChange     Flow = "status_change"
	FlowPasswordSet      Flow = "password_set"
	FlowPasswordVerify   Flow = "password_verify"
	FlowSearch           Flow = "search"
)

// Title returns a user-facing name for the flow (used in cancel reports)
func (f Flow) Title() string {
	switch f {
	case FlowRegistration:
		return "Регистрация"
	case FlowVehicleAdd:
		return "Добавление автомобиля"
	case FlowInvitationCreate:
		return "Создание приглашения"
	case FlowProfileEdit:
		return "Редактирование профиля"
	case FlowVehicleEdit:
		return "Редактирование автомобиля"
	case FlowStatusChange:
		return "Изменение статуса"
	case FlowPasswordSet:
		return "Установка пароля"
	case FlowPasswordVerify:
		return "Подтверждение пароля"
	case FlowSearch:
		return "Поиск"
	}
	return string(f)
}

// Step is a position within a flow's ordered prompt sequence
type Step string

const (
	// Registration steps
	StepFirstName Step = "first_name"
	StepLastName  Step = "last_name"
	StepBirthDate Step = "birth_date"
	StepCity      Step = "city"
	StepCountry   Step = "country"
	StepPhone     Step = "phone"
	StepAbout     Step = "about"
	StepPhoto     Step = "photo"

	// Vehicle steps
	StepBrand  Step = "brand"
	StepModel  Step = "model"
	StepYear   Step = "year"
	StepColor  Step = "color"
	StepPlate  Step = "plate"
	StepPhotos Step = "photos"

	// Invitation steps
	StepInvitePlate     Step = "invite_plate"
	StepInviteDuplicate Step = "invite_duplicate"
	StepInvitePhotos    Step = "invite_photos"
	StepInviteComment   Step = "invite_comment"

	// Edit steps
	StepEditField     Step = "edit_field"
	StepEditValue     Step = "edit_value"
	StepEditCarSelect Step = "edit_car_select"
	StepEditCarField  Step = "edit_car_field"
	StepEditCarValue  Step = "edit_car_value"

	// Admin status change steps
	StepTargetMember Step = "target_member"
	StepNewStatus    Step = "new_status"

	// Password steps
	StepPasswordValue Step = "password_value"

	// Search steps
	StepSearchPlate Step = "search_plate"
)

// RegistrationData accumulates registration flow input
type RegistrationData struct {
	FirstName   string
	LastName    string
	BirthDate   string // canonical DD.MM.YYYY after validation
	City        string
	Country     string
	Phone       string
	About       string
	PhotoFileID string
}

// VehicleData accumulates vehicle-add flow input
type VehicleData struct {
	Brand        string
	Model        string
	Year         int
	Color        string
	Plate        string
	PhotoFileIDs []string
}

// InvitationData accumulates invitation-create flow input
type InvitationData struct {
	Plate              string
	CarID              int64 // existing invitation-only car, 0 if none
	Comment            string
	PhotoFileIDs       []string
	ConfirmedDuplicate bool  // user explicitly re-invited a known plate
}

// EditData tracks profile/vehicle edit flow input
type EditData struct {
	CarID int64
	Field string
}

// StatusChangeData tracks the admin status-change flow input
type StatusChangeData struct {
	TargetMemberID int64
}

// Session is the per-user conversation state: at most one active flow
// per user, created on flow start and destroyed on completion or cancel.
// It only lives in process memory and is lost on restart.
type Session struct {
	UserID       int64
	ChatID       int64
	Flow         Flow
	Step         Step
	Notify       bool // initiating context permits a broadcast notification
	Registration RegistrationData
	Vehicle      VehicleData
	Invitation   InvitationData
	Edit         EditData
	StatusChange StatusChangeData
}

// NewSession starts a session at the given flow and step
func NewSession(userID, chatID int64, flow Flow, step Step) *Session {
	return &Session{
		UserID: userID,
		ChatID: chatID,
		Flow:   flow,
		Step:   step,
	}
}
