package handler

import (
	"errors"

	"avtoclub/internal/config"
	"avtoclub/internal/domain"
	"avtoclub/internal/password"
	"avtoclub/internal/ratelimit"
	"avtoclub/internal/service"
	"avtoclub/internal/session"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

var errNotRegistered = errors.New("sender is not a registered member")

const (
	maxCarPhotos        = 5
	maxInvitationPhotos = 5

	defaultCountry = "Россия"

	retryLaterMessage    = "Хранилище временно недоступно. Попробуйте позже."
	internalErrorMessage = "Что-то пошло не так. Попробуйте ещё раз."
)

// Handler manages all bot interactions: stateless commands and the
// per-user conversation flows.
type Handler struct {
	bot         *tele.Bot
	cfg         *config.Config
	members     *service.MemberService
	cars        *service.CarService
	invitations *service.InvitationService
	notify      *service.NotifyService
	sessions    *session.Store
	limiter     *ratelimit.Limiter
	passwords   *password.Manager
	logger      *zap.Logger
}

// NewHandler creates a new handler instance
func NewHandler(
	bot *tele.Bot,
	cfg *config.Config,
	members *service.MemberService,
	cars *service.CarService,
	invitations *service.InvitationService,
	notify *service.NotifyService,
	sessions *session.Store,
	limiter *ratelimit.Limiter,
	passwords *password.Manager,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		bot:         bot,
		cfg:         cfg,
		members:     members,
		cars:        cars,
		invitations: invitations,
		notify:      notify,
		sessions:    sessions,
		limiter:     limiter,
		passwords:   passwords,
		logger:      logger,
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	// Commands
	h.bot.Handle("/start", h.handleStart)
	h.bot.Handle("/register", h.handleRegisterCommand)
	h.bot.Handle("/addcar", h.handleAddCarCommand)
	h.bot.Handle("/invite", h.handleInviteCommand)
	h.bot.Handle("/profile", h.handleProfileCommand)
	h.bot.Handle("/editcar", h.handleEditCarCommand)
	h.bot.Handle("/search", h.handleSearchCommand)
	h.bot.Handle("/password", h.handlePasswordCommand)
	h.bot.Handle("/cancel", h.handleCancelCommand)

	// Admin commands
	h.bot.Handle("/setstatus", h.handleSetStatusCommand)
	h.bot.Handle("/setpassword", h.handleSetPasswordCommand)
	h.bot.Handle("/clearpassword", h.handleClearPasswordCommand)
	h.bot.Handle("/resetlimit", h.handleResetLimitCommand)

	// Inbound events routed through the active flow
	h.bot.Handle(tele.OnText, h.handleText)
	h.bot.Handle(tele.OnPhoto, h.handlePhoto)

	// Flow-control buttons, dispatched by exact action kind
	h.bot.Handle(&btnCancel, h.handleCancelButton)
	h.bot.Handle(&btnSkip, h.handleSkipButton)
	h.bot.Handle(&btnDone, h.handleDoneButton)
	h.bot.Handle(&btnFinish, h.handleFinishButton)
	h.bot.Handle(&btnDupContinue, h.handleDuplicateContinue)
	h.bot.Handle(&btnStatusSet, h.handleStatusPick)
	h.bot.Handle(&btnEditField, h.handleEditFieldPick)
	h.bot.Handle(&btnEditCarPick, h.handleEditCarPick)
	h.bot.Handle(&btnEditCarField, h.handleEditCarFieldPick)

	// Unknown callbacks are acknowledged and dropped
	h.bot.Handle(tele.OnCallback, h.handleUnknownCallback)
}

// Flow-control buttons. The Unique is the action kind; dynamic payloads
// travel in the callback data and are resolved by exact kind match.
var (
	btnCancel = tele.Btn{
		Unique: "flow_cancel",
		Text:   "❌ Отменить",
	}
	btnSkip = tele.Btn{
		Unique: "flow_skip",
		Text:   "⏭ Пропустить",
	}
	btnDone = tele.Btn{
		Unique: "flow_done",
		Text:   "✅ Готово",
	}
	btnFinish = tele.Btn{
		Unique: "flow_finish",
		Text:   "🏁 Завершить",
	}
	btnDupContinue = tele.Btn{
		Unique: "dup_continue",
		Text:   "➕ Всё равно пригласить",
	}
	btnStatusSet = tele.Btn{
		Unique: "status_set",
	}
	btnEditField = tele.Btn{
		Unique: "edit_field",
	}
	btnEditCarPick = tele.Btn{
		Unique: "edit_car_pick",
	}
	btnEditCarField = tele.Btn{
		Unique: "edit_car_field",
	}
)

// cancelMarkup returns a keyboard with only the cancel button
func cancelMarkup() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(btnCancel))
	return markup
}

// skipMarkup returns a keyboard with skip and cancel buttons
func skipMarkup() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(btnSkip, btnCancel))
	return markup
}

// photosMarkup returns a keyboard for photo-collecting steps
func photosMarkup(finishEarly bool) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	row := markup.Row(btnDone, btnCancel)
	if finishEarly {
		row = markup.Row(btnDone, btnFinish, btnCancel)
	}
	markup.Inline(row)
	return markup
}

// handleUnknownCallback acknowledges callbacks no action kind claims
func (h *Handler) handleUnknownCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		return nil
	}
	h.logger.Warn("Unhandled callback",
		zap.String("unique", callback.Unique),
		zap.Int64("user_id", c.Sender().ID),
	)
	return c.Respond()
}

// fail handles an unexpected error: the session is deleted so the user
// is never left stuck mid-step, and a generic apology is sent.
func (h *Handler) fail(c tele.Context, userID int64, err error) error {
	h.logger.Error("Unexpected error during event handling",
		zap.Error(err),
		zap.Int64("user_id", userID),
	)
	h.sessions.Delete(userID)
	return c.Send(internalErrorMessage)
}

// retryLater handles store unavailability at a completion step: the
// session is deleted (no partial retry) and the user is told to retry.
func (h *Handler) retryLater(c tele.Context, userID int64, err error) error {
	h.logger.Error("Persistence unavailable",
		zap.Error(err),
		zap.Int64("user_id", userID),
	)
	h.sessions.Delete(userID)
	return c.Send(retryLaterMessage)
}

// requireMember loads the sender's member record; errNotRegistered
// means the sender has no record yet
func (h *Handler) requireMember(c tele.Context) (*domain.Member, error) {
	m, err := h.members.GetByTelegramID(c.Sender().ID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, errNotRegistered
	}
	return m, nil
}
