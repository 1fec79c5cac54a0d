package handler

import (
	"testing"
	"time"

	"avtoclub/internal/config"
	"avtoclub/internal/password"
	"avtoclub/internal/ratelimit"
	"avtoclub/internal/service"
	"avtoclub/internal/session"
	"avtoclub/internal/testutil"

	tele "gopkg.in/telebot.v3"
)

// fakeContext implements the slice of tele.Context the flow drivers
// touch; anything else panics via the embedded nil interface.
type fakeContext struct {
	tele.Context
	sender   *tele.User
	chat     *tele.Chat
	text     string
	data     string
	callback *tele.Callback
	message  *tele.Message
	sent     []string
}

func newFakeContext(userID int64, text string) *fakeContext {
	return &fakeContext{
		sender:  &tele.User{ID: userID},
		chat:    &tele.Chat{ID: userID, Type: tele.ChatPrivate},
		text:    text,
		message: &tele.Message{},
	}
}

func (f *fakeContext) Sender() *tele.User       { return f.sender }
func (f *fakeContext) Chat() *tele.Chat         { return f.chat }
func (f *fakeContext) Text() string             { return f.text }
func (f *fakeContext) Data() string             { return f.data }
func (f *fakeContext) Callback() *tele.Callback { return f.callback }
func (f *fakeContext) Message() *tele.Message   { return f.message }

func (f *fakeContext) Send(what interface{}, _ ...interface{}) error {
	if text, ok := what.(string); ok {
		f.sent = append(f.sent, text)
	}
	return nil
}

func (f *fakeContext) Respond(_ ...*tele.CallbackResponse) error {
	return nil
}

func (f *fakeContext) lastSent() string {
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1]
}

// testDeps bundles the mocks behind a ready handler
type testDeps struct {
	handler     *Handler
	members     *testutil.MockMemberRepository
	cars        *testutil.MockCarRepository
	invitations *testutil.MockInvitationRepository
	sessions    *session.Store
	passwords   *password.Manager
}

func newTestHandler(t *testing.T) *testDeps {
	t.Helper()

	logger := testutil.NewTestLogger()
	mockMembers := new(testutil.MockMemberRepository)
	mockCars := new(testutil.MockCarRepository)
	mockInvitations := new(testutil.MockInvitationRepository)

	sessions := session.NewStore()
	passwords := password.NewManager(time.Minute)

	cfg := &config.Config{
		AdminIDs:    []int64{999},
		PasswordTTL: time.Minute,
	}

	h := NewHandler(
		nil, cfg,
		service.NewMemberService(mockMembers, logger),
		service.NewCarService(mockCars, mockInvitations, logger),
		service.NewInvitationService(mockCars, mockInvitations, logger),
		service.NewNotifyService(new(testutil.MockSender), 0, nil, logger),
		sessions,
		ratelimit.NewLimiter(ratelimit.DefaultLimits(), logger),
		passwords,
		logger,
	)

	return &testDeps{
		handler:     h,
		members:     mockMembers,
		cars:        mockCars,
		invitations: mockInvitations,
		sessions:    sessions,
		passwords:   passwords,
	}
}
