package middleware

import (
	"strings"

	"avtoclub/internal/ratelimit"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const limitedMessage = "Слишком много запросов. Подождите немного и попробуйте снова."

// commandCategories maps each command to its rate-limit category.
// Commands absent here fall back to the general category.
var commandCategories = map[string]ratelimit.Category{
	"/register": ratelimit.CategoryRegistration,
	"/addcar":   ratelimit.CategoryRegistration,
	"/invite":   ratelimit.CategoryRegistration,
	"/search":   ratelimit.CategorySearch,
}

// CategoryFor resolves an inbound event to exactly one rate-limit
// category: callbacks have their own bucket, known commands use the
// static table, everything else is general.
func CategoryFor(isCallback bool, text string) ratelimit.Category {
	if isCallback {
		return ratelimit.CategoryCallback
	}
	if strings.HasPrefix(text, "/") {
		cmd := strings.Fields(text)[0]
		// Strip the @botname suffix of group-addressed commands
		if i := strings.Index(cmd, "@"); i > 0 {
			cmd = cmd[:i]
		}
		if category, ok := commandCategories[cmd]; ok {
			return category
		}
	}
	return ratelimit.CategoryGeneral
}

// RateLimit gates every inbound event through the sliding-window
// limiter. A rejection is a normal outcome: the user gets a fixed
// message and no session state is touched.
func RateLimit(limiter *ratelimit.Limiter, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil {
				return next(c)
			}

			category := CategoryFor(c.Callback() != nil, c.Text())
			if !limiter.Allow(sender.ID, category) {
				logger.Debug("Rate limit rejection",
					zap.Int64("user_id", sender.ID),
					zap.String("category", string(category)),
				)
				if c.Callback() != nil {
					return c.Respond(&tele.CallbackResponse{Text: limitedMessage})
				}
				return c.Send(limitedMessage)
			}

			return next(c)
		}
	}
}
