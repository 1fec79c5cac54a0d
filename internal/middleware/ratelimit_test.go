package middleware

import (
	"testing"

	"avtoclub/internal/ratelimit"

	"github.com/stretchr/testify/assert"
)

func TestCategoryFor(t *testing.T) {
	tests := []struct {
		name       string
		isCallback bool
		text       string
		expected   ratelimit.Category
	}{
		{name: "callback has its own bucket", isCallback: true, text: "", expected: ratelimit.CategoryCallback},
		{name: "registration command", text: "/register", expected: ratelimit.CategoryRegistration},
		{name: "vehicle command", text: "/addcar", expected: ratelimit.CategoryRegistration},
		{name: "invite command", text: "/invite", expected: ratelimit.CategoryRegistration},
		{name: "search command", text: "/search", expected: ratelimit.CategorySearch},
		{name: "group-addressed command", text: "/search@avtoclub_bot", expected: ratelimit.CategorySearch},
		{name: "command with argument", text: "/search A123BC77", expected: ratelimit.CategorySearch},
		{name: "unmapped command falls back", text: "/help", expected: ratelimit.CategoryGeneral},
		{name: "plain text", text: "привет", expected: ratelimit.CategoryGeneral},
		{name: "empty", text: "", expected: ratelimit.CategoryGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CategoryFor(tt.isCallback, tt.text))
		})
	}
}
