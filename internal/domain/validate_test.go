package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePlate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		valid    bool
	}{
		{
			name:     "lowercase normalized to uppercase",
			input:    "a123bc77",
			expected: "A123BC77",
			valid:    true,
		},
		{
			name:     "surrounding whitespace trimmed",
			input:    "  A123BC  ",
			expected: "A123BC",
			valid:    true,
		},
		{
			name:  "inner space rejected",
			input: "AB 12",
			valid: false,
		},
		{
			name:  "too short",
			input: "AB1",
			valid: false,
		},
		{
			name:     "minimum length accepted",
			input:    "AB12",
			expected: "AB12",
			valid:    true,
		},
		{
			name:     "maximum length accepted",
			input:    "ABCDEF123456",
			expected: "ABCDEF123456",
			valid:    true,
		},
		{
			name:  "too long",
			input: "ABCDEF1234567",
			valid: false,
		},
		{
			name:  "cyrillic rejected",
			input: "А123ВС77",
			valid: false,
		},
		{
			name:  "punctuation rejected",
			input: "AB-1234",
			valid: false,
		},
		{
			name:  "empty",
			input: "",
			valid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plate, ok := NormalizePlate(tt.input)
			assert.Equal(t, tt.valid, ok)
			if tt.valid {
				assert.Equal(t, tt.expected, plate)
			}
		})
	}
}

func TestParseBirthDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		valid    bool
		expected time.Time
	}{
		{
			name:     "valid date",
			input:    "15.06.1990",
			valid:    true,
			expected: time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "valid with whitespace",
			input:    " 01.01.1985 ",
			valid:    true,
			expected: time.Date(1985, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "day out of range for month",
			input: "31.04.1990",
			valid: false,
		},
		{
			name:  "february 30th",
			input: "30.02.1990",
			valid: false,
		},
		{
			name:  "wrong separator",
			input: "15-06-1990",
			valid: false,
		},
		{
			name:  "single-digit day rejected",
			input: "5.06.1990",
			valid: false,
		},
		{
			name:  "iso order rejected",
			input: "1990.06.15",
			valid: false,
		},
		{
			name:  "too young",
			input: time.Now().AddDate(-10, 0, 0).Format("02.01.2006"),
			valid: false,
		},
		{
			name:  "too old",
			input: "01.01.1900",
			valid: false,
		},
		{
			name:  "empty",
			input: "",
			valid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date, err := ParseBirthDate(tt.input)
			if tt.valid {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, date)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidCarYear(t *testing.T) {
	current := time.Now().Year()

	assert.True(t, ValidCarYear(current))
	assert.True(t, ValidCarYear(current+1))
	assert.False(t, ValidCarYear(current+2))
	assert.True(t, ValidCarYear(MinCarYear))
	assert.False(t, ValidCarYear(MinCarYear-1))
	assert.False(t, ValidCarYear(0))
}

func TestInvitationStatus_Terminal(t *testing.T) {
	assert.True(t, InvitationJoinedClub.Terminal())
	assert.True(t, InvitationDeleted.Terminal())
	assert.False(t, InvitationNew.Terminal())
	assert.False(t, InvitationPending.Terminal())
	assert.False(t, InvitationConfirmedDuplicate.Terminal())
}

func TestMember_CanVerifyPassword(t *testing.T) {
	for _, status := range []MemberStatus{StatusMember, StatusNoVehicle} {
		m := &Member{Status: status}
		assert.True(t, m.CanVerifyPassword(), "status %s", status)
	}
	for _, status := range []MemberStatus{StatusNew, StatusActive, StatusLeft, StatusBanned} {
		m := &Member{Status: status}
		assert.False(t, m.CanVerifyPassword(), "status %s", status)
	}
}

func TestCar_Description(t *testing.T) {
	car := &Car{Brand: "Lada", Model: "Vesta", Plate: "A123BC77"}
	assert.Equal(t, "Lada Vesta (A123BC77)", car.Description())

	bare := &Car{Plate: "X001YZ"}
	assert.Equal(t, "X001YZ", bare.Description())
}

func TestFlow_Title(t *testing.T) {
	for _, flow := range []Flow{
		FlowRegistration, FlowVehicleAdd, FlowInvitationCreate,
		FlowProfileEdit, FlowVehicleEdit, FlowStatusChange,
		FlowPasswordSet, FlowPasswordVerify, FlowSearch,
	} {
		title := flow.Title()
		assert.NotEmpty(t, title)
		assert.False(t, strings.HasPrefix(title, string(flow)), "flow %s has no display title", flow)
	}
}
