package domain

import "time"

// MemberStatus describes a member's standing in the club
type MemberStatus string

const (
	StatusNew       MemberStatus = "new"
	StatusNoVehicle MemberStatus = "no_vehicle"
	StatusMember    MemberStatus = "member"
	StatusActive    MemberStatus = "active"
	StatusLeft      MemberStatus = "left"
	StatusBanned    MemberStatus = "banned"
)

// ValidMemberStatus reports whether s is a known member status
func ValidMemberStatus(s string) bool {
	switch MemberStatus(s) {
	case StatusNew, StatusNoVehicle, StatusMember, StatusActive, StatusLeft, StatusBanned:
		return true
	}
	return false
}

// Member represents a club member
type Member struct {
	ID          int64
	TelegramID  int64
	ChatID      int64
	FirstName   string
	LastName    string
	BirthDate   *time.Time
	City        string
	Country     string
	Phone       string
	About       string
	PhotoFileID string
	Status      MemberStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// FullName returns the member's display name
func (m *Member) FullName() string {
	if m.LastName == "" {
		return m.FirstName
	}
	return m.FirstName + " " + m.LastName
}

// BirthDateString returns the birth date in DD.MM.YYYY, or empty if unset
func (m *Member) BirthDateString() string {
	if m.BirthDate == nil {
		return ""
	}
	return m.BirthDate.Format("02.01.2006")
}

// CanVerifyPassword reports whether the member may attempt the
// temporary-password status upgrade
func (m *Member) CanVerifyPassword() bool {
	return m.Status == StatusMember || m.Status == StatusNoVehicle
}
