package domain

import "time"

// InvitationStatus describes an invitation's lifecycle state
type InvitationStatus string

const (
	InvitationNew                InvitationStatus = "new"
	InvitationPending            InvitationStatus = "pending"
	InvitationConfirmedDuplicate InvitationStatus = "confirmed_duplicate"
	InvitationJoinedClub         InvitationStatus = "joined_club"
	InvitationDeleted            InvitationStatus = "deleted"
)

// Terminal reports whether the status ends the invitation's lifecycle
func (s InvitationStatus) Terminal() bool {
	return s == InvitationJoinedClub || s == InvitationDeleted
}

// Invitation represents an invite left on a car seen in the wild
type Invitation struct {
	ID           int64
	Ref          string
	CarID        int64
	InviterID    *int64
	Comment      string
	PhotoFileIDs []string
	Status       InvitationStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
