package domain

import "time"

// CarStatus describes a vehicle record's lifecycle state
type CarStatus string

const (
	CarActive     CarStatus = "active"
	CarPending    CarStatus = "pending"
	CarInvitation CarStatus = "invitation"
	CarInClub     CarStatus = "in_club"
	CarLeft       CarStatus = "left"
	CarSold       CarStatus = "sold"
	CarDeleted    CarStatus = "deleted"
)

// Car represents a vehicle record. OwnerID is nil for invitation-only
// records, i.e. plates seen before their owner joined the club.
type Car struct {
	ID           int64
	OwnerID      *int64
	Plate        string
	Brand        string
	Model        string
	Year         int
	Color        string
	PhotoFileIDs []string
	Status       CarStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Owned reports whether the record belongs to a member
func (c *Car) Owned() bool {
	return c.OwnerID != nil
}

// Description returns a short display string for the vehicle
func (c *Car) Description() string {
	s := c.Brand
	if c.Model != "" {
		s += " " + c.Model
	}
	if s == "" {
		return c.Plate
	}
	return s + " (" + c.Plate + ")"
}
