package model

import "time"

// GuestStatus is the owner-recorded invitation status for a roster entry.
type GuestStatus string

const (
	GuestYes     GuestStatus = "yes"
	GuestNo      GuestStatus = "no"
	GuestMaybe   GuestStatus = "maybe"
	GuestPending GuestStatus = "pending"
)

// Guest is an owner-managed roster entry, independent of self-service
// RSVP records.
type Guest struct {
	ID        int64       `json:"id"`
	EventID   int64       `json:"event_id"`
	FullName  string      `json:"full_name"`
	Email     string      `json:"email"`
	Phone     string      `json:"phone"`
	Status    GuestStatus `json:"status"`
	Adults    int         `json:"adults"`
	Kids      int         `json:"kids"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
