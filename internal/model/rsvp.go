package model

import "time"

// ScheduleResponse is a guest's answer for a single schedule item. Fields
// mirror the top-level response; a nil Attending falls back to the top-level
// attending flag when aggregating.
type ScheduleResponse struct {
	Attending        *bool    `json:"attending,omitempty"`
	Adults           int      `json:"adults"`
	Kids             int      `json:"kids"`
	ArrivalSlot      *string  `json:"arrival_slot,omitempty"`
	TransportMode    *string  `json:"transport_mode,omitempty"`
	ReminderChannels []string `json:"reminder_channels,omitempty"`
	Cars             int      `json:"cars"`
	Bikes            int      `json:"bikes"`
}

// InviteRSVP is one logical response per (event, respondent). Respondents are
// anonymous; PublicID is the opaque identifier returned on first submission
// and supplied again to update the same record.
//
// ScheduleIDs is the legacy flat "attending these items" set and is stored
// verbatim alongside ScheduleResponses; readers prefer the detailed mapping
// for any item present in both.
type InviteRSVP struct {
	ID                int64                      `json:"-"`
	PublicID          string                     `json:"response_id"`
	EventID           int64                      `json:"event_id"`
	Attending         bool                       `json:"attending"`
	Adults            int                        `json:"adults"`
	Kids              int                        `json:"kids"`
	ArrivalSlot       *string                    `json:"arrival_slot"`
	TransportMode     *string                    `json:"transport_mode"`
	ReminderChannels  []string                   `json:"reminder_channels"`
	Notes             string                     `json:"notes"`
	Cars              int                        `json:"cars"`
	Bikes             int                        `json:"bikes"`
	ScheduleIDs       []int64                    `json:"schedule_ids,omitempty"`
	ScheduleResponses map[int64]ScheduleResponse `json:"schedule_responses,omitempty"`
	CreatedAt         time.Time                  `json:"created_at"`
	UpdatedAt         time.Time                  `json:"updated_at"`
}
