package model

import "time"

// EventStatus is the lifecycle status of an event. Legal transitions are
// enforced by the lifecycle package.
type EventStatus string

const (
	StatusDraft           EventStatus = "draft"
	StatusPublished       EventStatus = "published"
	StatusSurveyCompleted EventStatus = "survey_completed"
	StatusCompleted       EventStatus = "completed"
)

// Event dates are stored at day granularity as "2006-01-02" strings;
// time-of-day never participates in cutoff comparisons.
type Event struct {
	ID               int64       `json:"id"`
	OwnerID          int64       `json:"owner_id"`
	Title            string      `json:"title"`
	Description      string      `json:"description"`
	Location         string      `json:"location"`
	Date             string      `json:"date"`
	SurveyCutoffDate *string     `json:"survey_cutoff_date"`
	Status           EventStatus `json:"status"`
	ReportPaid       bool        `json:"report_paid"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// FoodItem is a menu entry with per-head consumption rates in kilograms.
type FoodItem struct {
	ID         int64     `json:"id"`
	EventID    int64     `json:"event_id"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	PerAdultKg float64   `json:"per_adult_kg"`
	PerKidKg   float64   `json:"per_kid_kg"`
	SortOrder  int       `json:"sort_order"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ScheduleItem is a sub-occasion of an event (e.g. ceremony, dinner) that
// guests can RSVP to individually.
type ScheduleItem struct {
	ID        int64     `json:"id"`
	EventID   int64     `json:"event_id"`
	Title     string    `json:"title"`
	StartsAt  string    `json:"starts_at"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
