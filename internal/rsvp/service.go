// Package rsvp accepts guest survey submissions and folds them into per-event
// summaries.
package rsvp

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/gatherly/gatherly/internal/lifecycle"
	"github.com/gatherly/gatherly/internal/model"
	"github.com/gatherly/gatherly/internal/store"
)

// SchedulePayload is the per-schedule-item slice of a submission. Every field
// is independent of the top-level response.
type SchedulePayload struct {
	Attending        *bool    `json:"attending"`
	Adults           int      `json:"adults"`
	Kids             int      `json:"kids"`
	ArrivalSlot      *string  `json:"arrival_slot"`
	TransportMode    *string  `json:"transport_mode"`
	ReminderChannels []string `json:"reminder_channels"`
	Cars             int      `json:"cars"`
	Bikes            int      `json:"bikes"`
}

// SubmitRequest is a guest submission. Attending is required; everything else
// defaults (numerics to zero, optionals to absent). ScheduleIDs is the legacy
// flat set and may coexist with ScheduleResponses.
type SubmitRequest struct {
	ResponseID        string                    `json:"response_id"`
	Attending         *bool                     `json:"attending"`
	Adults            int                       `json:"adults"`
	Kids              int                       `json:"kids"`
	ArrivalSlot       *string                   `json:"arrival_slot"`
	TransportMode     *string                   `json:"transport_mode"`
	ReminderChannels  []string                  `json:"reminder_channels"`
	Notes             string                    `json:"notes"`
	Cars              int                       `json:"cars"`
	Bikes             int                       `json:"bikes"`
	ScheduleIDs       []int64                   `json:"schedule_ids"`
	ScheduleResponses map[int64]SchedulePayload `json:"schedule_responses"`
}

// Service implements submission merging and summary aggregation over the
// event and RSVP stores.
type Service struct {
	events *store.EventStore
	rsvps  *store.RSVPStore
	logger *slog.Logger
	now    func() time.Time
}

func NewService(events *store.EventStore, rsvps *store.RSVPStore, logger *slog.Logger) *Service {
	return &Service{
		events: events,
		rsvps:  rsvps,
		logger: logger,
		now:    time.Now,
	}
}

// Submit validates and persists a guest response for the event. If
// req.ResponseID resolves to an existing record for this event, that record
// is updated in place; otherwise a new record is created. The returned bool
// is true for a create.
//
// Validation and the survey-open gate both run before any write.
func (s *Service) Submit(eventID int64, req SubmitRequest) (*model.InviteRSVP, bool, error) {
	if err := validate(req); err != nil {
		return nil, false, err
	}

	ev, err := s.events.GetByID(eventID)
	if err != nil {
		return nil, false, err
	}
	if ev == nil {
		return nil, false, ErrEventNotFound
	}

	open, err := lifecycle.CanAcceptRSVP(ev, s.now())
	if err != nil {
		return nil, false, fmt.Errorf("check survey window: %w", err)
	}
	if !open {
		return nil, false, ErrSurveyClosed
	}

	var existing *model.InviteRSVP
	if req.ResponseID != "" {
		existing, err = s.rsvps.GetByPublicID(eventID, req.ResponseID)
		if err != nil {
			return nil, false, err
		}
		// An unresolvable identifier falls through to create.
	}

	record := buildRecord(eventID, req)

	if existing != nil {
		record.ID = existing.ID
		record.PublicID = existing.PublicID
		updated, err := s.rsvps.Update(record)
		if err != nil {
			return nil, false, err
		}
		s.logger.Info("rsvp updated", "event_id", eventID, "response_id", updated.PublicID)
		return updated, false, nil
	}

	record.PublicID = uuid.NewString()
	created, err := s.rsvps.Create(record)
	if err != nil {
		return nil, false, err
	}
	s.logger.Info("rsvp created", "event_id", eventID, "response_id", created.PublicID)
	return created, true, nil
}

func validate(req SubmitRequest) error {
	if req.Attending == nil {
		return &ValidationError{Field: "attending", Reason: "must be true or false"}
	}
	if req.Adults < 0 {
		return &ValidationError{Field: "adults", Reason: "must be non-negative"}
	}
	if req.Kids < 0 {
		return &ValidationError{Field: "kids", Reason: "must be non-negative"}
	}
	if req.Cars < 0 || req.Bikes < 0 {
		return &ValidationError{Field: "vehicles", Reason: "must be non-negative"}
	}
	for itemID, sub := range req.ScheduleResponses {
		if sub.Adults < 0 || sub.Kids < 0 {
			return &ValidationError{
				Field:  fmt.Sprintf("schedule_responses[%d]", itemID),
				Reason: "adults and kids must be non-negative",
			}
		}
		if sub.Cars < 0 || sub.Bikes < 0 {
			return &ValidationError{
				Field:  fmt.Sprintf("schedule_responses[%d]", itemID),
				Reason: "vehicle counts must be non-negative",
			}
		}
	}
	return nil
}

// buildRecord maps a request onto a persistable record with all defaults
// resolved. ScheduleIDs is carried verbatim; it is never merged into
// ScheduleResponses.
func buildRecord(eventID int64, req SubmitRequest) *model.InviteRSVP {
	r := &model.InviteRSVP{
		EventID:          eventID,
		Attending:        *req.Attending,
		Adults:           req.Adults,
		Kids:             req.Kids,
		ArrivalSlot:      req.ArrivalSlot,
		TransportMode:    req.TransportMode,
		ReminderChannels: req.ReminderChannels,
		Notes:            req.Notes,
		Cars:             req.Cars,
		Bikes:            req.Bikes,
		ScheduleIDs:      req.ScheduleIDs,
	}
	if req.ScheduleResponses != nil {
		r.ScheduleResponses = make(map[int64]model.ScheduleResponse, len(req.ScheduleResponses))
		for itemID, sub := range req.ScheduleResponses {
			r.ScheduleResponses[itemID] = model.ScheduleResponse{
				Attending:        sub.Attending,
				Adults:           sub.Adults,
				Kids:             sub.Kids,
				ArrivalSlot:      sub.ArrivalSlot,
				TransportMode:    sub.TransportMode,
				ReminderChannels: sub.ReminderChannels,
				Cars:             sub.Cars,
				Bikes:            sub.Bikes,
			}
		}
	}
	return r
}
