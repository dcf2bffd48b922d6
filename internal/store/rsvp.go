package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/gatherly/gatherly/internal/model"
)

type RSVPStore struct {
	db *sql.DB
}

func NewRSVPStore(db *sql.DB) *RSVPStore {
	return &RSVPStore{db: db}
}

func scanRSVP(scanner interface{ Scan(...any) error }) (*model.InviteRSVP, error) {
	var r model.InviteRSVP
	var arrivalSlot, transportMode sql.NullString
	var reminderChannels string
	var scheduleIDs, scheduleResponses sql.NullString

	err := scanner.Scan(
		&r.ID, &r.PublicID, &r.EventID, &r.Attending, &r.Adults, &r.Kids,
		&arrivalSlot, &transportMode, &reminderChannels, &r.Notes,
		&r.Cars, &r.Bikes, &scheduleIDs, &scheduleResponses,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if arrivalSlot.Valid {
		r.ArrivalSlot = &arrivalSlot.String
	}
	if transportMode.Valid {
		r.TransportMode = &transportMode.String
	}
	if err := json.Unmarshal([]byte(reminderChannels), &r.ReminderChannels); err != nil {
		return nil, fmt.Errorf("decode reminder channels: %w", err)
	}
	if scheduleIDs.Valid {
		if err := json.Unmarshal([]byte(scheduleIDs.String), &r.ScheduleIDs); err != nil {
			return nil, fmt.Errorf("decode schedule ids: %w", err)
		}
	}
	if scheduleResponses.Valid {
		if err := json.Unmarshal([]byte(scheduleResponses.String), &r.ScheduleResponses); err != nil {
			return nil, fmt.Errorf("decode schedule responses: %w", err)
		}
	}
	return &r, nil
}

const rsvpCols = `id, public_id, event_id, attending, adults, kids, arrival_slot, transport_mode, reminder_channels, notes, cars, bikes, schedule_ids, schedule_responses, created_at, updated_at`

func encodeRSVPFields(r *model.InviteRSVP) (reminderChannels string, scheduleIDs, scheduleResponses sql.NullString, err error) {
	channels := r.ReminderChannels
	if channels == nil {
		channels = []string{}
	}
	cb, err := json.Marshal(channels)
	if err != nil {
		return "", sql.NullString{}, sql.NullString{}, fmt.Errorf("encode reminder channels: %w", err)
	}
	reminderChannels = string(cb)

	if r.ScheduleIDs != nil {
		sb, err := json.Marshal(r.ScheduleIDs)
		if err != nil {
			return "", sql.NullString{}, sql.NullString{}, fmt.Errorf("encode schedule ids: %w", err)
		}
		scheduleIDs = sql.NullString{String: string(sb), Valid: true}
	}
	if r.ScheduleResponses != nil {
		rb, err := json.Marshal(r.ScheduleResponses)
		if err != nil {
			return "", sql.NullString{}, sql.NullString{}, fmt.Errorf("encode schedule responses: %w", err)
		}
		scheduleResponses = sql.NullString{String: string(rb), Valid: true}
	}
	return reminderChannels, scheduleIDs, scheduleResponses, nil
}

// Create inserts a new response record. PublicID must already be set on r.
func (s *RSVPStore) Create(r *model.InviteRSVP) (*model.InviteRSVP, error) {
	reminderChannels, scheduleIDs, scheduleResponses, err := encodeRSVPFields(r)
	if err != nil {
		return nil, err
	}

	var arrivalSlot, transportMode sql.NullString
	if r.ArrivalSlot != nil {
		arrivalSlot = sql.NullString{String: *r.ArrivalSlot, Valid: true}
	}
	if r.TransportMode != nil {
		transportMode = sql.NullString{String: *r.TransportMode, Valid: true}
	}

	result, err := s.db.Exec(
		`INSERT INTO invite_rsvps (public_id, event_id, attending, adults, kids, arrival_slot, transport_mode, reminder_channels, notes, cars, bikes, schedule_ids, schedule_responses)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.PublicID, r.EventID, r.Attending, r.Adults, r.Kids,
		arrivalSlot, transportMode, reminderChannels, r.Notes,
		r.Cars, r.Bikes, scheduleIDs, scheduleResponses,
	)
	if err != nil {
		return nil, fmt.Errorf("insert rsvp: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

// Update replaces all mutable fields of the record identified by r.ID. The
// public identifier never changes.
func (s *RSVPStore) Update(r *model.InviteRSVP) (*model.InviteRSVP, error) {
	reminderChannels, scheduleIDs, scheduleResponses, err := encodeRSVPFields(r)
	if err != nil {
		return nil, err
	}

	var arrivalSlot, transportMode sql.NullString
	if r.ArrivalSlot != nil {
		arrivalSlot = sql.NullString{String: *r.ArrivalSlot, Valid: true}
	}
	if r.TransportMode != nil {
		transportMode = sql.NullString{String: *r.TransportMode, Valid: true}
	}

	_, err = s.db.Exec(
		`UPDATE invite_rsvps SET attending = ?, adults = ?, kids = ?, arrival_slot = ?, transport_mode = ?, reminder_channels = ?, notes = ?, cars = ?, bikes = ?, schedule_ids = ?, schedule_responses = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		r.Attending, r.Adults, r.Kids, arrivalSlot, transportMode,
		reminderChannels, r.Notes, r.Cars, r.Bikes,
		scheduleIDs, scheduleResponses, r.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update rsvp: %w", err)
	}
	return s.GetByID(r.ID)
}

func (s *RSVPStore) GetByID(id int64) (*model.InviteRSVP, error) {
	row := s.db.QueryRow(`SELECT `+rsvpCols+` FROM invite_rsvps WHERE id = ?`, id)
	r, err := scanRSVP(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get rsvp: %w", err)
	}
	return r, nil
}

// GetByPublicID looks up a response by its public identifier, scoped to the
// event it was issued for.
func (s *RSVPStore) GetByPublicID(eventID int64, publicID string) (*model.InviteRSVP, error) {
	row := s.db.QueryRow(
		`SELECT `+rsvpCols+` FROM invite_rsvps WHERE event_id = ? AND public_id = ?`,
		eventID, publicID,
	)
	r, err := scanRSVP(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get rsvp by public id: %w", err)
	}
	return r, nil
}

func (s *RSVPStore) ListByEvent(eventID int64) ([]model.InviteRSVP, error) {
	rows, err := s.db.Query(
		`SELECT `+rsvpCols+` FROM invite_rsvps WHERE event_id = ? ORDER BY id ASC`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("list rsvps: %w", err)
	}
	defer rows.Close()

	var rsvps []model.InviteRSVP
	for rows.Next() {
		r, err := scanRSVP(rows)
		if err != nil {
			return nil, fmt.Errorf("scan rsvp: %w", err)
		}
		rsvps = append(rsvps, *r)
	}
	return rsvps, rows.Err()
}

func (s *RSVPStore) CountByEvent(eventID int64) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM invite_rsvps WHERE event_id = ?`, eventID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count rsvps: %w", err)
	}
	return n, nil
}
