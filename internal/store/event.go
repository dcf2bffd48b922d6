package store

import (
	"database/sql"
	"fmt"

	"github.com/gatherly/gatherly/internal/model"
)

type EventStore struct {
	db *sql.DB
}

func NewEventStore(db *sql.DB) *EventStore {
	return &EventStore{db: db}
}

func scanEvent(scanner interface{ Scan(...any) error }) (*model.Event, error) {
	var e model.Event
	var cutoff sql.NullString

	err := scanner.Scan(
		&e.ID, &e.OwnerID, &e.Title, &e.Description, &e.Location,
		&e.Date, &cutoff, &e.Status, &e.ReportPaid,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if cutoff.Valid {
		e.SurveyCutoffDate = &cutoff.String
	}
	return &e, nil
}

const eventCols = `id, owner_id, title, description, location, event_date, survey_cutoff_date, status, report_paid, created_at, updated_at`

func (s *EventStore) Create(ownerID int64, title, description, location, date string, surveyCutoffDate *string) (*model.Event, error) {
	var cutoff sql.NullString
	if surveyCutoffDate != nil {
		cutoff = sql.NullString{String: *surveyCutoffDate, Valid: true}
	}

	result, err := s.db.Exec(
		`INSERT INTO events (owner_id, title, description, location, event_date, survey_cutoff_date, status) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ownerID, title, description, location, date, cutoff, model.StatusDraft,
	)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *EventStore) GetByID(id int64) (*model.Event, error) {
	row := s.db.QueryRow(`SELECT `+eventCols+` FROM events WHERE id = ?`, id)
	e, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

func (s *EventStore) ListByOwner(ownerID int64) ([]model.Event, error) {
	rows, err := s.db.Query(
		`SELECT `+eventCols+` FROM events WHERE owner_id = ? ORDER BY event_date ASC, id ASC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

// ListPublishedWithCutoff returns all published events that have a survey
// cutoff date set. Cutoff comparison happens in the lifecycle manager so a
// malformed date on one event cannot break the query for the rest.
func (s *EventStore) ListPublishedWithCutoff() ([]model.Event, error) {
	rows, err := s.db.Query(
		`SELECT `+eventCols+` FROM events WHERE status = ? AND survey_cutoff_date IS NOT NULL ORDER BY id ASC`,
		model.StatusPublished,
	)
	if err != nil {
		return nil, fmt.Errorf("list published events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

func (s *EventStore) Update(id int64, title, description, location, date string, surveyCutoffDate *string) (*model.Event, error) {
	var cutoff sql.NullString
	if surveyCutoffDate != nil {
		cutoff = sql.NullString{String: *surveyCutoffDate, Valid: true}
	}

	_, err := s.db.Exec(
		`UPDATE events SET title = ?, description = ?, location = ?, event_date = ?, survey_cutoff_date = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		title, description, location, date, cutoff, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return s.GetByID(id)
}

// UpdateStatus writes a new lifecycle status. Edge legality is the
// lifecycle package's responsibility; this is a plain column write.
func (s *EventStore) UpdateStatus(id int64, status model.EventStatus) error {
	_, err := s.db.Exec(
		`UPDATE events SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("update event status: %w", err)
	}
	return nil
}

// SetReportPaid flips the owner-driven paid flag. Independent of status.
func (s *EventStore) SetReportPaid(id int64, paid bool) error {
	_, err := s.db.Exec(
		`UPDATE events SET report_paid = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		paid, id,
	)
	if err != nil {
		return fmt.Errorf("set report paid: %w", err)
	}
	return nil
}

func (s *EventStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

// --- Food item methods ---

func scanFoodItem(scanner interface{ Scan(...any) error }) (*model.FoodItem, error) {
	var fi model.FoodItem
	err := scanner.Scan(
		&fi.ID, &fi.EventID, &fi.Name, &fi.Category,
		&fi.PerAdultKg, &fi.PerKidKg, &fi.SortOrder,
		&fi.CreatedAt, &fi.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &fi, nil
}

const foodItemCols = `id, event_id, name, category, per_adult_kg, per_kid_kg, sort_order, created_at, updated_at`

func (s *EventStore) CreateFoodItem(eventID int64, name, category string, perAdultKg, perKidKg float64, sortOrder int) (*model.FoodItem, error) {
	result, err := s.db.Exec(
		`INSERT INTO food_items (event_id, name, category, per_adult_kg, per_kid_kg, sort_order) VALUES (?, ?, ?, ?, ?, ?)`,
		eventID, name, category, perAdultKg, perKidKg, sortOrder,
	)
	if err != nil {
		return nil, fmt.Errorf("insert food item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetFoodItemByID(id)
}

func (s *EventStore) GetFoodItemByID(id int64) (*model.FoodItem, error) {
	row := s.db.QueryRow(`SELECT `+foodItemCols+` FROM food_items WHERE id = ?`, id)
	fi, err := scanFoodItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get food item: %w", err)
	}
	return fi, nil
}

func (s *EventStore) ListFoodItems(eventID int64) ([]model.FoodItem, error) {
	rows, err := s.db.Query(
		`SELECT `+foodItemCols+` FROM food_items WHERE event_id = ? ORDER BY sort_order ASC, id ASC`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("list food items: %w", err)
	}
	defer rows.Close()

	var items []model.FoodItem
	for rows.Next() {
		fi, err := scanFoodItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan food item: %w", err)
		}
		items = append(items, *fi)
	}
	return items, rows.Err()
}

func (s *EventStore) UpdateFoodItem(id int64, name, category string, perAdultKg, perKidKg float64, sortOrder int) (*model.FoodItem, error) {
	_, err := s.db.Exec(
		`UPDATE food_items SET name = ?, category = ?, per_adult_kg = ?, per_kid_kg = ?, sort_order = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		name, category, perAdultKg, perKidKg, sortOrder, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update food item: %w", err)
	}
	return s.GetFoodItemByID(id)
}

func (s *EventStore) DeleteFoodItem(id int64) error {
	_, err := s.db.Exec(`DELETE FROM food_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete food item: %w", err)
	}
	return nil
}

// --- Schedule item methods ---

func scanScheduleItem(scanner interface{ Scan(...any) error }) (*model.ScheduleItem, error) {
	var si model.ScheduleItem
	err := scanner.Scan(
		&si.ID, &si.EventID, &si.Title, &si.StartsAt, &si.SortOrder,
		&si.CreatedAt, &si.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &si, nil
}

const scheduleItemCols = `id, event_id, title, starts_at, sort_order, created_at, updated_at`

func (s *EventStore) CreateScheduleItem(eventID int64, title, startsAt string, sortOrder int) (*model.ScheduleItem, error) {
	result, err := s.db.Exec(
		`INSERT INTO schedule_items (event_id, title, starts_at, sort_order) VALUES (?, ?, ?, ?)`,
		eventID, title, startsAt, sortOrder,
	)
	if err != nil {
		return nil, fmt.Errorf("insert schedule item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetScheduleItemByID(id)
}

func (s *EventStore) GetScheduleItemByID(id int64) (*model.ScheduleItem, error) {
	row := s.db.QueryRow(`SELECT `+scheduleItemCols+` FROM schedule_items WHERE id = ?`, id)
	si, err := scanScheduleItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get schedule item: %w", err)
	}
	return si, nil
}

func (s *EventStore) ListScheduleItems(eventID int64) ([]model.ScheduleItem, error) {
	rows, err := s.db.Query(
		`SELECT `+scheduleItemCols+` FROM schedule_items WHERE event_id = ? ORDER BY sort_order ASC, id ASC`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("list schedule items: %w", err)
	}
	defer rows.Close()

	var items []model.ScheduleItem
	for rows.Next() {
		si, err := scanScheduleItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan schedule item: %w", err)
		}
		items = append(items, *si)
	}
	return items, rows.Err()
}

func (s *EventStore) UpdateScheduleItem(id int64, title, startsAt string, sortOrder int) (*model.ScheduleItem, error) {
	_, err := s.db.Exec(
		`UPDATE schedule_items SET title = ?, starts_at = ?, sort_order = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		title, startsAt, sortOrder, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update schedule item: %w", err)
	}
	return s.GetScheduleItemByID(id)
}

func (s *EventStore) DeleteScheduleItem(id int64) error {
	_, err := s.db.Exec(`DELETE FROM schedule_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete schedule item: %w", err)
	}
	return nil
}
