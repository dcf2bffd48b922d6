package store

import (
	"database/sql"
	"fmt"

	"github.com/gatherly/gatherly/internal/model"
)

type GuestStore struct {
	db *sql.DB
}

func NewGuestStore(db *sql.DB) *GuestStore {
	return &GuestStore{db: db}
}

func scanGuest(scanner interface{ Scan(...any) error }) (*model.Guest, error) {
	var g model.Guest
	err := scanner.Scan(
		&g.ID, &g.EventID, &g.FullName, &g.Email, &g.Phone,
		&g.Status, &g.Adults, &g.Kids,
		&g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

const guestCols = `id, event_id, full_name, email, phone, status, adults, kids, created_at, updated_at`

func (s *GuestStore) Create(eventID int64, fullName, email, phone string, status model.GuestStatus, adults, kids int) (*model.Guest, error) {
	result, err := s.db.Exec(
		`INSERT INTO guests (event_id, full_name, email, phone, status, adults, kids) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		eventID, fullName, email, phone, status, adults, kids,
	)
	if err != nil {
		return nil, fmt.Errorf("insert guest: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *GuestStore) GetByID(id int64) (*model.Guest, error) {
	row := s.db.QueryRow(`SELECT `+guestCols+` FROM guests WHERE id = ?`, id)
	g, err := scanGuest(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get guest: %w", err)
	}
	return g, nil
}

func (s *GuestStore) ListByEvent(eventID int64) ([]model.Guest, error) {
	rows, err := s.db.Query(
		`SELECT `+guestCols+` FROM guests WHERE event_id = ? ORDER BY full_name ASC, id ASC`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("list guests: %w", err)
	}
	defer rows.Close()

	var guests []model.Guest
	for rows.Next() {
		g, err := scanGuest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan guest: %w", err)
		}
		guests = append(guests, *g)
	}
	return guests, rows.Err()
}

func (s *GuestStore) Update(id int64, fullName, email, phone string, status model.GuestStatus, adults, kids int) (*model.Guest, error) {
	_, err := s.db.Exec(
		`UPDATE guests SET full_name = ?, email = ?, phone = ?, status = ?, adults = ?, kids = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		fullName, email, phone, status, adults, kids, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update guest: %w", err)
	}
	return s.GetByID(id)
}

func (s *GuestStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM guests WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete guest: %w", err)
	}
	return nil
}
