package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/gatherly/gatherly/internal/model"
)

type PredictionStore struct {
	db *sql.DB
}

func NewPredictionStore(db *sql.DB) *PredictionStore {
	return &PredictionStore{db: db}
}

func scanPrediction(scanner interface{ Scan(...any) error }) (*model.Prediction, error) {
	var p model.Prediction
	var menu, items string

	err := scanner.Scan(
		&p.ID, &p.EventID, &p.Generator, &p.Adults, &p.Kids,
		&menu, &items, &p.TotalKg, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(menu), &p.Menu); err != nil {
		return nil, fmt.Errorf("decode prediction menu: %w", err)
	}
	if err := json.Unmarshal([]byte(items), &p.Items); err != nil {
		return nil, fmt.Errorf("decode prediction items: %w", err)
	}
	return &p, nil
}

const predictionCols = `id, event_id, generator, adults, kids, menu, items, total_kg, created_at`

// Create stores an immutable prediction snapshot. There is no update path.
func (s *PredictionStore) Create(p *model.Prediction) (*model.Prediction, error) {
	menu, err := json.Marshal(p.Menu)
	if err != nil {
		return nil, fmt.Errorf("encode prediction menu: %w", err)
	}
	items, err := json.Marshal(p.Items)
	if err != nil {
		return nil, fmt.Errorf("encode prediction items: %w", err)
	}

	result, err := s.db.Exec(
		`INSERT INTO predictions (event_id, generator, adults, kids, menu, items, total_kg) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.EventID, p.Generator, p.Adults, p.Kids, string(menu), string(items), p.TotalKg,
	)
	if err != nil {
		return nil, fmt.Errorf("insert prediction: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *PredictionStore) GetByID(id int64) (*model.Prediction, error) {
	row := s.db.QueryRow(`SELECT `+predictionCols+` FROM predictions WHERE id = ?`, id)
	p, err := scanPrediction(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get prediction: %w", err)
	}
	return p, nil
}

func (s *PredictionStore) ListByEvent(eventID int64) ([]model.Prediction, error) {
	rows, err := s.db.Query(
		`SELECT `+predictionCols+` FROM predictions WHERE event_id = ? ORDER BY created_at DESC, id DESC`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}
	defer rows.Close()

	var preds []model.Prediction
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan prediction: %w", err)
		}
		preds = append(preds, *p)
	}
	return preds, rows.Err()
}
