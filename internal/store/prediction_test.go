package store

import (
	"testing"

	"github.com/gatherly/gatherly/internal/database"
	"github.com/gatherly/gatherly/internal/model"
)

func setupPredictionTestDB(t *testing.T) (*PredictionStore, *EventStore, int64) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	owner, err := NewUserStore(db).Create("host@example.com", "Host", "x")
	if err != nil {
		t.Fatalf("create owner: %v", err)
	}
	return NewPredictionStore(db), NewEventStore(db), owner.ID
}

func TestPredictionCreateRoundTrip(t *testing.T) {
	ps, es, owner := setupPredictionTestDB(t)
	ev := testEvent(t, es, owner)

	p, err := ps.Create(&model.Prediction{
		EventID:   ev.ID,
		Generator: model.GeneratorRuleBased,
		Adults:    10,
		Kids:      4,
		Menu: []model.FoodItem{
			{ID: 1, Name: "Brisket", Category: "meat", PerAdultKg: 0.3, PerKidKg: 0.15},
		},
		Items: []model.PredictionItem{
			{FoodItemID: 1, Name: "Brisket", Category: "meat", QuantityKg: 3.6},
		},
		TotalKg: 3.6,
	})
	if err != nil {
		t.Fatalf("create prediction: %v", err)
	}

	if p.Generator != model.GeneratorRuleBased || p.Adults != 10 || p.Kids != 4 {
		t.Errorf("prediction = %+v", p)
	}
	if len(p.Menu) != 1 || p.Menu[0].Name != "Brisket" || p.Menu[0].PerAdultKg != 0.3 {
		t.Errorf("menu snapshot = %+v", p.Menu)
	}
	if len(p.Items) != 1 || p.Items[0].QuantityKg != 3.6 {
		t.Errorf("items = %+v", p.Items)
	}
	if p.TotalKg != 3.6 {
		t.Errorf("total = %v, want 3.6", p.TotalKg)
	}

	got, err := ps.GetByID(p.ID)
	if err != nil {
		t.Fatalf("get prediction: %v", err)
	}
	if got == nil || got.Menu[0].Name != "Brisket" {
		t.Errorf("got %+v", got)
	}
}

func TestPredictionListByEvent(t *testing.T) {
	ps, es, owner := setupPredictionTestDB(t)
	ev := testEvent(t, es, owner)
	other := testEvent(t, es, owner)

	for i := 0; i < 3; i++ {
		if _, err := ps.Create(&model.Prediction{EventID: ev.ID, Generator: model.GeneratorRuleBased, Adults: i}); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}
	if _, err := ps.Create(&model.Prediction{EventID: other.ID, Generator: model.GeneratorExternal}); err != nil {
		t.Fatalf("create other: %v", err)
	}

	preds, err := ps.ListByEvent(ev.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(preds) != 3 {
		t.Fatalf("expected 3 predictions, got %d", len(preds))
	}
	// Newest first: the last one created has the highest id.
	if preds[0].ID < preds[2].ID {
		t.Errorf("order = %d..%d, want newest first", preds[0].ID, preds[2].ID)
	}
}

func TestPredictionGetMissing(t *testing.T) {
	ps, _, _ := setupPredictionTestDB(t)

	p, err := ps.GetByID(9999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if p != nil {
		t.Errorf("got %+v, want nil", p)
	}
}
