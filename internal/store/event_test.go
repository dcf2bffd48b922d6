package store

import (
	"testing"

	"github.com/gatherly/gatherly/internal/database"
	"github.com/gatherly/gatherly/internal/model"
)

func setupEventTestDB(t *testing.T) (*EventStore, int64) {
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
	return NewEventStore(db), owner.ID
}

func TestEventCRUD(t *testing.T) {
	es, owner := setupEventTestDB(t)

	cutoff := "2026-06-15"
	ev, err := es.Create(owner, "Summer BBQ", "Annual cookout", "Backyard", "2026-07-01", &cutoff)
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	if ev.Title != "Summer BBQ" {
		t.Errorf("title = %q, want %q", ev.Title, "Summer BBQ")
	}
	if ev.Status != model.StatusDraft {
		t.Errorf("status = %q, want %q", ev.Status, model.StatusDraft)
	}
	if ev.SurveyCutoffDate == nil || *ev.SurveyCutoffDate != "2026-06-15" {
		t.Errorf("cutoff = %v, want 2026-06-15", ev.SurveyCutoffDate)
	}
	if ev.ReportPaid {
		t.Error("new event should not be marked paid")
	}

	// Get
	got, err := es.GetByID(ev.ID)
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	if got.Title != "Summer BBQ" || got.Date != "2026-07-01" {
		t.Errorf("got %+v", got)
	}

	// Update, clearing the cutoff
	updated, err := es.Update(ev.ID, "Fall BBQ", "Moved", "Park", "2026-09-01", nil)
	if err != nil {
		t.Fatalf("update event: %v", err)
	}
	if updated.Title != "Fall BBQ" || updated.Date != "2026-09-01" {
		t.Errorf("updated = %+v", updated)
	}
	if updated.SurveyCutoffDate != nil {
		t.Errorf("cutoff = %v, want cleared", updated.SurveyCutoffDate)
	}

	// Delete
	if err := es.Delete(ev.ID); err != nil {
		t.Fatalf("delete event: %v", err)
	}
	got, err = es.GetByID(ev.ID)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got != nil {
		t.Error("deleted event should be gone")
	}
}

func TestEventGetMissing(t *testing.T) {
	es, _ := setupEventTestDB(t)

	ev, err := es.GetByID(9999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if ev != nil {
		t.Errorf("got %+v, want nil", ev)
	}
}

func TestListByOwner(t *testing.T) {
	es, owner := setupEventTestDB(t)

	if _, err := es.Create(owner, "Second", "", "", "2026-08-01", nil); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := es.Create(owner, "First", "", "", "2026-07-01", nil); err != nil {
		t.Fatalf("create: %v", err)
	}

	events, err := es.ListByOwner(owner)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	// Ordered by event date
	if events[0].Title != "First" || events[1].Title != "Second" {
		t.Errorf("order = %q, %q", events[0].Title, events[1].Title)
	}

	none, err := es.ListByOwner(owner + 1)
	if err != nil {
		t.Fatalf("list other owner: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("other owner sees %d events, want 0", len(none))
	}
}

func TestListPublishedWithCutoff(t *testing.T) {
	es, owner := setupEventTestDB(t)

	cutoff := "2026-06-15"
	published, err := es.Create(owner, "Published", "", "", "2026-07-01", &cutoff)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := es.UpdateStatus(published.ID, model.StatusPublished); err != nil {
		t.Fatalf("publish: %v", err)
	}

	// Draft with cutoff: excluded by status.
	if _, err := es.Create(owner, "Draft", "", "", "2026-07-01", &cutoff); err != nil {
		t.Fatalf("create draft: %v", err)
	}

	// Published without cutoff: excluded by cutoff.
	open, err := es.Create(owner, "Open", "", "", "2026-07-01", nil)
	if err != nil {
		t.Fatalf("create open: %v", err)
	}
	if err := es.UpdateStatus(open.ID, model.StatusPublished); err != nil {
		t.Fatalf("publish open: %v", err)
	}

	events, err := es.ListPublishedWithCutoff()
	if err != nil {
		t.Fatalf("list published with cutoff: %v", err)
	}
	if len(events) != 1 || events[0].ID != published.ID {
		t.Errorf("got %d events, want only %d", len(events), published.ID)
	}
}

func TestUpdateStatus(t *testing.T) {
	es, owner := setupEventTestDB(t)

	ev, err := es.Create(owner, "BBQ", "", "", "2026-07-01", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := es.UpdateStatus(ev.ID, model.StatusPublished); err != nil {
		t.Fatalf("update status: %v", err)
	}
	got, err := es.GetByID(ev.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != model.StatusPublished {
		t.Errorf("status = %q, want %q", got.Status, model.StatusPublished)
	}
}

func TestSetReportPaid(t *testing.T) {
	es, owner := setupEventTestDB(t)

	ev, err := es.Create(owner, "BBQ", "", "", "2026-07-01", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := es.SetReportPaid(ev.ID, true); err != nil {
		t.Fatalf("set paid: %v", err)
	}
	got, err := es.GetByID(ev.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.ReportPaid {
		t.Error("report_paid not set")
	}

	if err := es.SetReportPaid(ev.ID, false); err != nil {
		t.Fatalf("clear paid: %v", err)
	}
	got, err = es.GetByID(ev.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ReportPaid {
		t.Error("report_paid not cleared")
	}
}

func TestFoodItemCRUD(t *testing.T) {
	es, owner := setupEventTestDB(t)

	ev, err := es.Create(owner, "BBQ", "", "", "2026-07-01", nil)
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	fi, err := es.CreateFoodItem(ev.ID, "Pulled Pork", "meat", 0.3, 0.15, 1)
	if err != nil {
		t.Fatalf("create food item: %v", err)
	}
	if fi.Name != "Pulled Pork" || fi.PerAdultKg != 0.3 || fi.PerKidKg != 0.15 {
		t.Errorf("food item = %+v", fi)
	}

	if _, err := es.CreateFoodItem(ev.ID, "Coleslaw", "side", 0.1, 0.05, 2); err != nil {
		t.Fatalf("create second item: %v", err)
	}

	items, err := es.ListFoodItems(ev.ID)
	if err != nil {
		t.Fatalf("list food items: %v", err)
	}
	if len(items) != 2 || items[0].Name != "Pulled Pork" {
		t.Errorf("items = %+v", items)
	}

	updated, err := es.UpdateFoodItem(fi.ID, "Brisket", "meat", 0.35, 0.18, 1)
	if err != nil {
		t.Fatalf("update food item: %v", err)
	}
	if updated.Name != "Brisket" || updated.PerAdultKg != 0.35 {
		t.Errorf("updated = %+v", updated)
	}

	if err := es.DeleteFoodItem(fi.ID); err != nil {
		t.Fatalf("delete food item: %v", err)
	}
	got, err := es.GetFoodItemByID(fi.ID)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got != nil {
		t.Error("deleted food item should be gone")
	}
}

func TestScheduleItemCRUD(t *testing.T) {
	es, owner := setupEventTestDB(t)

	ev, err := es.Create(owner, "BBQ", "", "", "2026-07-01", nil)
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	si, err := es.CreateScheduleItem(ev.ID, "Lunch", "12:00", 1)
	if err != nil {
		t.Fatalf("create schedule item: %v", err)
	}
	if si.Title != "Lunch" || si.StartsAt != "12:00" {
		t.Errorf("schedule item = %+v", si)
	}

	if _, err := es.CreateScheduleItem(ev.ID, "Games", "14:00", 2); err != nil {
		t.Fatalf("create second item: %v", err)
	}

	items, err := es.ListScheduleItems(ev.ID)
	if err != nil {
		t.Fatalf("list schedule items: %v", err)
	}
	if len(items) != 2 || items[0].Title != "Lunch" || items[1].Title != "Games" {
		t.Errorf("items = %+v", items)
	}

	updated, err := es.UpdateScheduleItem(si.ID, "Late Lunch", "13:00", 1)
	if err != nil {
		t.Fatalf("update schedule item: %v", err)
	}
	if updated.Title != "Late Lunch" || updated.StartsAt != "13:00" {
		t.Errorf("updated = %+v", updated)
	}

	if err := es.DeleteScheduleItem(si.ID); err != nil {
		t.Fatalf("delete schedule item: %v", err)
	}
	got, err := es.GetScheduleItemByID(si.ID)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got != nil {
		t.Error("deleted schedule item should be gone")
	}
}
