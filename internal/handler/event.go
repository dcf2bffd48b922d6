package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gatherly/gatherly/internal/auth"
	"github.com/gatherly/gatherly/internal/lifecycle"
	"github.com/gatherly/gatherly/internal/model"
	"github.com/gatherly/gatherly/internal/store"
	"github.com/gatherly/gatherly/internal/websocket"
)

type EventHandler struct {
	eventStore *store.EventStore
	hub        *websocket.Hub
	logger     *slog.Logger
}

func NewEventHandler(es *store.EventStore, hub *websocket.Hub, logger *slog.Logger) *EventHandler {
	return &EventHandler{eventStore: es, hub: hub, logger: logger}
}

type eventRequest struct {
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	Location         string  `json:"location"`
	Date             string  `json:"date"`
	SurveyCutoffDate *string `json:"survey_cutoff_date"`
}

func (r *eventRequest) validate() string {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return "title is required"
	}
	if _, err := lifecycle.ParseDate(r.Date); err != nil {
		return "date must be YYYY-MM-DD"
	}
	if r.SurveyCutoffDate != nil {
		if _, err := lifecycle.ParseDate(*r.SurveyCutoffDate); err != nil {
			return "survey_cutoff_date must be YYYY-MM-DD"
		}
	}
	return ""
}

// ownedEvent loads the event from the id path parameter and checks the
// caller owns it. Writes the error response and returns nil when it doesn't
// resolve; events owned by someone else read as not found.
func (h *EventHandler) ownedEvent(w http.ResponseWriter, r *http.Request) *model.Event {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return nil
	}

	ev, err := h.eventStore.GetByID(id)
	if err != nil {
		h.logger.Error("get event", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return nil
	}
	if ev == nil || ev.OwnerID != auth.UserID(r.Context()) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "event not found"})
		return nil
	}
	return ev
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	ev, err := h.eventStore.Create(auth.UserID(r.Context()), req.Title, req.Description, req.Location, req.Date, req.SurveyCutoffDate)
	if err != nil {
		h.logger.Error("create event", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusCreated, ev)
}

func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.eventStore.ListByOwner(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("list events", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	if events == nil {
		events = []model.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

type eventDetail struct {
	model.Event
	FoodItems     []model.FoodItem     `json:"food_items"`
	ScheduleItems []model.ScheduleItem `json:"schedule_items"`
}

func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	ev := h.ownedEvent(w, r)
	if ev == nil {
		return
	}

	detail, err := h.detail(ev)
	if err != nil {
		h.logger.Error("event detail", "event_id", ev.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *EventHandler) detail(ev *model.Event) (*eventDetail, error) {
	foodItems, err := h.eventStore.ListFoodItems(ev.ID)
	if err != nil {
		return nil, err
	}
	scheduleItems, err := h.eventStore.ListScheduleItems(ev.ID)
	if err != nil {
		return nil, err
	}
	if foodItems == nil {
		foodItems = []model.FoodItem{}
	}
	if scheduleItems == nil {
		scheduleItems = []model.ScheduleItem{}
	}
	return &eventDetail{Event: *ev, FoodItems: foodItems, ScheduleItems: scheduleItems}, nil
}

func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	ev := h.ownedEvent(w, r)
	if ev == nil {
		return
	}

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	updated, err := h.eventStore.Update(ev.ID, req.Title, req.Description, req.Location, req.Date, req.SurveyCutoffDate)
	if err != nil {
		h.logger.Error("update event", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ev := h.ownedEvent(w, r)
	if ev == nil {
		return
	}

	if err := h.eventStore.Delete(ev.ID); err != nil {
		h.logger.Error("delete event", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- Lifecycle transitions ---

// Publish moves draft -> published.
func (h *EventHandler) Publish(w http.ResponseWriter, r *http.Request) {
	h.applyTransition(w, r, model.StatusPublished, false)
}

// CloseSurvey moves published -> survey_completed ahead of the cutoff sweep.
func (h *EventHandler) CloseSurvey(w http.ResponseWriter, r *http.Request) {
	h.applyTransition(w, r, model.StatusSurveyCompleted, false)
}

// Complete moves survey_completed -> completed.
func (h *EventHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.applyTransition(w, r, model.StatusCompleted, false)
}

// OverrideStatus is the explicit owner escape hatch for any other edge,
// including regressions (e.g. reopening a closed survey).
func (h *EventHandler) OverrideStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status model.EventStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	h.applyTransition(w, r, req.Status, true)
}

func (h *EventHandler) applyTransition(w http.ResponseWriter, r *http.Request, next model.EventStatus, override bool) {
	ev := h.ownedEvent(w, r)
	if ev == nil {
		return
	}

	check := lifecycle.Transition
	if override {
		check = lifecycle.Override
	}
	if err := check(ev.Status, next); err != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}

	if err := h.eventStore.UpdateStatus(ev.ID, next); err != nil {
		h.logger.Error("update status", "event_id", ev.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	if h.hub != nil {
		h.hub.EventStatusChanged(ev.ID, next)
	}

	updated, err := h.eventStore.GetByID(ev.ID)
	if err != nil || updated == nil {
		h.logger.Error("reload event", "event_id", ev.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// ReportPaid flips the owner-driven paid flag; independent of status.
func (h *EventHandler) ReportPaid(w http.ResponseWriter, r *http.Request) {
	ev := h.ownedEvent(w, r)
	if ev == nil {
		return
	}

	var req struct {
		Paid *bool `json:"paid"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Paid == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "paid must be true or false"})
		return
	}

	if err := h.eventStore.SetReportPaid(ev.ID, *req.Paid); err != nil {
		h.logger.Error("set report paid", "event_id", ev.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	updated, err := h.eventStore.GetByID(ev.ID)
	if err != nil || updated == nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// --- Food items ---

type foodItemRequest struct {
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	PerAdultKg float64 `json:"per_adult_kg"`
	PerKidKg   float64 `json:"per_kid_kg"`
	SortOrder  int     `json:"sort_order"`
}

func (r *foodItemRequest) validate() string {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return "name is required"
	}
	if r.PerAdultKg < 0 || r.PerKidKg < 0 {
		return "consumption rates must be non-negative"
	}
	return ""
}

func (h *EventHandler) CreateFoodItem(w http.ResponseWriter, r *http.Request) {
	ev := h.ownedEvent(w, r)
	if ev == nil {
		return
	}

	var req foodItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	item, err := h.eventStore.CreateFoodItem(ev.ID, req.Name, req.Category, req.PerAdultKg, req.PerKidKg, req.SortOrder)
	if err != nil {
		h.logger.Error("create food item", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

func (h *EventHandler) UpdateFoodItem(w http.ResponseWriter, r *http.Request) {
	ev := h.ownedEvent(w, r)
	if ev == nil {
		return
	}

	itemID, err := strconv.ParseInt(r.PathValue("item_id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item_id"})
		return
	}
	existing, err := h.eventStore.GetFoodItemByID(itemID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	if existing == nil || existing.EventID != ev.ID {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "food item not found"})
		return
	}

	var req foodItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	item, err := h.eventStore.UpdateFoodItem(itemID, req.Name, req.Category, req.PerAdultKg, req.PerKidKg, req.SortOrder)
	if err != nil {
		h.logger.Error("update food item", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, item)
}

func (h *EventHandler) DeleteFoodItem(w http.ResponseWriter, r *http.Request) {
	ev := h.ownedEvent(w, r)
	if ev == nil {
		return
	}

	itemID, err := strconv.ParseInt(r.PathValue("item_id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item_id"})
		return
	}
	existing, err := h.eventStore.GetFoodItemByID(itemID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	if existing == nil || existing.EventID != ev.ID {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "food item not found"})
		return
	}

	if err := h.eventStore.DeleteFoodItem(itemID); err != nil {
		h.logger.Error("delete food item", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- Schedule items ---

type scheduleItemRequest struct {
	Title     string `json:"title"`
	StartsAt  string `json:"starts_at"`
	SortOrder int    `json:"sort_order"`
}

func (h *EventHandler) CreateScheduleItem(w http.ResponseWriter, r *http.Request) {
	ev := h.ownedEvent(w, r)
	if ev == nil {
		return
	}

	var req scheduleItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title is required"})
		return
	}

	item, err := h.eventStore.CreateScheduleItem(ev.ID, req.Title, req.StartsAt, req.SortOrder)
	if err != nil {
		h.logger.Error("create schedule item", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

func (h *EventHandler) UpdateScheduleItem(w http.ResponseWriter, r *http.Request) {
	ev := h.ownedEvent(w, r)
	if ev == nil {
		return
	}

	itemID, err := strconv.ParseInt(r.PathValue("item_id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item_id"})
		return
	}
	existing, err := h.eventStore.GetScheduleItemByID(itemID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	if existing == nil || existing.EventID != ev.ID {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "schedule item not found"})
		return
	}

	var req scheduleItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title is required"})
		return
	}

	item, err := h.eventStore.UpdateScheduleItem(itemID, req.Title, req.StartsAt, req.SortOrder)
	if err != nil {
		h.logger.Error("update schedule item", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, item)
}

func (h *EventHandler) DeleteScheduleItem(w http.ResponseWriter, r *http.Request) {
	ev := h.ownedEvent(w, r)
	if ev == nil {
		return
	}

	itemID, err := strconv.ParseInt(r.PathValue("item_id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item_id"})
		return
	}
	existing, err := h.eventStore.GetScheduleItemByID(itemID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	if existing == nil || existing.EventID != ev.ID {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "schedule item not found"})
		return
	}

	if err := h.eventStore.DeleteScheduleItem(itemID); err != nil {
		h.logger.Error("delete schedule item", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
