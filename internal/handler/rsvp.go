package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gatherly/gatherly/internal/lifecycle"
	"github.com/gatherly/gatherly/internal/model"
	"github.com/gatherly/gatherly/internal/rsvp"
	"github.com/gatherly/gatherly/internal/store"
	"github.com/gatherly/gatherly/internal/websocket"
)

// RSVPHandler serves the public invite surface (event card + submission) and
// the owner summary view.
type RSVPHandler struct {
	service    *rsvp.Service
	eventStore *store.EventStore
	events     *EventHandler
	hub        *websocket.Hub
	logger     *slog.Logger
}

func NewRSVPHandler(svc *rsvp.Service, es *store.EventStore, events *EventHandler, hub *websocket.Hub, logger *slog.Logger) *RSVPHandler {
	return &RSVPHandler{service: svc, eventStore: es, events: events, hub: hub, logger: logger}
}

// inviteCard is what an anonymous guest sees when opening the invite link.
// No owner or guest-list information leaks here.
type inviteCard struct {
	EventID       int64                `json:"event_id"`
	Title         string               `json:"title"`
	Description   string               `json:"description"`
	Location      string               `json:"location"`
	Date          string               `json:"date"`
	SurveyOpen    bool                 `json:"survey_open"`
	FoodItems     []model.FoodItem     `json:"food_items"`
	ScheduleItems []model.ScheduleItem `json:"schedule_items"`
}

// Card renders the public invite view for an event. Draft events are
// invisible to guests.
func (h *RSVPHandler) Card(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	ev, err := h.eventStore.GetByID(id)
	if err != nil {
		h.logger.Error("get event", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	if ev == nil || ev.Status == model.StatusDraft {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "event not found"})
		return
	}

	open, err := lifecycle.CanAcceptRSVP(ev, time.Now())
	if err != nil {
		h.logger.Error("check survey window", "event_id", ev.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	detail, err := h.events.detail(ev)
	if err != nil {
		h.logger.Error("event detail", "event_id", ev.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, inviteCard{
		EventID:       ev.ID,
		Title:         ev.Title,
		Description:   ev.Description,
		Location:      ev.Location,
		Date:          ev.Date,
		SurveyOpen:    open,
		FoodItems:     detail.FoodItems,
		ScheduleItems: detail.ScheduleItems,
	})
}

// Submit accepts a guest response. 201 for a new record, 200 for an update
// of an existing one (resolved through the response identifier).
func (h *RSVPHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req rsvp.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	record, created, err := h.service.Submit(id, req)
	if err != nil {
		writeCoreError(w, err)
		return
	}

	if h.hub != nil {
		h.hub.Broadcast(websocket.NewMessage("rsvp", "submitted", id, map[string]any{
			"response_id": record.PublicID,
			"created":     created,
		}))
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, record)
}

// Summary is the owner's aggregate view over all responses for their event.
func (h *RSVPHandler) Summary(w http.ResponseWriter, r *http.Request) {
	ev := h.events.ownedEvent(w, r)
	if ev == nil {
		return
	}

	summary, err := h.service.Summarize(ev.ID)
	if err != nil {
		h.logger.Error("summarize", "event_id", ev.ID, "error", err)
		writeCoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// Responses lists the raw RSVP records for an owner's event.
func (h *RSVPHandler) Responses(w http.ResponseWriter, r *http.Request) {
	ev := h.events.ownedEvent(w, r)
	if ev == nil {
		return
	}

	records, err := h.service.ListResponses(ev.ID)
	if err != nil {
		h.logger.Error("list responses", "event_id", ev.ID, "error", err)
		writeCoreError(w, err)
		return
	}
	if records == nil {
		records = []model.InviteRSVP{}
	}
	writeJSON(w, http.StatusOK, records)
}
