package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gatherly/gatherly/internal/model"
	"github.com/gatherly/gatherly/internal/store"
)

// GuestHandler manages the owner-curated guest roster. Roster entries are
// independent of self-service RSVP records.
type GuestHandler struct {
	guestStore *store.GuestStore
	events     *EventHandler
	logger     *slog.Logger
}

func NewGuestHandler(gs *store.GuestStore, events *EventHandler, logger *slog.Logger) *GuestHandler {
	return &GuestHandler{guestStore: gs, events: events, logger: logger}
}

type guestRequest struct {
	FullName string            `json:"full_name"`
	Email    string            `json:"email"`
	Phone    string            `json:"phone"`
	Status   model.GuestStatus `json:"status"`
	Adults   int               `json:"adults"`
	Kids     int               `json:"kids"`
}

func (r *guestRequest) validate() string {
	r.FullName = strings.TrimSpace(r.FullName)
	if r.FullName == "" {
		return "full_name is required"
	}
	if r.Status == "" {
		r.Status = model.GuestPending
	}
	switch r.Status {
	case model.GuestYes, model.GuestNo, model.GuestMaybe, model.GuestPending:
	default:
		return "status must be one of yes, no, maybe, pending"
	}
	if r.Adults < 0 || r.Kids < 0 {
		return "adults and kids must be non-negative"
	}
	return ""
}

func (h *GuestHandler) Create(w http.ResponseWriter, r *http.Request) {
	ev := h.events.ownedEvent(w, r)
	if ev == nil {
		return
	}

	var req guestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	guest, err := h.guestStore.Create(ev.ID, req.FullName, req.Email, req.Phone, req.Status, req.Adults, req.Kids)
	if err != nil {
		h.logger.Error("create guest", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusCreated, guest)
}

func (h *GuestHandler) List(w http.ResponseWriter, r *http.Request) {
	ev := h.events.ownedEvent(w, r)
	if ev == nil {
		return
	}

	guests, err := h.guestStore.ListByEvent(ev.ID)
	if err != nil {
		h.logger.Error("list guests", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	if guests == nil {
		guests = []model.Guest{}
	}
	writeJSON(w, http.StatusOK, guests)
}

func (h *GuestHandler) Update(w http.ResponseWriter, r *http.Request) {
	ev := h.events.ownedEvent(w, r)
	if ev == nil {
		return
	}

	guestID, err := strconv.ParseInt(r.PathValue("guest_id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid guest_id"})
		return
	}
	existing, err := h.guestStore.GetByID(guestID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	if existing == nil || existing.EventID != ev.ID {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "guest not found"})
		return
	}

	var req guestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	guest, err := h.guestStore.Update(guestID, req.FullName, req.Email, req.Phone, req.Status, req.Adults, req.Kids)
	if err != nil {
		h.logger.Error("update guest", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, guest)
}

func (h *GuestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ev := h.events.ownedEvent(w, r)
	if ev == nil {
		return
	}

	guestID, err := strconv.ParseInt(r.PathValue("guest_id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid guest_id"})
		return
	}
	existing, err := h.guestStore.GetByID(guestID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	if existing == nil || existing.EventID != ev.ID {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "guest not found"})
		return
	}

	if err := h.guestStore.Delete(guestID); err != nil {
		h.logger.Error("delete guest", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
