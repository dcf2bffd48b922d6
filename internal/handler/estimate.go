package handler

import (
	"log/slog"
	"net/http"

	"github.com/gatherly/gatherly/internal/estimate"
	"github.com/gatherly/gatherly/internal/model"
	"github.com/gatherly/gatherly/internal/rsvp"
	"github.com/gatherly/gatherly/internal/store"
	"github.com/gatherly/gatherly/internal/websocket"
)

// EstimateHandler exposes live food-quantity estimates and frozen prediction
// snapshots.
type EstimateHandler struct {
	service     *rsvp.Service
	eventStore  *store.EventStore
	predictions *store.PredictionStore
	events      *EventHandler
	hub         *websocket.Hub
	logger      *slog.Logger
}

func NewEstimateHandler(svc *rsvp.Service, es *store.EventStore, ps *store.PredictionStore, events *EventHandler, hub *websocket.Hub, logger *slog.Logger) *EstimateHandler {
	return &EstimateHandler{
		service:     svc,
		eventStore:  es,
		predictions: ps,
		events:      events,
		hub:         hub,
		logger:      logger,
	}
}

// compute runs the estimator over the event's current summary and menu.
func (h *EstimateHandler) compute(ev *model.Event) (*model.Prediction, error) {
	summary, err := h.service.Summarize(ev.ID)
	if err != nil {
		return nil, err
	}
	menu, err := h.eventStore.ListFoodItems(ev.ID)
	if err != nil {
		return nil, err
	}

	pred, err := estimate.ForMenu(summary.Adults, summary.Kids, menu)
	if err != nil {
		return nil, err
	}
	pred.EventID = ev.ID
	return pred, nil
}

// Live returns the current estimate without persisting anything.
func (h *EstimateHandler) Live(w http.ResponseWriter, r *http.Request) {
	ev := h.events.ownedEvent(w, r)
	if ev == nil {
		return
	}

	pred, err := h.compute(ev)
	if err != nil {
		h.logger.Error("estimate", "event_id", ev.ID, "error", err)
		writeCoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pred)
}

// CreatePrediction freezes the current estimate as an immutable snapshot.
func (h *EstimateHandler) CreatePrediction(w http.ResponseWriter, r *http.Request) {
	ev := h.events.ownedEvent(w, r)
	if ev == nil {
		return
	}

	pred, err := h.compute(ev)
	if err != nil {
		h.logger.Error("estimate", "event_id", ev.ID, "error", err)
		writeCoreError(w, err)
		return
	}

	saved, err := h.predictions.Create(pred)
	if err != nil {
		h.logger.Error("save prediction", "event_id", ev.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	if h.hub != nil {
		h.hub.Broadcast(websocket.NewMessage("prediction", "created", ev.ID, map[string]any{
			"prediction_id": saved.ID,
			"total_kg":      saved.TotalKg,
		}))
	}

	writeJSON(w, http.StatusCreated, saved)
}

// ListPredictions returns all frozen snapshots for the event, newest first.
func (h *EstimateHandler) ListPredictions(w http.ResponseWriter, r *http.Request) {
	ev := h.events.ownedEvent(w, r)
	if ev == nil {
		return
	}

	preds, err := h.predictions.ListByEvent(ev.ID)
	if err != nil {
		h.logger.Error("list predictions", "event_id", ev.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	if preds == nil {
		preds = []model.Prediction{}
	}
	writeJSON(w, http.StatusOK, preds)
}
