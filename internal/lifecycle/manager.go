package lifecycle

import (
	"log/slog"
	"time"

	"github.com/gatherly/gatherly/internal/model"
	"github.com/gatherly/gatherly/internal/store"
)

// Broadcaster receives status-change notifications. Satisfied by the
// websocket hub; nil-safe via the manager's broadcast helper.
type Broadcaster interface {
	EventStatusChanged(eventID int64, status model.EventStatus)
}

// Manager advances event statuses from survey cutoff dates. Safe to run
// concurrently with RSVP submissions: a submission that passed the gate just
// before the sweep flips the event is an accepted benign race.
type Manager struct {
	events *store.EventStore
	bc     Broadcaster
	logger *slog.Logger
}

func NewManager(events *store.EventStore, bc Broadcaster, logger *slog.Logger) *Manager {
	return &Manager{events: events, bc: bc, logger: logger}
}

// SweepFailure records one event the sweep could not process.
type SweepFailure struct {
	EventID int64  `json:"event_id"`
	Reason  string `json:"reason"`
}

// SweepResult reports which events a sweep advanced and which it skipped.
type SweepResult struct {
	Advanced []int64        `json:"advanced"`
	Failed   []SweepFailure `json:"failed,omitempty"`
}

// AdvanceCutoffEvents transitions every published event whose survey cutoff
// date is on or before asOf to survey_completed. Each event is handled
// independently: a malformed date or a failed write is recorded and skipped,
// never fatal to the batch. Re-running after a successful pass finds nothing
// eligible, so the sweep is idempotent.
func (m *Manager) AdvanceCutoffEvents(asOf time.Time) (*SweepResult, error) {
	events, err := m.events.ListPublishedWithCutoff()
	if err != nil {
		return nil, err
	}

	day := startOfDay(asOf)
	result := &SweepResult{Advanced: []int64{}}

	for _, ev := range events {
		cutoff, err := ParseDate(*ev.SurveyCutoffDate)
		if err != nil {
			m.logger.Error("sweep: bad cutoff date", "event_id", ev.ID, "cutoff", *ev.SurveyCutoffDate, "error", err)
			result.Failed = append(result.Failed, SweepFailure{EventID: ev.ID, Reason: err.Error()})
			continue
		}
		if startOfDay(cutoff).After(day) {
			continue
		}

		if err := Transition(ev.Status, model.StatusSurveyCompleted); err != nil {
			// Status changed under us since the query; skip quietly.
			m.logger.Warn("sweep: skip event", "event_id", ev.ID, "error", err)
			continue
		}
		if err := m.events.UpdateStatus(ev.ID, model.StatusSurveyCompleted); err != nil {
			m.logger.Error("sweep: update status", "event_id", ev.ID, "error", err)
			result.Failed = append(result.Failed, SweepFailure{EventID: ev.ID, Reason: err.Error()})
			continue
		}

		result.Advanced = append(result.Advanced, ev.ID)
		m.broadcast(ev.ID, model.StatusSurveyCompleted)
	}

	if len(result.Advanced) > 0 {
		m.logger.Info("cutoff sweep", "advanced", len(result.Advanced), "failed", len(result.Failed))
	}
	return result, nil
}

func (m *Manager) broadcast(eventID int64, status model.EventStatus) {
	if m.bc != nil {
		m.bc.EventStatusChanged(eventID, status)
	}
}
