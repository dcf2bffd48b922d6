package lifecycle

import (
	"fmt"
	"time"

	"github.com/gatherly/gatherly/internal/model"
)

// DateFormat is the day-granularity format for event and cutoff dates.
const DateFormat = "2006-01-02"

// ParseDate parses a day-granularity date string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CanAcceptRSVP reports whether an event accepts survey submissions as of the
// given time: status must be published, and if a cutoff date is set the
// submission day must not be past it. Comparison is at day granularity.
// A malformed cutoff date yields an error rather than a silent answer.
func CanAcceptRSVP(ev *model.Event, asOf time.Time) (bool, error) {
	if ev.Status != model.StatusPublished {
		return false, nil
	}
	if ev.SurveyCutoffDate == nil {
		return true, nil
	}
	cutoff, err := ParseDate(*ev.SurveyCutoffDate)
	if err != nil {
		return false, err
	}
	return !startOfDay(asOf).After(startOfDay(cutoff)), nil
}

// transitions holds the single legal successor for each status. The chain
// runs draft, published, survey_completed, completed; nothing follows
// completed.
var transitions = map[model.EventStatus]model.EventStatus{
	model.StatusDraft:           model.StatusPublished,
	model.StatusPublished:       model.StatusSurveyCompleted,
	model.StatusSurveyCompleted: model.StatusCompleted,
}

// ValidStatus reports whether s is one of the defined lifecycle statuses.
func ValidStatus(s model.EventStatus) bool {
	switch s {
	case model.StatusDraft, model.StatusPublished, model.StatusSurveyCompleted, model.StatusCompleted:
		return true
	}
	return false
}

// Transition validates the edge from current to next. Only the single
// forward step is legal; anything else is an error.
func Transition(current, next model.EventStatus) error {
	if !ValidStatus(next) {
		return fmt.Errorf("unknown status %q", next)
	}
	if transitions[current] != next {
		return fmt.Errorf("illegal transition %q -> %q", current, next)
	}
	return nil
}

// Override is the explicit owner escape hatch: it permits any edge between
// defined statuses, including regressions. Callers expose this as its own
// operation, never as an open status field.
func Override(current, next model.EventStatus) error {
	if !ValidStatus(next) {
		return fmt.Errorf("unknown status %q", next)
	}
	if current == next {
		return fmt.Errorf("event already %q", current)
	}
	return nil
}
