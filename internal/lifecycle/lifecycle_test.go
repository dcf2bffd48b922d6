package lifecycle

import (
	"testing"
	"time"

	"github.com/gatherly/gatherly/internal/model"
)

func strPtr(s string) *string { return &s }

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse time %q: %v", value, err)
	}
	return ts
}

func TestCanAcceptRSVP(t *testing.T) {
	tests := []struct {
		name   string
		status model.EventStatus
		cutoff *string
		asOf   string
		want   bool
	}{
		{"draft never accepts", model.StatusDraft, nil, "2026-06-10T12:00:00Z", false},
		{"survey completed never accepts", model.StatusSurveyCompleted, nil, "2026-06-10T12:00:00Z", false},
		{"completed never accepts", model.StatusCompleted, nil, "2026-06-10T12:00:00Z", false},
		{"published without cutoff always accepts", model.StatusPublished, nil, "2026-06-10T12:00:00Z", true},
		{"day before cutoff accepts", model.StatusPublished, strPtr("2026-06-15"), "2026-06-14T12:00:00Z", true},
		{"cutoff day accepts until midnight", model.StatusPublished, strPtr("2026-06-15"), "2026-06-15T23:59:59Z", true},
		{"day after cutoff rejects", model.StatusPublished, strPtr("2026-06-15"), "2026-06-16T00:00:01Z", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := &model.Event{Status: tt.status, SurveyCutoffDate: tt.cutoff}
			got, err := CanAcceptRSVP(ev, mustTime(t, tt.asOf))
			if err != nil {
				t.Fatalf("can accept: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanAcceptRSVPMalformedCutoff(t *testing.T) {
	ev := &model.Event{Status: model.StatusPublished, SurveyCutoffDate: strPtr("June 15th")}
	ok, err := CanAcceptRSVP(ev, mustTime(t, "2026-06-10T12:00:00Z"))
	if err == nil {
		t.Fatal("expected error for malformed cutoff date")
	}
	if ok {
		t.Error("malformed cutoff must not report the survey open")
	}
}

func TestTransition(t *testing.T) {
	legal := []struct{ from, to model.EventStatus }{
		{model.StatusDraft, model.StatusPublished},
		{model.StatusPublished, model.StatusSurveyCompleted},
		{model.StatusSurveyCompleted, model.StatusCompleted},
	}
	for _, e := range legal {
		if err := Transition(e.from, e.to); err != nil {
			t.Errorf("%s -> %s should be legal: %v", e.from, e.to, err)
		}
	}

	illegal := []struct{ from, to model.EventStatus }{
		{model.StatusDraft, model.StatusSurveyCompleted},
		{model.StatusDraft, model.StatusCompleted},
		{model.StatusPublished, model.StatusDraft},
		{model.StatusPublished, model.StatusCompleted},
		{model.StatusSurveyCompleted, model.StatusPublished},
		{model.StatusCompleted, model.StatusDraft},
		{model.StatusCompleted, model.StatusPublished},
		{model.StatusDraft, model.StatusDraft},
	}
	for _, e := range illegal {
		if err := Transition(e.from, e.to); err == nil {
			t.Errorf("%s -> %s should be illegal", e.from, e.to)
		}
	}
}

func TestTransitionUnknownStatus(t *testing.T) {
	if err := Transition(model.StatusDraft, "archived"); err == nil {
		t.Error("unknown target status should be rejected")
	}
}

func TestOverride(t *testing.T) {
	// Any edge between defined statuses is permitted, including regressions.
	if err := Override(model.StatusCompleted, model.StatusPublished); err != nil {
		t.Errorf("completed -> published override: %v", err)
	}
	if err := Override(model.StatusSurveyCompleted, model.StatusDraft); err != nil {
		t.Errorf("survey_completed -> draft override: %v", err)
	}

	if err := Override(model.StatusPublished, model.StatusPublished); err == nil {
		t.Error("same-status override should be rejected")
	}
	if err := Override(model.StatusDraft, "archived"); err == nil {
		t.Error("unknown target status should be rejected")
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-06-15")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.Year() != 2026 || d.Month() != time.June || d.Day() != 15 {
		t.Errorf("parsed %v, want 2026-06-15", d)
	}

	for _, bad := range []string{"", "tomorrow", "2026-6-15", "15/06/2026"} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("ParseDate(%q) should fail", bad)
		}
	}
}
