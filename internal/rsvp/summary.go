package rsvp

import (
	"github.com/gatherly/gatherly/internal/model"
)

// TransportSummary accumulates responses and vehicle counts for one
// transport mode.
type TransportSummary struct {
	Responses int `json:"responses"`
	Cars      int `json:"cars"`
	Bikes     int `json:"bikes"`
}

// ScheduleItemSummary is the attendance breakdown for one schedule item.
type ScheduleItemSummary struct {
	Attending int                          `json:"attending"`
	Adults    int                          `json:"adults"`
	Kids      int                          `json:"kids"`
	Transport map[string]*TransportSummary `json:"transport,omitempty"`
}

// Summary is the aggregate view over all responses for an event. A valid
// all-zero summary is returned for an event with no responses; that case is
// distinct from the event not existing.
type Summary struct {
	EventID       int64                          `json:"event_id"`
	Respondents   int                            `json:"respondents"`
	Attending     int                            `json:"attending"`
	Adults        int                            `json:"adults"`
	Kids          int                            `json:"kids"`
	Transport     map[string]*TransportSummary   `json:"transport"`
	ScheduleItems map[int64]*ScheduleItemSummary `json:"schedule_items,omitempty"`
}

// Summarize folds every response for the event into a Summary. Pure over the
// stored records: sums and counts only, independent of record order, so
// recomputation with no intervening writes is identical.
func (s *Service) Summarize(eventID int64) (*Summary, error) {
	ev, err := s.events.GetByID(eventID)
	if err != nil {
		return nil, err
	}
	if ev == nil {
		return nil, ErrEventNotFound
	}

	records, err := s.rsvps.ListByEvent(eventID)
	if err != nil {
		return nil, err
	}
	return BuildSummary(eventID, records), nil
}

// ListResponses returns the raw response records for an event.
func (s *Service) ListResponses(eventID int64) ([]model.InviteRSVP, error) {
	ev, err := s.events.GetByID(eventID)
	if err != nil {
		return nil, err
	}
	if ev == nil {
		return nil, ErrEventNotFound
	}
	return s.rsvps.ListByEvent(eventID)
}

// BuildSummary computes the aggregate for a set of responses. Non-attending
// responses count as respondents but contribute zero everywhere else.
func BuildSummary(eventID int64, records []model.InviteRSVP) *Summary {
	sum := &Summary{
		EventID:   eventID,
		Transport: make(map[string]*TransportSummary),
	}

	for i := range records {
		r := &records[i]
		sum.Respondents++

		if r.Attending {
			sum.Attending++
			sum.Adults += r.Adults
			sum.Kids += r.Kids
			if r.TransportMode != nil && *r.TransportMode != "" {
				addTransport(sum.Transport, *r.TransportMode, r.Cars, r.Bikes)
			}
		}

		foldScheduleItems(sum, r)
	}

	return sum
}

// foldScheduleItems accumulates the per-schedule-item breakdown for one
// response. Items with a detailed sub-response use it; items named only in
// the legacy flat set fall back to the response's top-level fields. An item
// present in both uses the detailed sub-response.
func foldScheduleItems(sum *Summary, r *model.InviteRSVP) {
	if len(r.ScheduleResponses) == 0 && len(r.ScheduleIDs) == 0 {
		return
	}
	if sum.ScheduleItems == nil {
		sum.ScheduleItems = make(map[int64]*ScheduleItemSummary)
	}

	for itemID, sub := range r.ScheduleResponses {
		attending := r.Attending
		if sub.Attending != nil {
			attending = *sub.Attending
		}
		item := scheduleItem(sum, itemID)
		if !attending {
			continue
		}
		item.Attending++
		item.Adults += sub.Adults
		item.Kids += sub.Kids
		if sub.TransportMode != nil && *sub.TransportMode != "" {
			if item.Transport == nil {
				item.Transport = make(map[string]*TransportSummary)
			}
			addTransport(item.Transport, *sub.TransportMode, sub.Cars, sub.Bikes)
		}
	}

	for _, itemID := range r.ScheduleIDs {
		if _, detailed := r.ScheduleResponses[itemID]; detailed {
			continue
		}
		item := scheduleItem(sum, itemID)
		if !r.Attending {
			continue
		}
		item.Attending++
		item.Adults += r.Adults
		item.Kids += r.Kids
		if r.TransportMode != nil && *r.TransportMode != "" {
			if item.Transport == nil {
				item.Transport = make(map[string]*TransportSummary)
			}
			addTransport(item.Transport, *r.TransportMode, r.Cars, r.Bikes)
		}
	}
}

func scheduleItem(sum *Summary, itemID int64) *ScheduleItemSummary {
	item, ok := sum.ScheduleItems[itemID]
	if !ok {
		item = &ScheduleItemSummary{}
		sum.ScheduleItems[itemID] = item
	}
	return item
}

func addTransport(m map[string]*TransportSummary, mode string, cars, bikes int) {
	t, ok := m[mode]
	if !ok {
		t = &TransportSummary{}
		m[mode] = t
	}
	t.Responses++
	t.Cars += cars
	t.Bikes += bikes
}
