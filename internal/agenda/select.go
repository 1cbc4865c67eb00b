package agenda

import (
	"sort"
	"time"

	"meetcal/internal/model"
)

// popupBandSeconds is the width of the detail-block trigger interval.
const popupBandSeconds = 10

// Selection is the outcome of Select. Found is false when no event
// qualifies and the caller should report "free".
type Selection struct {
	Found        bool
	Event        model.Event
	SecondsUntil int64
	MinutesUntil int64
	Popup        bool
}

// SortByStart orders events by start time, keeping the input order of ties.
func SortByStart(events []model.Event) []model.Event {
	sorted := make([]model.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})
	return sorted
}

// Select returns the earliest event starting in fewer than lookAhead
// minutes (in-progress events have negative minutes and always qualify).
// Popup is set when the start is strictly between popupLead and
// popupLead+10 seconds away.
func Select(events []model.Event, now time.Time, lookAhead, popupLead int) Selection {
	for _, ev := range SortByStart(events) {
		seconds := secondsUntil(ev.Start, now)
		minutes := floorDiv(seconds, 60)
		if minutes >= int64(lookAhead) {
			continue
		}
		lead := int64(popupLead)
		return Selection{
			Found:        true,
			Event:        ev,
			SecondsUntil: seconds,
			MinutesUntil: minutes,
			Popup:        lead < seconds && seconds < lead+popupBandSeconds,
		}
	}
	return Selection{}
}

// secondsUntil truncates toward zero, so 30.9s in the past is -30.
func secondsUntil(start, now time.Time) int64 {
	return int64(start.Sub(now) / time.Second)
}
