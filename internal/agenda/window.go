// Package agenda decides which calendar event, if any, the status line
// should announce.
package agenda

import (
	"time"

	appLog "meetcal/internal/log"
	"meetcal/internal/model"
)

// Window is computed once per run and never mutated.
type Window struct {
	Now      time.Time
	EndOfDay time.Time
	// LookAhead is nil for the "rest of today" query.
	LookAhead *int
}

// NewWindow anchors a window at now. The end of day is 23:59:59 in now's
// location.
func NewWindow(now time.Time, lookAhead *int) Window {
	y, m, d := now.Date()
	return Window{
		Now:       now,
		EndOfDay:  time.Date(y, m, d, 23, 59, 59, 0, now.Location()),
		LookAhead: lookAhead,
	}
}

// Minutes is a small helper for building a look-ahead pointer.
func Minutes(n int) *int {
	return &n
}

// Filter keeps the events relevant to w. Input order is preserved.
//
// Without a look-ahead it keeps events with Now <= Start <= EndOfDay.
// With one it keeps events starting no later than EndOfDay whose start is
// 0..LookAhead whole minutes away, or that are already in progress. An
// in-progress event is kept however long ago it started.
func Filter(events []model.Event, w Window) []model.Event {
	out := make([]model.Event, 0, len(events))
	for _, ev := range events {
		if !w.keep(ev) {
			continue
		}
		out = append(out, ev)
	}
	appLog.Debug("window filter", "in", len(events), "kept", len(out))
	return out
}

func (w Window) keep(ev model.Event) bool {
	if ev.Start.After(w.EndOfDay) {
		return false
	}
	if w.LookAhead == nil {
		return !ev.Start.Before(w.Now)
	}

	diff := floorMinutes(ev.Start.Sub(w.Now))
	if diff >= 0 && diff <= int64(*w.LookAhead) {
		return true
	}
	return ev.InProgress(w.Now)
}

// floorMinutes rounds d down to whole minutes, toward negative infinity.
func floorMinutes(d time.Duration) int64 {
	return floorDiv(int64(d), int64(time.Minute))
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
