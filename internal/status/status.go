// Package status runs the load → extract → filter → select → render
// pipeline once, or repeatedly on a cron schedule.
package status

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"meetcal/internal/agenda"
	"meetcal/internal/ics"
	appLog "meetcal/internal/log"
	"meetcal/internal/notify"
)

// Options is everything a run needs. It is built once at startup and
// passed by value.
type Options struct {
	CalendarPath string
	Location     *time.Location
	Settings     agenda.Settings
	Notifier     notify.Notifier
}

// Run evaluates the calendar once at now and writes the result to w.
// Load and parse failures are returned before anything is written.
func Run(ctx context.Context, opts Options, now time.Time, w io.Writer) (agenda.Selection, error) {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)

	cal, err := ics.LoadFile(opts.CalendarPath)
	if err != nil {
		return agenda.Selection{}, err
	}
	events := ics.Extract(cal, loc)

	s := opts.Settings
	window := agenda.NewWindow(now, agenda.Minutes(s.LookAheadMinutes))
	upcoming := agenda.Filter(events, window)
	sel := agenda.Select(upcoming, now, s.LookAheadMinutes, s.PopupLeadSeconds)

	if err := agenda.Render(w, sel, s); err != nil {
		return sel, fmt.Errorf("write status: %w", err)
	}

	if sel.Found {
		appLog.Debug("meeting selected",
			"summary", sel.Event.Summary,
			"seconds_until", sel.SecondsUntil,
			"popup", sel.Popup,
		)
	}
	if sel.Popup && opts.Notifier != nil {
		body := strings.TrimRight(agenda.Details(sel.Event), "\n")
		if sel.Event.Location != "" {
			body += "\nLocation: " + sel.Event.Location
		}
		if err := opts.Notifier.Send(ctx, sel.Event.Summary, body); err != nil {
			appLog.Error("notification failed", err, "summary", sel.Event.Summary)
		}
	}

	return sel, nil
}

// Today writes the timed events left today (start between now and end of
// day) in start order.
func Today(opts Options, now time.Time, w io.Writer) error {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)

	cal, err := ics.LoadFile(opts.CalendarPath)
	if err != nil {
		return err
	}
	remaining := agenda.Filter(ics.Extract(cal, loc), agenda.NewWindow(now, nil))
	return agenda.RenderToday(w, remaining, opts.Settings)
}
