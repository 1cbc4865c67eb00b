package ics

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"meetcal/internal/apperr"
	appLog "meetcal/internal/log"
	"meetcal/internal/model"
)

// LoadFile reads and parses the calendar at path. Both failures are fatal
// for the run and come back as *apperr.Error.
func LoadFile(path string) (*ical.Calendar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.Load(path, err)
	}

	cal, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, apperr.Parse(path, err)
	}

	appLog.Debug("calendar loaded", "path", path, "bytes", len(data))
	return cal, nil
}

// Parse parses raw ICS content.
func Parse(r io.Reader) (*ical.Calendar, error) {
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, err
	}
	if cal == nil {
		return nil, errors.New("no VCALENDAR found")
	}
	return cal, nil
}

// Extract walks the VEVENTs of cal and returns the timed ones, converted
// into loc (time.Local when nil).
//
//   - All-day events (VALUE=DATE, or a DTSTART without a 'T') are skipped.
//   - Events without DTSTART, or whose DTSTART cannot be parsed, are skipped.
//   - DTEND wins; without it DURATION is added to DTSTART. Events with
//     neither are skipped rather than failing the run.
//   - TZIDs are resolved through VTIMEZONE X-LIC-LOCATION, Windows zone
//     names and the libical prefix. Floating times are read in loc.
func Extract(cal *ical.Calendar, loc *time.Location) []model.Event {
	if loc == nil {
		loc = time.Local
	}

	events := make([]model.Event, 0)
	if cal == nil {
		return events
	}

	zs := newZones(cal)
	for _, ve := range cal.Events() {
		ev, ok := extractEvent(ve, zs, loc)
		if !ok {
			continue
		}
		events = append(events, ev)
	}

	appLog.Debug("events extracted", "timed", len(events), "total", len(cal.Events()))
	return events
}

func extractEvent(ve *ical.VEvent, zs *zones, loc *time.Location) (model.Event, bool) {
	var out model.Event

	if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
		out.UID = p.Value
	}

	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil {
		appLog.Debug("skipping vevent without DTSTART", "uid", out.UID)
		return out, false
	}
	if isDateOnly(dtStart) {
		return out, false
	}

	start, err := parseDateTime(dtStart, zs, loc)
	if err != nil {
		appLog.Debug("skipping vevent with unreadable DTSTART", "uid", out.UID, "value", dtStart.Value, "err", err)
		return out, false
	}
	end, err := eventEnd(ve, start, zs, loc)
	if err != nil {
		appLog.Debug("skipping vevent without usable end", "uid", out.UID, "err", err)
		return out, false
	}

	out.Start = start.In(loc)
	out.End = end.In(loc)

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.Summary = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		out.Description = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
		out.Location = p.Value
	}

	out.Attendees = model.AttendeesFromCount(countAttendees(ve))

	return out, true
}

func eventEnd(ve *ical.VEvent, start time.Time, zs *zones, loc *time.Location) (time.Time, error) {
	if p := ve.GetProperty(ical.ComponentPropertyDtEnd); p != nil {
		return parseDateTime(p, zs, loc)
	}
	p := ve.GetProperty(ical.ComponentPropertyDuration)
	if p == nil {
		return time.Time{}, errors.New("no DTEND or DURATION")
	}
	d, err := parseDuration(p.Value)
	if err != nil {
		return time.Time{}, err
	}
	if d < 0 {
		return time.Time{}, errors.New("negative DURATION")
	}
	return start.Add(d), nil
}

// isDateOnly reports whether a DTSTART carries a date without time of day.
// Anything that does not look like a DATE-TIME is treated as all-day.
func isDateOnly(prop *ical.IANAProperty) bool {
	if params := prop.ICalParameters; params != nil {
		if vs, ok := params["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
			return true
		}
	}
	return !strings.Contains(strings.TrimSpace(prop.Value), "T")
}

func countAttendees(ve *ical.VEvent) int {
	n := 0
	for _, p := range ve.GetProperties(ical.ComponentPropertyAttendee) {
		if strings.TrimSpace(p.Value) != "" {
			n++
		}
	}
	return n
}
