package ics

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "meetcal/internal/log"
)

const (
	layoutUTC      = "20060102T150405Z"
	layoutFloating = "20060102T150405"
)

// parseDateTime reads a DATE-TIME property.
//
//   - A trailing 'Z' is UTC.
//   - A TZID is resolved through zs; an unknown TZID falls back to floating.
//   - Floating values are wall-clock times in loc.
func parseDateTime(prop *ical.IANAProperty, zs *zones, loc *time.Location) (time.Time, error) {
	v := strings.TrimSpace(prop.Value)
	if v == "" {
		return time.Time{}, errors.New("empty date-time value")
	}
	if strings.HasSuffix(v, "Z") {
		return time.Parse(layoutUTC, v)
	}

	in := loc
	if tzid := paramValue(prop, "TZID"); tzid != "" {
		if tzLoc, ok := zs.lookup(tzid); ok {
			in = tzLoc
		} else {
			appLog.Debug("unknown TZID, reading as floating time", "tzid", tzid, "value", v)
		}
	}
	return time.ParseInLocation(layoutFloating, v, in)
}

func paramValue(prop *ical.IANAProperty, name string) string {
	if prop.ICalParameters == nil {
		return ""
	}
	if vs, ok := prop.ICalParameters[name]; ok && len(vs) > 0 {
		return vs[0]
	}
	return ""
}

var durationPattern = regexp.MustCompile(`^([+-])?P(?:(\d+)W)?(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// parseDuration parses an iCalendar DURATION such as "PT15M", "P1DT2H" or
// "-PT5M".
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	m := durationPattern.FindStringSubmatch(s)
	if m == nil || strings.HasSuffix(s, "P") || strings.HasSuffix(s, "T") {
		return 0, fmt.Errorf("invalid duration %q", s)
	}

	units := []time.Duration{7 * 24 * time.Hour, 24 * time.Hour, time.Hour, time.Minute, time.Second}
	var d time.Duration
	for i, unit := range units {
		part := m[i+2]
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q: %w", s, err)
		}
		d += time.Duration(n) * unit
	}
	if m[1] == "-" {
		d = -d
	}
	return d, nil
}
