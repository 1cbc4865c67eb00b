package ics

import (
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
)

// Map of common Windows timezone names (Outlook/Exchange exports) to IANA names.
var windowsToIANA = map[string]string{
	"Pacific Standard Time":          "America/Los_Angeles",
	"Mountain Standard Time":         "America/Denver",
	"Central Standard Time":          "America/Chicago",
	"Eastern Standard Time":          "America/New_York",
	"Atlantic Standard Time":         "America/Halifax",
	"Alaskan Standard Time":          "America/Anchorage",
	"Hawaiian Standard Time":         "Pacific/Honolulu",
	"GMT Standard Time":              "Europe/London",
	"W. Europe Standard Time":        "Europe/Berlin",
	"Romance Standard Time":          "Europe/Paris",
	"Central Europe Standard Time":   "Europe/Budapest",
	"Central European Standard Time": "Europe/Warsaw",
	"E. Europe Standard Time":        "Europe/Chisinau",
	"FLE Standard Time":              "Europe/Kiev",
	"Russian Standard Time":          "Europe/Moscow",
	"India Standard Time":            "Asia/Kolkata",
	"China Standard Time":            "Asia/Shanghai",
	"Tokyo Standard Time":            "Asia/Tokyo",
	"Korea Standard Time":            "Asia/Seoul",
	"AUS Eastern Standard Time":      "Australia/Sydney",
	"UTC":                            "UTC",
}

// libicalPrefix is what Evolution (libical) puts in front of Olson names.
const libicalPrefix = "/freeassociation.sourceforge.net/"

// zones resolves TZID parameter values to locations for one calendar.
type zones struct {
	// aliases maps a VTIMEZONE TZID to its X-LIC-LOCATION.
	aliases map[string]string
	cache   map[string]*time.Location
}

func newZones(cal *ical.Calendar) *zones {
	z := &zones{
		aliases: make(map[string]string),
		cache:   make(map[string]*time.Location),
	}
	if cal == nil {
		return z
	}
	for _, comp := range cal.Components {
		tz, ok := comp.(*ical.VTimezone)
		if !ok {
			continue
		}
		id := tz.GetProperty(ical.ComponentPropertyTzid)
		lic := tz.GetProperty(ical.ComponentProperty("X-LIC-LOCATION"))
		if id == nil || lic == nil || lic.Value == "" {
			continue
		}
		z.aliases[id.Value] = lic.Value
	}
	return z
}

// lookup returns the location for tzid, or false when no candidate name
// is known to the Go zone database.
func (z *zones) lookup(tzid string) (*time.Location, bool) {
	tzid = strings.Trim(strings.TrimSpace(tzid), `"`)
	if loc, ok := z.cache[tzid]; ok {
		return loc, loc != nil
	}

	var found *time.Location
	for _, name := range candidateNames(tzid, z.aliases) {
		if loc, err := time.LoadLocation(name); err == nil {
			found = loc
			break
		}
	}
	z.cache[tzid] = found
	return found, found != nil
}

func candidateNames(tzid string, aliases map[string]string) []string {
	names := []string{tzid}
	if alias, ok := aliases[tzid]; ok {
		names = append(names, alias)
	}
	if iana, ok := windowsToIANA[tzid]; ok {
		names = append(names, iana)
	}
	if strings.HasPrefix(tzid, libicalPrefix) {
		rest := strings.TrimPrefix(tzid, libicalPrefix)
		// Older libical writes ".../Tzfile/Europe/Berlin".
		rest = strings.TrimPrefix(rest, "Tzfile/")
		names = append(names, rest)
	}
	return names
}
