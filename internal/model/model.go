package model

import "time"

// AttendeeKind tags how the ATTENDEE property appeared on a VEVENT.
type AttendeeKind int

const (
	AttendeesNone AttendeeKind = iota
	AttendeesSingle
	AttendeesMany
)

// Attendees is resolved once at extraction time; Count is all the
// formatter needs.
type Attendees struct {
	Kind AttendeeKind
	N    int
}

// AttendeesFromCount builds the variant from the number of ATTENDEE
// properties found on a component.
func AttendeesFromCount(n int) Attendees {
	switch {
	case n <= 0:
		return Attendees{Kind: AttendeesNone}
	case n == 1:
		return Attendees{Kind: AttendeesSingle, N: 1}
	default:
		return Attendees{Kind: AttendeesMany, N: n}
	}
}

func (a Attendees) Count() int {
	switch a.Kind {
	case AttendeesSingle:
		return 1
	case AttendeesMany:
		return a.N
	default:
		return 0
	}
}

// Event is a timed VEVENT normalized into the display timezone.
// All-day entries never become an Event.
type Event struct {
	UID string

	Summary     string
	Description string
	Location    string

	Start time.Time
	End   time.Time

	Attendees Attendees
}

// InProgress reports whether now falls inside [Start, End].
func (e Event) InProgress(now time.Time) bool {
	return !e.Start.After(now) && !now.After(e.End)
}
