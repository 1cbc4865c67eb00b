package agenda

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"meetcal/internal/model"
)

// Output selects how a selection is written.
type Output string

const (
	OutputText   Output = "text"
	OutputWaybar Output = "waybar"
)

const (
	untitled      = "(no title)"
	detailHeader  = "=== UPCOMING MEETING DETAILS ==="
	detailLayout  = "2006-01-02 15:04:05-07:00"
	classFree     = "free"
	classMeeting  = "meeting"
	classPopup    = "popup"
	defaultLayout = "15:04"
)

// Settings is the immutable view of the configuration the pipeline needs.
type Settings struct {
	LookAheadMinutes int
	PopupLeadSeconds int
	FreeGlyph        string
	MeetingGlyph     string
	TimeFormat       string
	Output           Output
}

// waybarLine is the JSON shape of a waybar custom module with
// "return-type": "json".
type waybarLine struct {
	Text    string `json:"text"`
	Tooltip string `json:"tooltip"`
	Class   string `json:"class"`
	Alt     string `json:"alt"`
}

// Render writes sel to w in the configured output mode.
func Render(w io.Writer, sel Selection, s Settings) error {
	if s.Output == OutputWaybar {
		return renderWaybar(w, sel, s)
	}
	return renderText(w, sel, s)
}

// StatusLine is the single line shown in the bar.
func StatusLine(sel Selection, s Settings) string {
	if !sel.Found {
		return s.FreeGlyph
	}
	return fmt.Sprintf("%s %s %s (%d minutes)",
		s.MeetingGlyph,
		sel.Event.Start.Format(timeLayout(s)),
		summaryOf(sel.Event),
		sel.MinutesUntil,
	)
}

// Details is the expanded notice shown in the popup band.
func Details(ev model.Event) string {
	var b strings.Builder
	b.WriteString(detailHeader + "\n")
	fmt.Fprintf(&b, "Title: %s\n", summaryOf(ev))
	fmt.Fprintf(&b, "Start: %s\n", ev.Start.Format(detailLayout))
	fmt.Fprintf(&b, "End: %s\n", ev.End.Format(detailLayout))
	fmt.Fprintf(&b, "Attendees: %d\n", ev.Attendees.Count())
	b.WriteString(strings.Repeat("=", len(detailHeader)) + "\n")
	return b.String()
}

func renderText(w io.Writer, sel Selection, s Settings) error {
	if _, err := fmt.Fprintln(w, StatusLine(sel, s)); err != nil {
		return err
	}
	if sel.Found && sel.Popup {
		_, err := fmt.Fprint(w, "\n"+Details(sel.Event))
		return err
	}
	return nil
}

func renderWaybar(w io.Writer, sel Selection, s Settings) error {
	line := waybarLine{
		Text:  StatusLine(sel, s),
		Class: classFree,
	}
	line.Tooltip = line.Text
	if sel.Found {
		line.Class = classMeeting
		line.Tooltip = strings.TrimRight(Details(sel.Event), "\n")
		if sel.Popup {
			line.Class = classPopup
		}
	}
	line.Alt = line.Class

	data, err := json.Marshal(line)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// RenderToday lists the given events, one per line in start order, or
// writes the free glyph when there are none.
func RenderToday(w io.Writer, events []model.Event, s Settings) error {
	if len(events) == 0 {
		_, err := fmt.Fprintln(w, s.FreeGlyph)
		return err
	}
	layout := timeLayout(s)
	for _, ev := range SortByStart(events) {
		if _, err := fmt.Fprintf(w, "%s-%s %s\n",
			ev.Start.Format(layout), ev.End.Format(layout), summaryOf(ev)); err != nil {
			return err
		}
	}
	return nil
}

func summaryOf(ev model.Event) string {
	if strings.TrimSpace(ev.Summary) == "" {
		return untitled
	}
	return ev.Summary
}

func timeLayout(s Settings) string {
	if s.TimeFormat == "" {
		return defaultLayout
	}
	return s.TimeFormat
}
