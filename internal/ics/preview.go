package ics

import (
	"bytes"
	"errors"
	"sort"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	appLog "horaire/internal/log"
)

const maxOccurrencesPerEvent = 1000

// Occurrence is one concrete class meeting after recurrence expansion.
type Occurrence struct {
	Summary  string
	Location string
	Start    time.Time
	End      time.Time
}

// ExpandCalendar parses generated calendar text back into events and
// expands each weekly rule into concrete occurrences within [from, to].
// EXDATE exclusions and the UNTIL bound are honored, so the shifted
// anchor day never appears in the result.
//
// A VEVENT that fails to parse or expand is logged and skipped; one bad
// event must not take down the preview of the rest.
func ExpandCalendar(data []byte, from, to time.Time, loc *time.Location) ([]Occurrence, error) {
	if to.Before(from) {
		return nil, errors.New("expand: window end is before window start")
	}
	if loc == nil {
		loc = time.Local
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	var out []Occurrence
	for _, ve := range cal.Events() {
		occ, eerr := expandEvent(ve, from, to, loc)
		if eerr != nil {
			appLog.Error("preview: skipping event", eerr)
			continue
		}
		out = append(out, occ...)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func expandEvent(ve *ical.VEvent, from, to time.Time, loc *time.Location) ([]Occurrence, error) {
	start, err := propTime(ve, ical.ComponentPropertyDtStart, loc)
	if err != nil {
		return nil, err
	}
	end, err := propTime(ve, ical.ComponentPropertyDtEnd, loc)
	if err != nil {
		return nil, err
	}
	duration := end.Sub(start)

	var summary, location, rawRule string
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		summary = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
		location = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		rawRule = p.Value
	}

	if rawRule == "" {
		// Non-recurring event: include it if it intersects the window.
		if end.Before(from) || start.After(to) {
			return nil, nil
		}
		return []Occurrence{{Summary: summary, Location: location, Start: start, End: end}}, nil
	}

	r, err := rrule.StrToRRule(rawRule)
	if err != nil {
		return nil, err
	}
	r.DTStart(start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range exDates(ve, loc) {
		set.ExDate(ex)
	}

	times := set.Between(from.In(start.Location()), to.In(start.Location()), true)
	if len(times) > maxOccurrencesPerEvent {
		appLog.Warn("preview: occurrence cap hit", "summary", summary, "cap", maxOccurrencesPerEvent)
		times = times[:maxOccurrencesPerEvent]
	}

	out := make([]Occurrence, 0, len(times))
	for _, t := range times {
		out = append(out, Occurrence{
			Summary:  summary,
			Location: location,
			Start:    t.In(loc),
			End:      t.Add(duration).In(loc),
		})
	}
	return out, nil
}

// propTime reads a DTSTART/DTEND property, resolving its TZID parameter
// when present and falling back to loc otherwise.
func propTime(ve *ical.VEvent, name ical.ComponentProperty, loc *time.Location) (time.Time, error) {
	p := ve.GetProperty(name)
	if p == nil {
		return time.Time{}, errors.New("missing " + string(name))
	}
	return parseICSTime(p.Value, propLocation(p.ICalParameters, loc))
}

func propLocation(params map[string][]string, fallback *time.Location) *time.Location {
	if tzs, ok := params["TZID"]; ok && len(tzs) > 0 {
		if l, err := time.LoadLocation(tzs[0]); err == nil {
			return l
		}
	}
	return fallback
}

func exDates(ve *ical.VEvent, fallback *time.Location) []time.Time {
	var out []time.Time
	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		loc := propLocation(p.ICalParameters, fallback)
		for _, part := range strings.Split(p.Value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if t, err := parseICSTime(part, loc); err == nil {
				out = append(out, t)
			}
		}
	}
	return out
}

// parseICSTime parses the three date/date-time forms our output and
// common feeds use: UTC ("...Z"), local date-time, and date-only.
func parseICSTime(v string, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		return time.Time{}, errors.New("empty time value")
	case strings.HasSuffix(v, "Z"):
		return time.Parse("20060102T150405Z", v)
	case strings.Contains(v, "T"):
		return time.ParseInLocation("20060102T150405", v, loc)
	default:
		return time.ParseInLocation("20060102", v, loc)
	}
}
