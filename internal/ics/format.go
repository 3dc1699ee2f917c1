// Package ics renders the portal's class schedule as iCalendar text and
// can expand the result back into concrete occurrences for preview.
//
// The rendered text is a compatibility contract with the browser
// extension this tool replaces: importers that accepted its files must
// accept ours byte for byte, so the VEVENT template, the weekday table
// and the whitespace post-processing are reproduced exactly rather than
// delegated to a serializer library.
package ics

import (
	"strconv"
	"strings"
	"time"
)

// Timezone is the only zone the portal schedules in.
const Timezone = "America/Toronto"

// FormatDate renders the calendar date portion of an ICS date-time,
// e.g. 2015-01-22 -> "20150122". The year is emitted as-is; month and
// day are zero-padded to two digits.
func FormatDate(t time.Time) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(t.Year()))
	b.WriteString(pad2(int(t.Month())))
	b.WriteString(pad2(t.Day()))
	return b.String()
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// FormatTime converts a portal clock string ("4:30PM", "13:00") into the
// packed 24-hour ICS form ("163000"). A trailing AM/PM suffix is stripped
// before parsing; without one the input is taken to already be 24-hour.
// The PM rollover adds 120000 to the packed integer, so "12:00PM" stays
// 120000. A literal "12:00AM" is NOT normalized to midnight: the portal
// has never been observed to schedule one, and the extension emitted
// the same value, so the behavior is kept.
func FormatTime(raw string) string {
	t := raw
	suffix := ""
	if strings.HasSuffix(t, "AM") || strings.HasSuffix(t, "PM") {
		suffix = t[len(t)-2:]
		t = t[:len(t)-2]
	}

	parts := strings.Split(t, ":")
	if len(parts[0]) != 2 {
		parts[0] = "0" + parts[0]
	}
	packed := strings.Join(parts, "") + "00"

	if suffix == "PM" {
		hour, herr := strconv.Atoi(parts[0])
		n, nerr := strconv.Atoi(packed)
		if herr == nil && nerr == nil && hour < 12 {
			packed = strconv.Itoa(n + 120000)
		}
	}
	return packed
}

// FormatDateTime combines a civil date and a raw clock string into the
// ICS local date-time form, e.g. "20150122T163000".
func FormatDateTime(date time.Time, rawTime string) string {
	return FormatDate(date) + "T" + FormatTime(rawTime)
}

// dayCodes maps the portal's French weekday abbreviations to ICS BYDAY
// codes, in table order. Only these seven tokens appear in list view.
var dayCodes = []struct {
	token string
	code  string
}{
	{"Dim", "SU"},
	{"Lun", "MO"},
	{"Ma", "TU"},
	{"Mer", "WE"},
	{"J", "TH"},
	{"V", "FR"},
	{"Sa", "SA"},
}

// DaysOfWeek translates a weekday token into a comma-joined BYDAY list.
// An unrecognized token yields the empty string; the caller is expected
// to warn, since an empty BYDAY makes the recurrence rule malformed.
func DaysOfWeek(raw string) string {
	token := strings.TrimSpace(raw)
	var codes []string
	for _, d := range dayCodes {
		if token == d.token {
			codes = append(codes, d.code)
		}
	}
	return strings.Join(codes, ",")
}
