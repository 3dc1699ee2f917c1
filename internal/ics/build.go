package ics

import (
	"regexp"
	"strings"
	"time"

	appLog "horaire/internal/log"
	"horaire/internal/model"
)

const prodID = "-//horaire//UdeM Schedule Exporter//EN"

// ContentType is the MIME type the .ics file is delivered under.
const ContentType = "text/calendar; charset=UTF-8"

// dateTextLayout matches the portal's MM/DD/YYYY date cells. The portal
// keeps US field ordering even under the French locale.
const dateTextLayout = "01/02/2006"

var multiWhitespace = regexp.MustCompile(`\s{2,}`)

// BuildEvent renders one meeting as a VEVENT block.
//
// The event is anchored one civil day before the nominal start date and
// excluded again via EXDATE, so the weekly rule never fires on the shifted
// date yet aligns correctly with BYDAY. UNTIL is one day after the nominal
// end date: the field only accepts UTC, and Toronto is always behind UTC,
// so the widened bound cannot admit an extra occurrence.
//
// As a final step every run of two or more whitespace characters in the
// block collapses to a single space, including runs introduced by blank
// fields; files must stay byte-compatible with the extension's output.
func BuildEvent(rec model.MeetingRecord, tz string) string {
	startDate := parseDateText(rec.StartDateText).AddDate(0, 0, -1)
	endDate := parseDateText(rec.EndDateText).AddDate(0, 0, 1)

	byDay := DaysOfWeek(rec.DaysOfWeekRaw)
	if byDay == "" {
		appLog.Warn("weekday token not recognized, BYDAY will be empty",
			"token", rec.DaysOfWeekRaw, "course", rec.CourseCode)
	}

	block := "BEGIN:VEVENT\n" +
		"DTSTART;TZID=" + tz + ":" + FormatDateTime(startDate, rec.StartTime) + "\n" +
		"DTEND;TZID=" + tz + ":" + FormatDateTime(startDate, rec.EndTime) + "\n" +
		"LOCATION:" + rec.Room + "\n" +
		"RRULE:FREQ=WEEKLY;UNTIL=" + FormatDateTime(endDate, rec.EndTime) + "Z;BYDAY=" + byDay + "\n" +
		"EXDATE;TZID=" + tz + ":" + FormatDateTime(startDate, rec.StartTime) + "\n" +
		"SUMMARY:" + rec.CourseCode + " (" + rec.Component + ")\n" +
		"DESCRIPTION:" +
		`Nom du cours: ` + rec.CourseName + `\n` +
		`Section: ` + rec.Section + `\n` +
		`Instructeur: ` + rec.Instructor + `\n` +
		`Volet: ` + rec.Component + `\n` +
		`Numéro du cours: ` + rec.ClassNumber + `\n` +
		`Jour/Heures: ` + rec.DaysTimesText + `\n` +
		`Dates de début/fin: ` + rec.DatesText + `\n` +
		`Lieu: ` + rec.Room + `\n` + "\n" +
		"END:VEVENT\n"

	return multiWhitespace.ReplaceAllString(block, " ")
}

// BuildCalendar renders all valid meetings, in input order, into a full
// VCALENDAR. Records lacking a start or end time are skipped silently;
// they are rows without a scheduled meeting, not errors.
func BuildCalendar(records []model.MeetingRecord, tz string) (string, int) {
	if tz == "" {
		tz = Timezone
	}

	var blocks strings.Builder
	count := 0
	for _, rec := range records {
		if !rec.HasMeetingTimes() {
			appLog.Debug("skipping meeting without times",
				"course", rec.CourseCode, "section", rec.Section)
			continue
		}
		blocks.WriteString(BuildEvent(rec, tz))
		count++
	}

	cal := "BEGIN:VCALENDAR\n" +
		"VERSION:2.0\n" +
		"PRODID:" + prodID + "\n" +
		blocks.String() +
		"END:VCALENDAR\n"
	return cal, count
}

// FileName derives the download file name from the portal's displayed
// username: lowercased, spaces replaced with dashes.
func FileName(displayName string) string {
	handle := strings.ToLower(displayName)
	handle = strings.ReplaceAll(handle, " ", "-")
	return handle + "-umontreal-class-schedule.ics"
}

// parseDateText parses an MM/DD/YYYY cell as a civil date. Malformed text
// yields the zero date: per the error-handling policy, garbage upstream
// markup flows into the output instead of aborting the export.
func parseDateText(s string) time.Time {
	t, err := time.Parse(dateTextLayout, strings.TrimSpace(s))
	if err != nil {
		appLog.Warn("unparseable meeting date", "text", s)
		return time.Time{}
	}
	return t
}
