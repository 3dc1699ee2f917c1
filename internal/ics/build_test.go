package ics

import (
	"strings"
	"testing"

	"horaire/internal/model"
)

func sampleRecord() model.MeetingRecord {
	return model.MeetingRecord{
		CourseCode:    "IFT1015",
		CourseName:    "Programmation 1",
		ClassNumber:   "1234",
		Section:       "A101",
		Component:     "TH",
		DaysOfWeekRaw: "Lun",
		StartTime:     "1:00PM",
		EndTime:       "2:20PM",
		StartDateText: "01/05/2015",
		EndDateText:   "04/10/2015",
		DaysTimesText: "Lun 1:00PM - 2:20PM",
		DatesText:     "01/05/2015 - 04/10/2015",
		Room:          "Pav. Roger-Gaudry S-142",
		Instructor:    "Jean Untel",
	}
}

func TestBuildEvent(t *testing.T) {
	block := BuildEvent(sampleRecord(), Timezone)

	// The event is anchored one day before the nominal start and that
	// anchor is excluded again; UNTIL is one day after the nominal end.
	for _, want := range []string{
		"BEGIN:VEVENT",
		"DTSTART;TZID=America/Toronto:20150104T130000",
		"DTEND;TZID=America/Toronto:20150104T142000",
		"RRULE:FREQ=WEEKLY;UNTIL=20150411T142000Z;BYDAY=MO",
		"EXDATE;TZID=America/Toronto:20150104T130000",
		"LOCATION:Pav. Roger-Gaudry S-142",
		"SUMMARY:IFT1015 (TH)",
		`Nom du cours: Programmation 1\n`,
		`Numéro du cours: 1234\n`,
		"END:VEVENT",
	} {
		if !strings.Contains(block, want) {
			t.Errorf("event block missing %q:\n%s", want, block)
		}
	}
}

func TestBuildEventSingleDateMeeting(t *testing.T) {
	rec := sampleRecord()
	// One-day meetings (e.g. exams) carry the same start and end date.
	rec.StartDateText = "04/30/2015"
	rec.EndDateText = "04/30/2015"

	block := BuildEvent(rec, Timezone)
	if !strings.Contains(block, "DTSTART;TZID=America/Toronto:20150429T130000") {
		t.Errorf("expected DTSTART on 20150429:\n%s", block)
	}
	if !strings.Contains(block, "UNTIL=20150501T142000Z") {
		t.Errorf("expected UNTIL on 20150501:\n%s", block)
	}
}

func TestBuildEventCollapsesWhitespace(t *testing.T) {
	rec := sampleRecord()
	rec.Room = "Salle  B-1234"
	rec.DaysTimesText = "Lun   1:00PM - 2:20PM"

	block := BuildEvent(rec, Timezone)
	if strings.Contains(block, "  ") {
		t.Errorf("block still contains a whitespace run:\n%s", block)
	}
	if !strings.Contains(block, "LOCATION:Salle B-1234") {
		t.Errorf("double space in room was not collapsed:\n%s", block)
	}
	if !strings.Contains(block, "Jour/Heures: Lun 1:00PM - 2:20PM") {
		t.Errorf("whitespace run in description was not collapsed:\n%s", block)
	}
}

func TestBuildEventUnknownWeekday(t *testing.T) {
	rec := sampleRecord()
	rec.DaysOfWeekRaw = "Mon"

	// English tokens produce an empty BYDAY; the block must still render.
	block := BuildEvent(rec, Timezone)
	if !strings.Contains(block, "BYDAY=\n") {
		t.Errorf("expected empty BYDAY:\n%s", block)
	}
}

func TestBuildCalendar(t *testing.T) {
	first := sampleRecord()
	second := sampleRecord()
	second.CourseCode = "MAT1600"
	second.DaysOfWeekRaw = "Mer"
	second.DaysTimesText = "Mer 8:30AM - 9:50AM"
	second.StartTime = "8:30AM"
	second.EndTime = "9:50AM"

	calendar, count := BuildCalendar([]model.MeetingRecord{first, second}, Timezone)
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}
	if got := strings.Count(calendar, "BEGIN:VEVENT"); got != 2 {
		t.Errorf("calendar contains %d VEVENT blocks, want 2", got)
	}
	if !strings.HasPrefix(calendar, "BEGIN:VCALENDAR\nVERSION:2.0\nPRODID:") {
		t.Errorf("calendar missing envelope header:\n%s", calendar[:60])
	}
	if !strings.HasSuffix(calendar, "END:VCALENDAR\n") {
		t.Errorf("calendar missing envelope trailer")
	}

	// Events appear in input order.
	if strings.Index(calendar, "SUMMARY:IFT1015") > strings.Index(calendar, "SUMMARY:MAT1600") {
		t.Errorf("events out of input order")
	}
}

func TestBuildCalendarSkipsRecordsWithoutTimes(t *testing.T) {
	rec := sampleRecord()
	rec.StartTime = ""
	rec.EndTime = ""
	rec.DaysTimesText = "À déterminer"

	calendar, count := BuildCalendar([]model.MeetingRecord{rec}, Timezone)
	if count != 0 {
		t.Fatalf("count = %d, want 0", count)
	}
	if strings.Contains(calendar, "VEVENT") {
		t.Errorf("calendar should contain no VEVENT blocks:\n%s", calendar)
	}
}

func TestBuildCalendarEmpty(t *testing.T) {
	calendar, count := BuildCalendar(nil, "")
	if count != 0 {
		t.Fatalf("count = %d, want 0", count)
	}
	want := "BEGIN:VCALENDAR\nVERSION:2.0\nPRODID:" + prodID + "\nEND:VCALENDAR\n"
	if calendar != want {
		t.Errorf("empty calendar = %q, want %q", calendar, want)
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Jean Tremblay", "jean-tremblay-umontreal-class-schedule.ics"},
		{"p1234567", "p1234567-umontreal-class-schedule.ics"},
	}
	for _, tt := range tests {
		if got := FileName(tt.name); got != tt.want {
			t.Errorf("FileName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
