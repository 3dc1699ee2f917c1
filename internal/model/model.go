package model

// MeetingRecord is one class-meeting row as extracted from the portal's
// list view. All fields are the raw display strings; no normalization is
// performed beyond trimming by the extractor.
type MeetingRecord struct {
	CourseCode string // left of " - " in the group title
	CourseName string // right of " - "; empty when the title has no separator

	ClassNumber string
	Section     string
	Component   string

	DaysOfWeekRaw string // localized weekday token, e.g. "Lun"
	StartTime     string // "1:00PM", "13:00"
	EndTime       string

	StartDateText string // "MM/DD/YYYY"
	EndDateText   string // equals StartDateText for single-date meetings

	DaysTimesText string // raw "days & times" cell text, kept for the description
	DatesText     string // raw "start/end date" cell text

	Room       string
	Instructor string
}

// HasMeetingTimes reports whether both a start and an end time were
// extracted. Rows without times (e.g. "À déterminer") are not events.
func (m MeetingRecord) HasMeetingTimes() bool {
	return m.StartTime != "" && m.EndTime != ""
}

// CarryForwardIdentity fills blank ClassNumber/Section/Component fields from
// the nearest preceding record that has them. The portal only prints these
// cells on the first row of a multi-meeting section; later rows inherit.
func CarryForwardIdentity(records []MeetingRecord) {
	for i := range records {
		for j := i - 1; j >= 0; j-- {
			if records[i].ClassNumber != "" && records[i].Section != "" && records[i].Component != "" {
				break
			}
			if records[i].ClassNumber == "" {
				records[i].ClassNumber = records[j].ClassNumber
			}
			if records[i].Section == "" {
				records[i].Section = records[j].Section
			}
			if records[i].Component == "" {
				records[i].Component = records[j].Component
			}
		}
	}
}
