// Package scrape extracts class meetings from the portal's rendered
// schedule page. The selectors are tied to one institution's PeopleSoft
// markup in list view; this is deliberate and not a general HTML parser.
package scrape

import (
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	appLog "horaire/internal/log"
	"horaire/internal/model"
)

// TransactionTitle is the page title shown on the class schedule tab.
// The portal only renders French labels.
const TransactionTitle = "Votre horaire cours"

// listViewRadio is the radio control that selects list view; the export
// only makes sense when it is checked.
const listViewRadio = `input[name="DERIVED_REGFRM1_SSR_SCHED_FORMAT$258$"][value="L"]`

var (
	timePattern = regexp.MustCompile(`\d\d?:\d\d([AP]M)?`)
	datePattern = regexp.MustCompile(`\d{2}/\d{2}/\d{4}`)
	// dayToken matches the leading weekday abbreviation of a
	// "days & times" cell, e.g. the "Mer" of "Mer 13:30 - 14:20".
	dayToken = regexp.MustCompile(`^[A-Za-z]*`)
)

// Schedule is everything the exporter needs from one rendered page.
type Schedule struct {
	Records     []model.MeetingRecord
	StudentName string // displayed username, as-is

	Title    string // transaction title text
	ListView bool   // list view radio checked
}

// Triggered reports whether the page is the class schedule tab in list
// view. Callers must not export from any other page state.
func (s *Schedule) Triggered() bool {
	return s.Title == TransactionTitle && s.ListView
}

// Parse reads a rendered schedule page and extracts all meeting rows in
// document order. Rows without meeting times are kept; the calendar
// builder skips them.
func Parse(r io.Reader) (*Schedule, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	s := &Schedule{
		Title:       strings.TrimSpace(doc.Find(".PATRANSACTIONTITLE").First().Text()),
		StudentName: strings.TrimSpace(doc.Find(".gh-username").First().Text()),
	}
	if radio := doc.Find(listViewRadio); radio.Length() > 0 {
		_, s.ListView = radio.Attr("checked")
	}

	doc.Find(".PSGROUPBOXWBO").Each(func(_ int, group *goquery.Selection) {
		title := strings.TrimSpace(group.Find(".PAGROUPDIVIDER").First().Text())
		courseCode, courseName, _ := strings.Cut(title, " - ")

		var rows []model.MeetingRecord
		group.Find(".PSLEVEL3GRID tr").Each(func(_ int, row *goquery.Selection) {
			rows = append(rows, parseRow(row, courseCode, courseName))
		})

		// Identity cells are only printed on the first row of a section;
		// later rows inherit from the nearest complete predecessor.
		model.CarryForwardIdentity(rows)
		s.Records = append(s.Records, rows...)
	})

	appLog.Debug("schedule parsed",
		"title", s.Title, "list_view", s.ListView, "rows", len(s.Records))
	return s, nil
}

func parseRow(row *goquery.Selection, courseCode, courseName string) model.MeetingRecord {
	rec := model.MeetingRecord{
		CourseCode:  courseCode,
		CourseName:  courseName,
		ClassNumber: cellText(row, `span[id*='DERIVED_CLS_DTL_CLASS_NBR']`),
		Section:     cellText(row, `a[id*='MTG_SECTION']`),
		Component:   cellText(row, `span[id*='MTG_COMP']`),
		Room:        cellText(row, `span[id*='MTG_LOC']`),
		Instructor:  cellText(row, `span[id*='DERIVED_CLS_DTL_SSR_INSTR_LONG']`),
	}

	rec.DaysTimesText = cellText(row, `span[id*='MTG_SCHED']`)
	if times := timePattern.FindAllString(rec.DaysTimesText, -1); len(times) >= 2 {
		rec.StartTime = times[0]
		rec.EndTime = times[1]
		rec.DaysOfWeekRaw = dayToken.FindString(rec.DaysTimesText)
	}

	rec.DatesText = cellText(row, `span[id*='MTG_DATES']`)
	if dates := datePattern.FindAllString(rec.DatesText, -1); len(dates) > 0 {
		rec.StartDateText = dates[0]
		// A single date means a one-day meeting, e.g. an exam.
		rec.EndDateText = dates[0]
		if len(dates) > 1 {
			rec.EndDateText = dates[1]
		}
	}

	return rec
}

func cellText(row *goquery.Selection, selector string) string {
	return strings.TrimSpace(row.Find(selector).First().Text())
}
