package ics

import (
	"testing"
	"time"
)

func TestFormatDate(t *testing.T) {
	tests := []struct {
		date time.Time
		want string
	}{
		{time.Date(2015, 1, 22, 0, 0, 0, 0, time.UTC), "20150122"},
		{time.Date(2015, 12, 1, 0, 0, 0, 0, time.UTC), "20151201"},
		{time.Date(2015, 9, 9, 0, 0, 0, 0, time.UTC), "20150909"},
	}
	for _, tt := range tests {
		if got := FormatDate(tt.date); got != tt.want {
			t.Errorf("FormatDate(%v) = %q, want %q", tt.date, got, tt.want)
		}
	}
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"4:30PM", "163000"},
		{"4:30", "043000"},
		{"12:00PM", "120000"},
		{"11:59PM", "235900"},
		{"9:05AM", "090500"},
		{"10:30AM", "103000"},
		{"13:00", "130000"},
	}
	for _, tt := range tests {
		if got := FormatTime(tt.raw); got != tt.want {
			t.Errorf("FormatTime(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestFormatDateTime(t *testing.T) {
	date := time.Date(2015, 1, 22, 0, 0, 0, 0, time.UTC)
	if got, want := FormatDateTime(date, "4:30PM"), "20150122T163000"; got != want {
		t.Errorf("FormatDateTime = %q, want %q", got, want)
	}
	// Combiner is the plain concatenation of its two halves.
	if got, want := FormatDateTime(date, "8:00"), FormatDate(date)+"T"+FormatTime("8:00"); got != want {
		t.Errorf("FormatDateTime = %q, want %q", got, want)
	}
}

func TestDaysOfWeek(t *testing.T) {
	tests := []struct {
		token string
		want  string
	}{
		{"Dim", "SU"},
		{"Lun", "MO"},
		{"Ma", "TU"},
		{"Mer", "WE"},
		{"J", "TH"},
		{"V", "FR"},
		{"Sa", "SA"},
		{"Lun ", "MO"}, // extractor tokens carry a trailing space
		{"Mon", ""},    // English labels are not supported
		{"", ""},
	}
	for _, tt := range tests {
		if got := DaysOfWeek(tt.token); got != tt.want {
			t.Errorf("DaysOfWeek(%q) = %q, want %q", tt.token, got, tt.want)
		}
	}
}
