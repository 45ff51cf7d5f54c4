package extraction

import (
	"testing"
	"time"
)

// wednesday 固定参考时间：2024-01-24 周三
var wednesday = time.Date(2024, 1, 24, 12, 0, 0, 0, time.UTC)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"iso format", "2024-01-25", "2024-01-25"},
		{"us slash format", "01/25/2024", "2024-01-25"},
		{"day month year", "25 January 2024", "2024-01-25"},
		{"ordinal suffix", "25th January 2024", "2024-01-25"},
		{"month day year", "January 25, 2024", "2024-01-25"},
		{"abbreviated month", "Jan 25 2024", "2024-01-25"},
		{"garbage falls back to default", "not a date", "2024-01-25"}, // 周三的下一个工作日是周四
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeDate(tt.input, wednesday); got != tt.want {
				t.Errorf("NormalizeDate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeTime(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"24h format", "14:30", "14:30"},
		{"12h with pm", "2:30 PM", "14:30"},
		{"12h lowercase", "2:30 pm", "14:30"},
		{"hour only pm", "3 PM", "15:00"},
		{"hour only no space", "3PM", "15:00"},
		{"morning", "09:15", "09:15"},
		{"garbage falls back", "sometime", "10:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeTime(tt.input); got != tt.want {
				t.Errorf("NormalizeTime(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDefaultDateSkipsWeekend(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{"wednesday to thursday", wednesday, "2024-01-25"},
		{"friday to monday", time.Date(2024, 1, 26, 9, 0, 0, 0, time.UTC), "2024-01-29"},
		{"saturday to monday", time.Date(2024, 1, 27, 9, 0, 0, 0, time.UTC), "2024-01-29"},
		{"sunday to monday", time.Date(2024, 1, 28, 9, 0, 0, 0, time.UTC), "2024-01-29"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultDate(tt.now); got != tt.want {
				t.Errorf("DefaultDate(%v) = %q, want %q", tt.now, got, tt.want)
			}
		})
	}
}
