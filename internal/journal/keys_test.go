package journal

import (
	"testing"
	"time"
)

func TestKey(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want string
	}{
		{
			name: "afternoon",
			date: time.Date(2026, time.August, 25, 14, 30, 0, 0, time.UTC),
			want: "AUG_25_14.30",
		},
		{
			name: "early morning single digits pad",
			date: time.Date(2026, time.January, 28, 7, 5, 0, 0, time.UTC),
			want: "JAN_28_07.05",
		},
		{
			name: "midnight first of month",
			date: time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC),
			want: "DEC_01_00.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Key(tt.date); got != tt.want {
				t.Errorf("Key(%v) = %q, want %q", tt.date, got, tt.want)
			}
		})
	}
}

func TestKeyParseRoundTrip(t *testing.T) {
	dates := []time.Time{
		time.Date(2026, time.August, 25, 14, 30, 0, 0, time.UTC),
		time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.February, 29, 23, 59, 0, 0, time.UTC),
		time.Date(2025, time.July, 4, 12, 1, 0, 0, time.UTC),
	}

	for _, date := range dates {
		key := Key(date)
		parts, err := ParseKey(key)
		if err != nil {
			t.Fatalf("ParseKey(%q) error = %v", key, err)
		}

		if parts.Month != date.Month() || parts.Day != date.Day() ||
			parts.Hour != date.Hour() || parts.Minute != date.Minute() {
			t.Errorf("ParseKey(Key(%v)) = %+v, fields do not round-trip", date, parts)
		}
		if parts.Seq != 1 {
			t.Errorf("Seq = %d, want 1 for base key", parts.Seq)
		}

		if got := parts.Date(date.Year(), time.UTC); !got.Equal(date) {
			t.Errorf("Date() = %v, want %v", got, date)
		}
	}
}

func TestParseKeyCollisionSuffix(t *testing.T) {
	parts, err := ParseKey("AUG_25_14.30_2")
	if err != nil {
		t.Fatalf("ParseKey() error = %v", err)
	}
	if parts.Seq != 2 {
		t.Errorf("Seq = %d, want 2", parts.Seq)
	}
	if parts.Month != time.August || parts.Day != 25 || parts.Hour != 14 || parts.Minute != 30 {
		t.Errorf("parts = %+v, timestamp fields wrong", parts)
	}
}

func TestParseKeyInvalid(t *testing.T) {
	stems := []string{
		"",
		"README",
		"aug_25_14.30",
		"AUG_25_1430",
		"AUG-25-14.30",
		"XXX_25_14.30",
		"AUG_00_14.30",
		"AUG_32_14.30",
		"AUG_25_24.30",
		"AUG_25_14.60",
		"AUG_25_14.30_0",
		"AUG_25_14.30_1",
		"AUG_25_14.30_",
	}

	for _, stem := range stems {
		if _, err := ParseKey(stem); err == nil {
			t.Errorf("ParseKey(%q) expected error, got nil", stem)
		}
	}
}
