package expiry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Parallel()

	bkk, err := time.LoadLocation("Asia/Bangkok")
	require.NoError(t, err)

	tests := []struct {
		name   string
		input  string
		want   time.Time
		wantOK bool
	}{
		{
			name:   "thai short date with BE year",
			input:  "9 ส.ค. 2568",
			want:   time.Date(2025, time.August, 9, 0, 0, 0, 0, bkk),
			wantOK: true,
		},
		{
			name:   "thai full month name",
			input:  "9 สิงหาคม 2568",
			want:   time.Date(2025, time.August, 9, 0, 0, 0, 0, bkk),
			wantOK: true,
		},
		{
			name:   "thai date with gregorian year kept as-is",
			input:  "1 ม.ค. 2025",
			want:   time.Date(2025, time.January, 1, 0, 0, 0, 0, bkk),
			wantOK: true,
		},
		{
			name:   "thai december abbreviation",
			input:  "31 ธ.ค. 2568",
			want:   time.Date(2025, time.December, 31, 0, 0, 0, 0, bkk),
			wantOK: true,
		},
		{
			name:   "slash date day month year",
			input:  "09/08/2025",
			want:   time.Date(2025, time.August, 9, 0, 0, 0, 0, bkk),
			wantOK: true,
		},
		{
			name:   "slash date single digits",
			input:  "1/2/2026",
			want:   time.Date(2026, time.February, 1, 0, 0, 0, 0, bkk),
			wantOK: true,
		},
		{
			name:   "iso date",
			input:  "2025-08-09",
			want:   time.Date(2025, time.August, 9, 0, 0, 0, 0, bkk),
			wantOK: true,
		},
		{
			name:   "surrounding whitespace",
			input:  "  09/08/2025  ",
			want:   time.Date(2025, time.August, 9, 0, 0, 0, 0, bkk),
			wantOK: true,
		},
		{name: "placeholder dash", input: "-"},
		{name: "empty string", input: ""},
		{name: "unknown month token", input: "9 xx 2568"},
		{name: "slash month out of range", input: "09/13/2025"},
		{name: "slash day overflow", input: "31/02/2025"},
		{name: "garbage", input: "soon-ish"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseDate(tt.input, bkk)

			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				require.True(t, tt.want.Equal(got), "want %v, got %v", tt.want, got)
			}
		})
	}
}

func TestParseDateRFC3339(t *testing.T) {
	t.Parallel()

	bkk, err := time.LoadLocation("Asia/Bangkok")
	require.NoError(t, err)

	got, ok := ParseDate("2025-08-09T18:30:00Z", bkk)
	require.True(t, ok)
	// 18:30 UTC is already Aug 10 in Bangkok; the parsed date reflects that.
	require.True(t, time.Date(2025, time.August, 10, 0, 0, 0, 0, bkk).Equal(got))
}

func TestFromUnix(t *testing.T) {
	t.Parallel()

	bkk, err := time.LoadLocation("Asia/Bangkok")
	require.NoError(t, err)

	// 2025-08-09 12:00 Bangkok time.
	sec := time.Date(2025, time.August, 9, 12, 0, 0, 0, bkk).Unix()
	got, ok := FromUnix(sec, bkk)
	require.True(t, ok)
	require.True(t, time.Date(2025, time.August, 9, 0, 0, 0, 0, bkk).Equal(got))

	_, ok = FromUnix(0, bkk)
	require.False(t, ok)
	_, ok = FromUnix(-5, bkk)
	require.False(t, ok)
}

func TestDaysBetween(t *testing.T) {
	t.Parallel()

	loc := time.UTC
	base := time.Date(2025, time.August, 9, 0, 0, 0, 0, loc)

	tests := []struct {
		name string
		from time.Time
		to   time.Time
		want int
	}{
		{"same day", base, base, 0},
		{"tomorrow", base, base.AddDate(0, 0, 1), 1},
		{"yesterday", base, base.AddDate(0, 0, -1), -1},
		{"ignores time of day", base.Add(23 * time.Hour), base.AddDate(0, 0, 1), 1},
		{"time of day on target ignored too", base, base.AddDate(0, 0, 3).Add(5 * time.Minute), 3},
		{"far past", base, base.AddDate(0, 0, -30), -30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, DaysBetween(tt.from, tt.to))
		})
	}
}
