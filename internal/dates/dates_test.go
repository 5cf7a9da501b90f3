package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fye(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseFYE(s)
	require.NoError(t, err)
	return d
}

func TestMonthFromText(t *testing.T) {
	dec := fye(t, "2025-12-31")
	jun := fye(t, "2025-06-30")

	tests := []struct {
		name  string
		text  string
		fye   time.Time
		want  int
		found bool
	}{
		{"month name full", "due by March 31", dec, 3, true},
		{"month name abbr", "by end of Sep", dec, 9, true},
		{"sept abbreviation", "Sept 15 filing", dec, 9, true},
		{"day/month numeric", "submit by 30/06", dec, 6, true},
		{"day-month dashed", "15-09 at the latest", dec, 9, true},
		{"upon request undated", "Upon request within 30 days", dec, 0, false},
		{"not applicable undated", "Not applicable for SMEs", dec, 0, false},
		{"relative months dec fye", "9 months after year-end", dec, 9, true},
		{"relative months wraps", "9 months after year-end", jun, 3, true},
		{"relative months fye marker", "6 months after FYE", dec, 6, true},
		{"relative without fye", "9 months after year end", time.Time{}, 0, false},
		{"bare year-end", "by fiscal year-end", dec, 12, true},
		{"bare year-end june", "at year end", jun, 6, true},
		{"bare year-end without fye", "at year-end", time.Time{}, 0, false},
		{"literal 31/12", "31/12 each year", time.Time{}, 12, true},
		{"no pattern", "see local guidance", dec, 0, false},
		{"empty", "", dec, 0, false},
		// day-based offsets after FYE do not resolve to a month
		{"days after fye", "Submit within 30 days after FYE", dec, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := MonthFromText(tt.text, tt.fye)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, m)
			if ok {
				assert.GreaterOrEqual(t, m, 1)
				assert.LessOrEqual(t, m, 12)
			}
		})
	}
}

func TestMonthAbbr(t *testing.T) {
	assert.Equal(t, "Jan", MonthAbbr(1))
	assert.Equal(t, "Jun", MonthAbbr(6))
	assert.Equal(t, "Dec", MonthAbbr(12))
	assert.Equal(t, "", MonthAbbr(0))
	assert.Equal(t, "", MonthAbbr(13))
}

func TestAddOffset(t *testing.T) {
	d := func(s string) time.Time { return fye(t, s) }

	assert.Equal(t, d("2025-03-31"), AddOffset(d("2024-12-31"), 3, 0))
	assert.Equal(t, d("2025-02-28"), AddOffset(d("2025-01-31"), 1, 0), "clamps, no rollover")
	assert.Equal(t, d("2024-02-29"), AddOffset(d("2024-01-31"), 1, 0), "leap year clamp")
	assert.Equal(t, d("2025-07-30"), AddOffset(d("2024-12-31"), 6, 30))
	assert.Equal(t, d("2024-09-30"), AddOffset(d("2024-12-31"), -3, 0), "negative months")
	assert.Equal(t, d("2024-12-31"), AddOffset(d("2024-12-31"), 0, 0))
}
