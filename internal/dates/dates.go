// Package dates resolves calendar months from free-text deadline wording and
// provides the date arithmetic used for fiscal-year-end-relative deadlines.
// It is deliberately pattern-based, not a general date parser: text matching
// none of its patterns resolves to nothing rather than a guess.
package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	monthRe = regexp.MustCompile(`(?i)\b(` +
		`jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|` +
		`jul(?:y)?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|` +
		`nov(?:ember)?|dec(?:ember)?` +
		`)\b`)
	dayMonthRe   = regexp.MustCompile(`\b([0-3]?\d)\s*[/\-.]\s*(0?[1-9]|1[0-2])\b`)
	relMonthsRe  = regexp.MustCompile(`(\d+)\s*(?:month|months)\s+after\s+(?:fye|fy-?end|year[-\s]?end)`)
	dec31Re      = regexp.MustCompile(`\b31\s*[/\-.]\s*12\b`)
	monthNumbers = map[string]int{
		"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
		"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
	}
)

// ParseFYE parses a fiscal-year-end in ISO form (2025-12-31).
func ParseFYE(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// MonthFromText resolves a calendar month (1-12) from deadline text. A zero
// fye disables the fiscal-year-end-relative rules. Resolution order, first
// match wins:
//
//  1. "upon request" / "not applicable" wording is undated
//  2. a month name or standard abbreviation
//  3. a numeric day/month date (DD/MM, DD-MM, DD.MM)
//  4. "N months after year-end", resolved against fye
//  5. a bare year-end reference, resolved to fye's month
//  6. a literal 31/12
func MonthFromText(text string, fye time.Time) (int, bool) {
	if text == "" {
		return 0, false
	}
	t := strings.ToLower(text)

	// Keeps undated obligations out of January.
	if strings.Contains(t, "upon request") || strings.Contains(t, "not applicable") {
		return 0, false
	}

	if m := monthRe.FindString(t); m != "" {
		return monthNumbers[m[:3]], true
	}

	if m := dayMonthRe.FindStringSubmatch(t); m != nil {
		n, _ := strconv.Atoi(m[2])
		return n, true
	}

	if m := relMonthsRe.FindStringSubmatch(t); m != nil && !fye.IsZero() {
		offset, _ := strconv.Atoi(m[1])
		return (int(fye.Month())-1+offset)%12 + 1, true
	}

	if !fye.IsZero() {
		for _, marker := range []string{"year-end", "year end", "fy-end", "fy end"} {
			if strings.Contains(t, marker) {
				return int(fye.Month()), true
			}
		}
	}

	if dec31Re.MatchString(t) {
		return 12, true
	}

	return 0, false
}

// MonthAbbr returns the three-letter month name for 1-12, "" otherwise.
func MonthAbbr(m int) string {
	if m < 1 || m > 12 {
		return ""
	}
	return time.Month(m).String()[:3]
}

// AddOffset adds months then days to a date. Month addition clamps to the
// last day of the target month instead of rolling over, so Jan 31 + 1 month
// is Feb 28 (or 29), matching how filing offsets are stated.
func AddOffset(t time.Time, months, days int) time.Time {
	y, m, d := t.Date()
	mm := int(m) - 1 + months
	y += mm / 12
	mm %= 12
	if mm < 0 {
		mm += 12
		y--
	}
	month := time.Month(mm + 1)
	if last := daysIn(y, month); d > last {
		d = last
	}
	return time.Date(y, month, d, 0, 0, 0, 0, t.Location()).AddDate(0, 0, days)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
