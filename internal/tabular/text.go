package tabular

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	sepRe = regexp.MustCompile(`\s*[|;]\s*`)
	// pandas leaves NaN markers behind in exported cells
	naLiterals = map[string]struct{}{"nan": {}, "none": {}, "<na>": {}}
)

// Clean trims a raw cell value and maps NaN-style placeholders to "".
func Clean(s string) string {
	s = strings.TrimSpace(s)
	if _, ok := naLiterals[strings.ToLower(s)]; ok {
		return ""
	}
	return s
}

// SplitMulti breaks a multi-value cell on | and ; separators, trimming
// leading/trailing dashes and whitespace from each part and dropping blanks.
func SplitMulti(text string) []string {
	if text == "" {
		return nil
	}
	var parts []string
	for _, p := range sepRe.Split(text, -1) {
		p = strings.Trim(p, " -–—\t")
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// AsInt coerces a cell to an integer, accepting float spellings ("3.0").
// Malformed or blank values coerce to nil, never an error.
func AsInt(s string) *int {
	s = Clean(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	n := int(f)
	return &n
}

// AsFloat coerces a cell to a float. Malformed or blank values coerce to nil.
func AsFloat(s string) *float64 {
	s = Clean(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// IsYes reports whether a cell holds an affirmative marker.
func IsYes(s string) bool {
	switch strings.ToLower(Clean(s)) {
	case "yes", "y", "true", "1":
		return true
	}
	return false
}

// IsNo reports whether a cell holds an explicit negative marker.
func IsNo(s string) bool {
	switch strings.ToLower(Clean(s)) {
	case "no", "n", "n/a", "false", "0":
		return true
	}
	return false
}
