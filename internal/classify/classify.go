// Package classify decides whether free-text deadline wording describes a
// mandatory filing obligation or an advisory keep-available one.
package classify

import "regexp"

// Class is the obligation classification of a deadline.
type Class string

const (
	Hard         Class = "HARD"
	Soft         Class = "SOFT"
	Unclassified Class = ""
)

// Pattern sets are package data so locale variants can extend them later.
var (
	hardPattern = regexp.MustCompile(`(?i)(submit|file|due|deadline|lodge|lodgment|upload|deliver|sign|attest|statutory|` +
		`by\s+\d|by\s+end\s+of|last\s+day\s+of|within\s+\d+\s+(day|days|month|months)\s+(after|of)\s+(fye|year|year-end))`)
	softPattern = regexp.MustCompile(`(?i)(prepare|maintain|upon\s+request|within\s+\d+\s+(day|days)\s+of\s+(audit|request|notice)|` +
		`on\s+demand|keep\s+on\s+file|produce\s+upon\s+request)`)
)

// Classify returns the obligation class for deadline text. Text matching both
// pattern sets classifies HARD: ambiguous wording is treated as a mandatory
// obligation. Text matching neither returns Unclassified so the caller can
// apply a category default.
func Classify(text string) Class {
	if text == "" {
		return Unclassified
	}
	switch {
	case hardPattern.MatchString(text):
		return Hard
	case softPattern.MatchString(text):
		return Soft
	default:
		return Unclassified
	}
}

// Or returns c, or def when c is Unclassified.
func (c Class) Or(def Class) Class {
	if c == Unclassified {
		return def
	}
	return c
}
