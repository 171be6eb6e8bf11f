package service

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	maxTeamNameLen  = 100
	maxLeagueLen    = 50
	maxSeasonLen    = 20
	maxGoals        = 50
	maxEventNameLen = 100
)

// checkText trims s and appends a field error when its rune length is outside [lo, hi].
func checkText(ferrs []FieldError, field, s string, lo, hi int) (string, []FieldError) {
	s = strings.TrimSpace(s)
	n := utf8.RuneCountInString(s)
	switch {
	case n == 0 && lo > 0:
		ferrs = append(ferrs, FieldError{Field: field, Message: "must not be empty"})
	case n < lo || n > hi:
		if lo == 0 {
			ferrs = append(ferrs, FieldError{Field: field, Message: fmt.Sprintf("length must be at most %d", hi)})
		} else {
			ferrs = append(ferrs, FieldError{Field: field, Message: fmt.Sprintf("length must be between %d and %d", lo, hi)})
		}
	}
	return s, ferrs
}

// checkGoals validates a goal count; required ones must be present.
func checkGoals(ferrs []FieldError, field string, v *int, required bool) []FieldError {
	if v == nil {
		if required {
			ferrs = append(ferrs, FieldError{Field: field, Message: "is required"})
		}
		return ferrs
	}
	if *v < 0 || *v > maxGoals {
		ferrs = append(ferrs, FieldError{Field: field, Message: fmt.Sprintf("must be between 0 and %d", maxGoals)})
	}
	return ferrs
}
