package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	MinPlateLen = 4
	MaxPlateLen = 12

	MinCarYear = 1950

	minAgeYears = 16
	maxAgeYears = 100
)

var plateRe = regexp.MustCompile(`^[A-Z0-9]+$`)

// NormalizePlate trims and uppercases a plate number and reports whether
// the result is a valid plate: 4-12 characters of [A-Z0-9]. All plate
// comparison, storage and duplicate detection use the normalized form.
func NormalizePlate(raw string) (string, bool) {
	plate := strings.ToUpper(strings.TrimSpace(raw))
	if len(plate) < MinPlateLen || len(plate) > MaxPlateLen {
		return "", false
	}
	if !plateRe.MatchString(plate) {
		return "", false
	}
	return plate, true
}

// ParseBirthDate validates a birth date in DD.MM.YYYY form: strict
// grammar, calendar correctness and a plausible age range.
func ParseBirthDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)

	// time.Parse alone accepts single-digit days; require the full grammar
	if m, _ := regexp.MatchString(`^\d{2}\.\d{2}\.\d{4}$`, raw); !m {
		return time.Time{}, fmt.Errorf("invalid date format %q, expected DD.MM.YYYY", raw)
	}

	date, err := time.Parse("02.01.2006", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", raw, err)
	}

	now := time.Now()
	age := now.Year() - date.Year()
	if now.Month() < date.Month() || (now.Month() == date.Month() && now.Day() < date.Day()) {
		age--
	}
	if age < minAgeYears || age > maxAgeYears {
		return time.Time{}, fmt.Errorf("implausible age %d", age)
	}

	return date, nil
}

// ValidCarYear reports whether a model year is within the accepted range:
// no earlier than MinCarYear, no later than next calendar year.
func ValidCarYear(year int) bool {
	return year >= MinCarYear && year <= time.Now().Year()+1
}
