package resolver

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// MaxDays caps any parsed window at 100 years.
const MaxDays = 36500

var durationPattern = regexp.MustCompile(`(?i)(\d+)\s*(day|week|month|year)s?`)

var unitDays = map[string]int{
	"day":   1,
	"week":  7,
	"month": 30,
	"year":  365,
}

// ParseDays converts the last "<n> day|week|month|year(s)" phrase in query into days.
// Weeks are 7 days, months 30, years 365. No phrase (or n == 0) yields defaultDays.
// Windows longer than MaxDays are clamped to MaxDays.
func ParseDays(query string, defaultDays int) int {
	matches := durationPattern.FindAllStringSubmatch(query, -1)
	if len(matches) == 0 {
		return defaultDays
	}
	m := matches[len(matches)-1]
	mult := unitDays[strings.ToLower(m[2])]

	n, err := strconv.Atoi(m[1])
	if errors.Is(err, strconv.ErrRange) {
		return MaxDays
	}
	if err != nil || n <= 0 {
		return defaultDays
	}
	if n > MaxDays/mult {
		return MaxDays
	}
	return n * mult
}
