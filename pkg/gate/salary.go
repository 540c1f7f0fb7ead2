package gate

import (
	"regexp"
	"strconv"
	"strings"
)

// Yearly figures are tried before hourly ones; within each class the first
// matching pattern wins. Ranges compare on the lower bound.
var yearlyPatterns = []struct {
	re    *regexp.Regexp
	scale int
}{
	{regexp.MustCompile(`£\s*(\d{1,3}(?:,\d{3})*)\s*(?:per\s+year|annually|/year|p\.a\.)`), 1},
	{regexp.MustCompile(`£\s*(\d{2,3})k\s*(?:per\s+year|annually|/year|p\.a\.)`), 1000},
	{regexp.MustCompile(`£\s*(\d{2,3})k\b`), 1000},
	{regexp.MustCompile(`(\d{1,3}(?:,\d{3})*)\s*£\s*(?:per\s+year|annually|/year|p\.a\.)`), 1},
	{regexp.MustCompile(`salary.*?£\s*(\d{1,3}(?:,\d{3})*)`), 1},
	{regexp.MustCompile(`£\s*(\d{1,3}(?:,\d{3})*)\s*-\s*£\s*(\d{1,3}(?:,\d{3})*)`), 1},
}

var hourlyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`£\s*(\d{1,3}(?:\.\d{2})?)\s*(?:per\s+hour|/hour|hourly)`),
	regexp.MustCompile(`(\d{1,3}(?:\.\d{2})?)\s*£\s*(?:per\s+hour|/hour|hourly)`),
}

// ParseSalary scans free job-description text for a salary figure.
// It returns (yearly, 0) for yearly figures, (0, hourly) for hourly ones and
// (0, 0) when nothing parseable is found.
func ParseSalary(description string) (yearly int, hourly float64) {
	text := strings.ToLower(description)

	for _, p := range yearlyPatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
		if err != nil {
			continue
		}
		return n * p.scale, 0
	}

	for _, re := range hourlyPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		f, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		return 0, f
	}

	return 0, 0
}

// MeetsRequirement compares a parsed figure against the configured minimums.
// Absence of a figure counts as meeting the requirement: absence of evidence
// is not evidence of ineligibility.
func MeetsRequirement(yearly int, hourly float64, minYearly int, minHourly float64) bool {
	if yearly > 0 {
		return yearly >= minYearly
	}
	if hourly > 0 {
		return hourly >= minHourly
	}
	return true
}
