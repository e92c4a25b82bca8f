package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// Range is an extracted laboratory reference interval.
type Range struct {
	Low      float64
	High     float64
	Units    string
	AgeGroup string
}

// CriticalValue holds critical (panic) thresholds; either side may be
// absent.
type CriticalValue struct {
	Low  *float64
	High *float64
}

// Numeric ranges appear as "13.8-17.2 g/dL" or "13.8 to 17.2 g/dL"; both
// forms are supported and tried in that order. The unit token must follow
// immediately ([a-zA-Z/%µ] characters, optionally with a power-of-ten
// suffix like 10^9/L).
var labRangePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+(?:\.\d+)?)\s*[-–]\s*(\d+(?:\.\d+)?)\s*([a-zA-Zµ/%][a-zA-Zµ/%0-9^]*)`),
	regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s+to\s+(\d+(?:\.\d+)?)\s*([a-zA-Zµ/%][a-zA-Zµ/%0-9^]*)`),
}

var ageGroupCues = []string{"neonate", "infant", "pediatric", "children", "adolescent", "adult", "elderly"}

// LabRange extracts a reference interval. Low/high ordering is taken
// as-written from the text; an oddly phrased source can yield an inverted
// range and no validation is applied — a known, deliberate gap.
func LabRange(text string) (Range, bool) {
	lower := strings.ToLower(text)
	if !hasTrigger(lower, "normal range", "reference range", "reference interval", "normal value", "normal level") {
		return Range{}, false
	}

	for _, re := range labRangePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		low, err1 := strconv.ParseFloat(m[1], 64)
		high, err2 := strconv.ParseFloat(m[2], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		units := strings.TrimRight(m[3], ".,;:")
		if !validSpan(units, 1, 20) {
			continue
		}

		r := Range{Low: low, High: high, Units: units}
		for _, cue := range ageGroupCues {
			if strings.Contains(lower, cue) {
				r.AgeGroup = cue
				break
			}
		}
		return r, true
	}
	return Range{}, false
}

// Critical thresholds: the low side is tried before the high side, and
// each side's first matching pattern wins.
var (
	criticalLowPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)critical\s+low\s*:?\s*<?\s*(\d+(?:\.\d+)?)`),
		regexp.MustCompile(`(?i)critical(?:\s+value)?s?\s+(?:below|less than|under)\s+(\d+(?:\.\d+)?)`),
		regexp.MustCompile(`(?i)critical(?:\s+value)?s?\s*:?\s*<\s*(\d+(?:\.\d+)?)`),
		regexp.MustCompile(`(?i)panic\s+(?:value\s+)?(?:below|<)\s*(\d+(?:\.\d+)?)`),
	}
	criticalHighPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)critical\s+high\s*:?\s*>?\s*(\d+(?:\.\d+)?)`),
		regexp.MustCompile(`(?i)critical(?:\s+value)?s?\s+(?:above|greater than|over|exceeding)\s+(\d+(?:\.\d+)?)`),
		regexp.MustCompile(`(?i)critical(?:\s+value)?s?\s*:?\s*>\s*(\d+(?:\.\d+)?)`),
		regexp.MustCompile(`(?i)panic\s+(?:value\s+)?(?:above|>)\s*(\d+(?:\.\d+)?)`),
	}
)

// CriticalValues extracts critical/panic thresholds. Either side may be
// nil when only one direction is stated.
func CriticalValues(text string) (CriticalValue, bool) {
	lower := strings.ToLower(text)
	if !hasTrigger(lower, "critical value", "critical low", "critical high", "panic value", "critical level") {
		return CriticalValue{}, false
	}

	var cv CriticalValue
	for _, re := range criticalLowPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				cv.Low = &v
			}
			break
		}
	}
	for _, re := range criticalHighPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				cv.High = &v
			}
			break
		}
	}

	if cv.Low == nil && cv.High == nil {
		return CriticalValue{}, false
	}
	return cv, true
}
