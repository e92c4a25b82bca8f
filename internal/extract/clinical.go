package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// CriteriaSet is one diagnostic criteria grouping: a category label, its
// enumerated items, and how many are required for the diagnosis.
type CriteriaSet struct {
	Category string
	Items    []string
	Required int
}

var (
	criteriaClauseRE = regexp.MustCompile(`(?i)(major|minor|clinical|diagnostic)?\s*criteria\s+(?:include|are|consist of)\s*:?\s*([^.]{10,400})`)
	requiredCountRE  = regexp.MustCompile(`(?i)(?:at least|a minimum of)\s+(\d+)|(\d+)\s+(?:or more\s+)?(?:of the following|out of|criteria\s+(?:are\s+)?required)`)
	wordCountMap     = map[string]int{"one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6}
	wordCountRE      = regexp.MustCompile(`(?i)\b(one|two|three|four|five|six)\s+(?:or more\s+)?of the following\b`)
)

// CriteriaSets extracts diagnostic criteria groupings from text.
func CriteriaSets(text string) []CriteriaSet {
	lower := strings.ToLower(text)
	if !hasTrigger(lower, "criteria") {
		return nil
	}

	required := 0
	if m := requiredCountRE.FindStringSubmatch(text); m != nil {
		for _, g := range m[1:] {
			if g != "" {
				required, _ = strconv.Atoi(g)
				break
			}
		}
	} else if m := wordCountRE.FindStringSubmatch(lower); m != nil {
		required = wordCountMap[strings.ToLower(m[1])]
	}

	var sets []CriteriaSet
	for _, m := range criteriaClauseRE.FindAllStringSubmatch(text, -1) {
		category := strings.TrimSpace(m[1])
		if category == "" {
			category = "diagnostic"
		}
		items := splitList(m[2])
		if len(items) == 0 {
			continue
		}
		sets = append(sets, CriteriaSet{
			Category: strings.ToLower(category),
			Items:    items,
			Required: required,
		})
	}
	return sets
}

var redFlagPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)red\s+flags?\s+(?:include|are|:)\s*([^.]{5,300})`),
	regexp.MustCompile(`(?i)warning\s+signs?\s+(?:include|are|:)\s*([^.]{5,300})`),
	regexp.MustCompile(`(?i)(?:seek|require)\s+(?:immediate|urgent|emergency)\s+(?:medical\s+)?(?:attention|evaluation|care)\s+(?:for|if|with)\s+([^.]{5,200})`),
}

// RedFlags extracts warning-sign items that should prompt urgent
// evaluation.
func RedFlags(text string) []string {
	lower := strings.ToLower(text)
	if !hasTrigger(lower, "red flag", "warning sign", "immediate medical", "urgent evaluation", "emergency") {
		return nil
	}

	var out []string
	seen := make(map[string]bool)
	for _, re := range redFlagPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			for _, item := range splitList(m[1]) {
				key := strings.ToLower(item)
				if seen[key] {
					continue
				}
				seen[key] = true
				out = append(out, item)
			}
		}
	}
	return out
}

var differentialPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)differential\s+diagnos[ei]s\s+(?:includes?|of[^.]{0,60}includes?|should include|:)\s*([^.]{5,400})`),
	regexp.MustCompile(`(?i)differential\s+includes?\s*:?\s*([^.]{5,400})`),
	regexp.MustCompile(`(?i)(?:must|should)\s+(?:be\s+)?rule[d]?\s+out\s*:?\s*([^.]{3,200})`),
	regexp.MustCompile(`(?i)consider\s+(?:the\s+)?(?:possibility\s+of\s+)?([a-z][^.]{3,160})\s+in\s+the\s+differential`),
}

// DifferentialItems extracts candidate diagnoses from differential
// discussions.
func DifferentialItems(text string) []string {
	lower := strings.ToLower(text)
	if !hasTrigger(lower, "differential", "rule out", "ruled out") {
		return nil
	}

	var out []string
	seen := make(map[string]bool)
	for _, re := range differentialPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			for _, item := range splitList(m[1]) {
				key := strings.ToLower(item)
				if seen[key] {
					continue
				}
				seen[key] = true
				out = append(out, item)
			}
		}
	}
	return out
}
