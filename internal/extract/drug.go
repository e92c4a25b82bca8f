package extract

import (
	"regexp"
	"strings"
)

// Pregnancy categories and lactation/severity values use the upstream
// vocabulary verbatim; "N" and "Unknown" are the not-found sentinels the
// aggregation layer falls back to.

// pregnancyPatterns are tried in order; the first match wins and no later
// pattern is attempted. The order is a behavioral contract: text carrying
// both "pregnancy category a" and a bare "category c" must yield "A".
var pregnancyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)pregnancy\s+category\s*:?\s*([abcdxn])\b`),
	regexp.MustCompile(`(?i)fda\s+(?:pregnancy\s+)?category\s*:?\s*([abcdxn])\b`),
	regexp.MustCompile(`(?i)\bcategory\s+([abcdxn])\b`),
}

// PregnancyCategory extracts an FDA pregnancy letter category (A, B, C, D,
// X, or N) from text.
func PregnancyCategory(text string) (string, bool) {
	lower := strings.ToLower(text)
	if !hasTrigger(lower, "pregnancy category", "fda category", "pregnancy risk") {
		return "", false
	}
	for _, re := range pregnancyPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.ToUpper(m[1]), true
		}
	}
	return "", false
}

// Lactation cue lists, strongest first. Avoid cues beat safe cues beat
// caution cues when a text carries several.
var (
	lactationAvoidCues = []string{
		"contraindicated during breastfeeding",
		"contraindicated in nursing",
		"avoid breastfeeding",
		"avoid during lactation",
		"should not breastfeed",
		"discontinue nursing",
		"discontinue breastfeeding",
		"not recommended during lactation",
		"not recommended while breastfeeding",
	}
	lactationSafeCues = []string{
		"compatible with breastfeeding",
		"usually compatible with breastfeeding",
		"safe during lactation",
		"safe during breastfeeding",
		"safe for nursing",
		"considered safe in lactation",
	}
	lactationCautionCues = []string{
		"use with caution",
		"caution during breastfeeding",
		"caution in nursing",
		"monitor the infant",
		"monitor breastfed infants",
		"limited data in lactation",
		"limited data on breastfeeding",
	}
)

// LactationSafety classifies breastfeeding safety as Safe, Caution, Avoid,
// or Unknown. Returns ok=false when the text never mentions lactation at
// all; Unknown when it does but no cue resolves it.
func LactationSafety(text string) (string, bool) {
	lower := strings.ToLower(text)
	if !hasTrigger(lower, "breastfeed", "breast-feed", "lactation", "nursing", "breast milk") {
		return "", false
	}
	for _, cue := range lactationAvoidCues {
		if strings.Contains(lower, cue) {
			return "Avoid", true
		}
	}
	for _, cue := range lactationSafeCues {
		if strings.Contains(lower, cue) {
			return "Safe", true
		}
	}
	for _, cue := range lactationCautionCues {
		if strings.Contains(lower, cue) {
			return "Caution", true
		}
	}
	return "Unknown", true
}

// contraindicationPatterns capture the clause naming who or what the drug
// must not be used with. The clause runs to the next sentence boundary.
var contraindicationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)contraindicated\s+in\s+(?:patients?\s+with\s+)?([^.;]{3,160})`),
	regexp.MustCompile(`(?i)should\s+not\s+be\s+used\s+in\s+(?:patients?\s+with\s+)?([^.;]{3,160})`),
	regexp.MustCompile(`(?i)must\s+not\s+be\s+(?:used|given)\s+(?:in|to|with)\s+([^.;]{3,160})`),
	regexp.MustCompile(`(?i)contraindications?\s+include\s+([^.;]{3,160})`),
}

// Contraindications extracts contraindication clauses. All patterns run;
// this is a list-valued extractor.
func Contraindications(text string) []string {
	lower := strings.ToLower(text)
	if !hasTrigger(lower, "contraindicat", "should not be used", "must not be") {
		return nil
	}

	var out []string
	seen := make(map[string]bool)
	for _, re := range contraindicationPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			clause := strings.Trim(m[1], " .,;:-")
			if !validSpan(clause, 3, 160) {
				continue
			}
			key := strings.ToLower(clause)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, clause)
		}
	}
	return out
}

// Severity cue lists. Precedence is Contraindicated > Major > Minor, with
// Moderate as the default when an interaction is discussed but no cue
// matches. This exact order reproduces existing behavior and is not a
// clinical judgment.
var (
	severityContraindicatedCues = []string{
		"contraindicated",
		"should never be combined",
		"must not be combined",
		"do not use together",
		"do not coadminister",
		"do not co-administer",
	}
	severityMajorCues = []string{
		"major interaction",
		"major bleeding",
		"serious interaction",
		"severe interaction",
		"serious adverse",
		"severe adverse",
		"life-threatening",
		"significantly increases the risk",
		"major",
	}
	severityMinorCues = []string{
		"minor interaction",
		"minor",
		"mild interaction",
		"clinically insignificant",
		"no significant interaction",
	}
)

// InteractionSeverity classifies a drug-drug interaction mention as
// Contraindicated, Major, Moderate, or Minor. Returns ok=false when the
// text does not discuss an interaction.
func InteractionSeverity(text string) (string, bool) {
	lower := strings.ToLower(text)
	if !hasTrigger(lower, "interact", "concomitant", "coadministration", "co-administration", "combination", "concurrent use", "combined use") {
		return "", false
	}
	for _, cue := range severityContraindicatedCues {
		if strings.Contains(lower, cue) {
			return "Contraindicated", true
		}
	}
	for _, cue := range severityMajorCues {
		if strings.Contains(lower, cue) {
			return "Major", true
		}
	}
	for _, cue := range severityMinorCues {
		if strings.Contains(lower, cue) {
			return "Minor", true
		}
	}
	return "Moderate", true
}
