package extract

import (
	"regexp"
	"strings"
)

// Calculator is a recognized clinical score with any parameters the text
// enumerates for it.
type Calculator struct {
	Name       string
	Parameters []string
}

// calculatorRoster maps lowercase trigger substrings to canonical score
// names. The roster is fixed data, not a relevance model.
var calculatorRoster = []struct {
	cue  string
	name string
}{
	{"cha2ds2-vasc", "CHA2DS2-VASc"},
	{"cha2ds2 vasc", "CHA2DS2-VASc"},
	{"chads2", "CHADS2"},
	{"has-bled", "HAS-BLED"},
	{"meld", "MELD"},
	{"wells score", "Wells"},
	{"wells criteria", "Wells"},
	{"curb-65", "CURB-65"},
	{"grace score", "GRACE"},
	{"frax", "FRAX"},
	{"framingham", "Framingham"},
	{"ascvd", "ASCVD"},
	{"apache ii", "APACHE II"},
	{"sofa score", "SOFA"},
	{"qsofa", "qSOFA"},
	{"centor", "Centor"},
	{"perc rule", "PERC"},
	{"ranson", "Ranson"},
}

var calculatorParamClauseRE = regexp.MustCompile(`(?i)(?:parameters|variables|components|score)\s+(?:include|are|incorporates?|based on)\s*:?\s*([^.]{5,300})`)

// knownParameters are variables clinical scores commonly incorporate; a
// parameter clause is filtered against this roster.
var knownParameters = []string{
	"age", "sex", "gender", "weight", "blood pressure", "systolic",
	"creatinine", "bilirubin", "inr", "sodium", "albumin", "heart rate",
	"respiratory rate", "temperature", "diabetes", "hypertension",
	"stroke", "smoking", "cholesterol", "hdl", "heart failure",
	"vascular disease", "confusion", "urea", "platelet", "gcs",
	"glasgow coma",
}

// Calculators recognizes named clinical risk scores mentioned in text and
// extracts any parameters enumerated alongside them.
func Calculators(text string) []Calculator {
	lower := strings.ToLower(text)
	if !hasTrigger(lower, "score", "calculator", "risk assessment", "index", "criteria") {
		return nil
	}

	params := calculatorParams(text, lower)

	var out []Calculator
	seen := make(map[string]bool)
	for _, entry := range calculatorRoster {
		if !strings.Contains(lower, entry.cue) || seen[entry.name] {
			continue
		}
		seen[entry.name] = true
		out = append(out, Calculator{Name: entry.name, Parameters: params})
	}
	return out
}

// calculatorParams pulls an enumerated parameter clause and keeps only
// items matching the known-parameter roster.
func calculatorParams(text, lower string) []string {
	m := calculatorParamClauseRE.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	var params []string
	seen := make(map[string]bool)
	for _, item := range splitList(m[1]) {
		il := strings.ToLower(item)
		for _, known := range knownParameters {
			if strings.Contains(il, known) && !seen[known] {
				seen[known] = true
				params = append(params, item)
				break
			}
		}
	}
	return params
}

// Guideline is extracted guideline metadata.
type Guideline struct {
	Organization  string
	Category      string
	EvidenceLevel string
	Year          string
}

// organizationRoster maps lowercase cues to canonical issuing bodies.
var organizationRoster = []struct {
	cue  string
	name string
}{
	{"world health organization", "WHO"},
	{"american heart association", "AHA"},
	{"american college of cardiology", "ACC"},
	{"european society of cardiology", "ESC"},
	{"centers for disease control", "CDC"},
	{"national institute for health and care excellence", "NICE"},
	{"u.s. preventive services task force", "USPSTF"},
	{"us preventive services task force", "USPSTF"},
	{"infectious diseases society of america", "IDSA"},
	{"american diabetes association", "ADA"},
	{"american college of physicians", "ACP"},
	{"american academy of pediatrics", "AAP"},
	{"american college of obstetricians", "ACOG"},
	{"kidney disease: improving global outcomes", "KDIGO"},
	{" who ", "WHO"},
	{" aha ", "AHA"},
	{" acc ", "ACC"},
	{" esc ", "ESC"},
	{" cdc ", "CDC"},
	{" nice ", "NICE"},
	{" uspstf ", "USPSTF"},
	{" idsa ", "IDSA"},
	{" kdigo ", "KDIGO"},
}

var guidelineCategoryCues = []string{
	"screening", "prevention", "diagnosis", "treatment", "management",
	"vaccination", "rehabilitation",
}

var evidenceLevelPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:level|grade)\s+of\s+evidence\s*:?\s*([a-d]|i{1,3}v?)\b`),
	regexp.MustCompile(`(?i)\bevidence\s+level\s*:?\s*([a-d]|i{1,3}v?)\b`),
	regexp.MustCompile(`(?i)\bclass\s+(i{1,3}[ab]?|[ab])\s+recommendation\b`),
	regexp.MustCompile(`(?i)\bgrade\s+([a-d])\s+recommendation\b`),
}

var guidelineYearRE = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// GuidelineMeta extracts the issuing organization, guideline category,
// evidence level, and year from text that discusses a clinical guideline.
// Returns ok=false when no guideline language is present.
func GuidelineMeta(text string) (Guideline, bool) {
	lower := strings.ToLower(text)
	if !hasTrigger(lower, "guideline", "recommendation", "consensus statement", "position statement") {
		return Guideline{}, false
	}

	g := Guideline{}
	padded := " " + lower + " "
	for _, entry := range organizationRoster {
		if strings.Contains(padded, entry.cue) {
			g.Organization = entry.name
			break
		}
	}
	for _, cue := range guidelineCategoryCues {
		if strings.Contains(lower, cue) {
			g.Category = cue
			break
		}
	}
	for _, re := range evidenceLevelPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			g.EvidenceLevel = strings.ToUpper(m[1])
			break
		}
	}
	if m := guidelineYearRE.FindString(text); m != "" {
		g.Year = m
	}

	if g.Organization == "" && g.Category == "" && g.EvidenceLevel == "" {
		return Guideline{}, false
	}
	return g, true
}
