package aggregate

import "fmt"

// Search-term batteries. Order matters: sequential early-stop searches
// take the first term that yields a usable fact, so reordering a battery
// changes observable results. Treat these lists as versioned data and bump
// TermsVersion on any edit.

// TermsVersion identifies the current battery revision.
const TermsVersion = 1

var pregnancyTermTemplates = []string{
	"%s pregnancy category",
	"%s fda pregnancy category",
	"%s pregnancy safety",
	"%s use in pregnancy",
	"%s teratogenic effects",
}

var lactationTermTemplates = []string{
	"%s breastfeeding safety",
	"%s lactation",
	"%s breast milk excretion",
	"%s nursing mothers",
}

var contraindicationTermTemplates = []string{
	"%s contraindications",
	"%s contraindicated",
	"%s warnings precautions",
}

var interactionTermTemplates = []string{
	"%s %s interaction",
	"%s %s drug interaction",
	"%s and %s combination adverse",
	"%s %s concomitant use",
}

var criteriaTermTemplates = []string{
	"%s diagnostic criteria",
	"%s diagnosis criteria",
	"%s clinical criteria",
	"diagnostic criteria for %s",
}

var differentialTermTemplates = []string{
	"differential diagnosis %s",
	"%s differential diagnosis",
	"causes of %s",
}

var guidelineTermTemplates = []string{
	"%s clinical guideline",
	"%s guideline recommendations",
	"%s consensus statement",
}

var journalTermTemplates = []string{
	"%s",
	"%s review",
	"%s systematic review",
	"%s meta-analysis",
}

var calculatorTermTemplates = []string{
	"%s score validation",
	"%s score",
	"%s risk calculator",
}

var labValueTermTemplates = []string{
	"%s normal range",
	"%s reference range",
	"%s reference interval critical value",
}

// calculatorRoster is the fixed set of clinical scores get-risk-calculators
// searches for, in presentation order.
var calculatorNames = []string{
	"CHA2DS2-VASc",
	"HAS-BLED",
	"MELD",
	"Wells",
	"CURB-65",
	"GRACE",
	"FRAX",
	"Framingham",
	"ASCVD",
}

// labTestRoster is the fixed laboratory panel get-lab-values reports on.
var labTestNames = []string{
	"hemoglobin",
	"white blood cell count",
	"platelet count",
	"sodium",
	"potassium",
	"creatinine",
	"glucose",
	"TSH",
	"hemoglobin A1c",
	"troponin",
}

func expandTerms(templates []string, args ...any) []string {
	terms := make([]string, len(templates))
	for i, t := range templates {
		terms[i] = fmt.Sprintf(t, args...)
	}
	return terms
}

// PregnancyTerms returns the ordered battery for pregnancy-category search.
func PregnancyTerms(drug string) []string { return expandTerms(pregnancyTermTemplates, drug) }

// LactationTerms returns the ordered battery for lactation-safety search.
func LactationTerms(drug string) []string { return expandTerms(lactationTermTemplates, drug) }

// ContraindicationTerms returns the battery for contraindication search.
func ContraindicationTerms(drug string) []string {
	return expandTerms(contraindicationTermTemplates, drug)
}

// InteractionTerms returns the battery for a drug-pair interaction search.
func InteractionTerms(drug1, drug2 string) []string {
	return expandTerms(interactionTermTemplates, drug1, drug2)
}

// CriteriaTerms returns the ordered battery for diagnostic-criteria search.
func CriteriaTerms(condition string) []string { return expandTerms(criteriaTermTemplates, condition) }

// DifferentialTerms returns the battery for differential-diagnosis search.
func DifferentialTerms(symptoms string) []string {
	return expandTerms(differentialTermTemplates, symptoms)
}

// GuidelineTerms returns the battery for guideline search.
func GuidelineTerms(query string) []string { return expandTerms(guidelineTermTemplates, query) }

// JournalTerms returns the battery for journal-literature search.
func JournalTerms(query string) []string { return expandTerms(journalTermTemplates, query) }

// CalculatorTerms returns the ordered battery for one named score.
func CalculatorTerms(name string) []string { return expandTerms(calculatorTermTemplates, name) }

// LabValueTerms returns the ordered battery for one laboratory test.
func LabValueTerms(test string) []string { return expandTerms(labValueTermTemplates, test) }
