// Package extract turns normalized biomedical text into structured facts
// using hand-written regex patterns and keyword heuristics.
//
// Each extractor is a pure function over a document's title+abstract text.
// Extractors are independent: running one never affects another's output on
// the same text. Every extractor follows the same shape — cheap trigger
// substrings that must be present before any capture pattern is attempted,
// an ordered pattern list where the first match wins for single-valued
// facts, and a validity filter on the captured span. Finding nothing
// returns an empty result, never an error.
package extract

import (
	"regexp"
	"strings"

	"github.com/hurttlocker/meddex/internal/normalize"
)

// Kind names one extractor's fact type.
type Kind string

const (
	KindPregnancyCategory   Kind = "pregnancy_category"
	KindLactationSafety     Kind = "lactation_safety"
	KindContraindication    Kind = "contraindication"
	KindInteractionSeverity Kind = "interaction_severity"
	KindLabRange            Kind = "lab_range"
	KindCriticalValue       Kind = "critical_value"
	KindCriteriaSet         Kind = "criteria_set"
	KindRedFlag             Kind = "red_flag"
	KindDifferentialItem    Kind = "differential_item"
	KindCalculator          Kind = "calculator"
	KindGuidelineMeta       Kind = "guideline_meta"
)

// Fact is one structured data point pulled from a document. Only the
// fields relevant to its Kind are populated; DocID is the provenance link
// back to the source document.
type Fact struct {
	Kind  Kind   `json:"kind"`
	DocID string `json:"doc_id,omitempty"`

	// Single-valued kinds (pregnancy category, lactation safety,
	// interaction severity) and free-text kinds (contraindication,
	// red flag, differential item).
	Value string `json:"value,omitempty"`

	// Lab range / critical value.
	Low      *float64 `json:"low,omitempty"`
	High     *float64 `json:"high,omitempty"`
	Units    string   `json:"units,omitempty"`
	AgeGroup string   `json:"age_group,omitempty"`

	// Criteria set.
	Category string   `json:"category,omitempty"`
	Items    []string `json:"items,omitempty"`
	Required int      `json:"required,omitempty"`

	// Calculator candidate.
	Name       string   `json:"name,omitempty"`
	Parameters []string `json:"parameters,omitempty"`

	// Guideline metadata.
	Organization  string `json:"organization,omitempty"`
	EvidenceLevel string `json:"evidence_level,omitempty"`
	Year          string `json:"year,omitempty"`
}

// FromDocument runs the requested extractors over a document and returns
// every fact found, each stamped with the document id.
func FromDocument(doc normalize.Document, kinds ...Kind) []Fact {
	text := doc.Text()
	var facts []Fact
	add := func(fs ...Fact) {
		for _, f := range fs {
			f.DocID = doc.ID
			facts = append(facts, f)
		}
	}

	for _, kind := range kinds {
		switch kind {
		case KindPregnancyCategory:
			if v, ok := PregnancyCategory(text); ok {
				add(Fact{Kind: kind, Value: v})
			}
		case KindLactationSafety:
			if v, ok := LactationSafety(text); ok {
				add(Fact{Kind: kind, Value: v})
			}
		case KindContraindication:
			for _, c := range Contraindications(text) {
				add(Fact{Kind: kind, Value: c})
			}
		case KindInteractionSeverity:
			if v, ok := InteractionSeverity(text); ok {
				add(Fact{Kind: kind, Value: v})
			}
		case KindLabRange:
			if r, ok := LabRange(text); ok {
				low, high := r.Low, r.High
				add(Fact{Kind: kind, Low: &low, High: &high, Units: r.Units, AgeGroup: r.AgeGroup})
			}
		case KindCriticalValue:
			if cv, ok := CriticalValues(text); ok {
				add(Fact{Kind: kind, Low: cv.Low, High: cv.High})
			}
		case KindCriteriaSet:
			for _, cs := range CriteriaSets(text) {
				add(Fact{Kind: kind, Category: cs.Category, Items: cs.Items, Required: cs.Required})
			}
		case KindRedFlag:
			for _, rf := range RedFlags(text) {
				add(Fact{Kind: kind, Value: rf})
			}
		case KindDifferentialItem:
			for _, di := range DifferentialItems(text) {
				add(Fact{Kind: kind, Value: di})
			}
		case KindCalculator:
			for _, c := range Calculators(text) {
				add(Fact{Kind: kind, Name: c.Name, Parameters: c.Parameters})
			}
		case KindGuidelineMeta:
			if g, ok := GuidelineMeta(text); ok {
				add(Fact{Kind: kind, Organization: g.Organization, Category: g.Category, EvidenceLevel: g.EvidenceLevel, Year: g.Year})
			}
		}
	}
	return facts
}

// hasTrigger reports whether any trigger substring occurs in the
// lowercased text. Trigger checks are the cheap short-circuit in front of
// capture patterns.
func hasTrigger(lower string, triggers ...string) bool {
	for _, t := range triggers {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

var listSplitRE = regexp.MustCompile(`\s*(?:,|;| and | or )\s*`)

// splitList breaks an enumerated clause into trimmed items, dropping
// fragments too short or too long to be meaningful.
func splitList(clause string) []string {
	var items []string
	for _, part := range listSplitRE.Split(clause, -1) {
		part = strings.Trim(part, " .,;:-")
		if len(part) < 3 || len(part) > 120 {
			continue
		}
		items = append(items, part)
	}
	return items
}

// validSpan applies an extractor's length filter to a captured span.
func validSpan(s string, min, max int) bool {
	n := len(strings.TrimSpace(s))
	return n >= min && n <= max
}
