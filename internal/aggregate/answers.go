package aggregate

// Aggregate answer shapes. Every field is fully populated on return:
// scalar fields fall back to sentinel defaults and list fields are
// non-nil-safe slices, so callers never null-check.

// Sentinel defaults for single-valued safety fields.
const (
	DefaultPregnancyCategory = "N"
	DefaultLactationSafety   = "Unknown"
)

// DrugSafetyInfo is the composite safety answer for one drug.
type DrugSafetyInfo struct {
	Drug              string   `json:"drug"`
	PregnancyCategory string   `json:"pregnancy_category"`
	LactationSafety   string   `json:"lactation_safety"`
	Contraindications []string `json:"contraindications"`
	Sources           []string `json:"sources,omitempty"`
}

// DrugInteraction is one interaction finding between two drugs.
type DrugInteraction struct {
	Drug1       string `json:"drug1"`
	Drug2       string `json:"drug2"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	Source      string `json:"source,omitempty"`
}

// CriteriaGroup mirrors one extracted criteria set inside a
// DiagnosticCriteria answer.
type CriteriaGroup struct {
	Category string   `json:"category"`
	Items    []string `json:"items"`
	Required int      `json:"required_count"`
}

// DiagnosticCriteria is the criteria answer for one condition.
type DiagnosticCriteria struct {
	Condition string          `json:"condition"`
	Groups    []CriteriaGroup `json:"criteria"`
	RedFlags  []string        `json:"red_flags"`
	Sources   []string        `json:"sources,omitempty"`
}

// RiskCalculator is one recognized clinical score.
type RiskCalculator struct {
	Name       string   `json:"name"`
	Parameters []string `json:"parameters"`
	Source     string   `json:"source,omitempty"`
}

// LabValue is the reference-range answer for one laboratory test.
type LabValue struct {
	Test         string   `json:"test"`
	Low          float64  `json:"low"`
	High         float64  `json:"high"`
	Units        string   `json:"units"`
	AgeGroup     string   `json:"age_group,omitempty"`
	CriticalLow  *float64 `json:"critical_low,omitempty"`
	CriticalHigh *float64 `json:"critical_high,omitempty"`
	Found        bool     `json:"found"`
	Source       string   `json:"source,omitempty"`
}

// DifferentialDiagnosis is the answer for one symptom set.
type DifferentialDiagnosis struct {
	Symptoms   []string `json:"symptoms"`
	Candidates []string `json:"candidates"`
	RedFlags   []string `json:"red_flags"`
	Sources    []string `json:"sources,omitempty"`
}

// ClinicalGuideline is one guideline finding.
type ClinicalGuideline struct {
	Title         string `json:"title"`
	Organization  string `json:"organization"`
	Category      string `json:"category"`
	EvidenceLevel string `json:"evidence_level"`
	Year          string `json:"year"`
	URL           string `json:"url,omitempty"`
	Source        string `json:"source,omitempty"`
}
