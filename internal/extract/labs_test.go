package extract

import "testing"

func TestLabRange_HyphenForm(t *testing.T) {
	r, ok := LabRange("normal range 13.8-17.2 g/dL in adult males")
	if !ok {
		t.Fatal("expected a range")
	}
	if r.Low != 13.8 || r.High != 17.2 {
		t.Errorf("expected 13.8-17.2, got %v-%v", r.Low, r.High)
	}
	if r.Units != "g/dL" {
		t.Errorf("expected units g/dL, got %q", r.Units)
	}
	if r.AgeGroup != "adult" {
		t.Errorf("expected age group adult, got %q", r.AgeGroup)
	}
}

func TestLabRange_ToForm(t *testing.T) {
	r, ok := LabRange("the reference range is 3.5 to 5.0 mmol/L for potassium")
	if !ok {
		t.Fatal("expected a range")
	}
	if r.Low != 3.5 || r.High != 5.0 || r.Units != "mmol/L" {
		t.Errorf("unexpected range: %+v", r)
	}
}

func TestLabRange_NoValidationOfOrdering(t *testing.T) {
	// Inverted ranges pass through as written; the source text is trusted.
	r, ok := LabRange("normal range 17.2-13.8 g/dL")
	if !ok {
		t.Fatal("expected a range")
	}
	if r.Low != 17.2 || r.High != 13.8 {
		t.Errorf("expected as-written ordering, got %v-%v", r.Low, r.High)
	}
}

func TestLabRange_RequiresUnits(t *testing.T) {
	if _, ok := LabRange("normal range 13.8-17.2 ..."); ok {
		t.Error("expected no range without a unit token")
	}
}

func TestLabRange_RequiresTrigger(t *testing.T) {
	if _, ok := LabRange("patients aged 13.8-17.2 g/dL"); ok {
		t.Error("expected no range without a reference-range trigger")
	}
}

func TestCriticalValues_BothSides(t *testing.T) {
	cv, ok := CriticalValues("critical low: 6.6 and critical high: 19.9 for hemoglobin")
	if !ok {
		t.Fatal("expected critical values")
	}
	if cv.Low == nil || *cv.Low != 6.6 {
		t.Errorf("expected low 6.6, got %v", cv.Low)
	}
	if cv.High == nil || *cv.High != 19.9 {
		t.Errorf("expected high 19.9, got %v", cv.High)
	}
}

func TestCriticalValues_LowOnly(t *testing.T) {
	cv, ok := CriticalValues("a critical value below 2.5 requires immediate action")
	if !ok {
		t.Fatal("expected critical values")
	}
	if cv.Low == nil || *cv.Low != 2.5 {
		t.Errorf("expected low 2.5, got %v", cv.Low)
	}
	if cv.High != nil {
		t.Errorf("expected nil high, got %v", *cv.High)
	}
}

func TestCriticalValues_NoTrigger(t *testing.T) {
	if _, ok := CriticalValues("values below 2.5 were excluded"); ok {
		t.Error("expected no result without a critical-value trigger")
	}
}
