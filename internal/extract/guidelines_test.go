package extract

import "testing"

func TestCalculators_Roster(t *testing.T) {
	text := "stroke risk was estimated with the CHA2DS2-VASc score and bleeding risk with HAS-BLED"
	got := Calculators(text)
	if len(got) != 2 {
		t.Fatalf("expected 2 calculators, got %d: %v", len(got), got)
	}
	if got[0].Name != "CHA2DS2-VASc" {
		t.Errorf("unexpected first calculator: %q", got[0].Name)
	}
	if got[1].Name != "HAS-BLED" {
		t.Errorf("unexpected second calculator: %q", got[1].Name)
	}
}

func TestCalculators_Parameters(t *testing.T) {
	text := "The CURB-65 score parameters include confusion, urea level, respiratory rate, blood pressure, and age over 65."
	got := Calculators(text)
	if len(got) != 1 {
		t.Fatalf("expected 1 calculator, got %d", len(got))
	}
	if len(got[0].Parameters) < 4 {
		t.Errorf("expected at least 4 recognized parameters, got %v", got[0].Parameters)
	}
}

func TestCalculators_NoRosterMatch(t *testing.T) {
	if got := Calculators("a novel proprietary score was developed"); got != nil {
		t.Errorf("expected nil for unrecognized score, got %v", got)
	}
}

func TestGuidelineMeta(t *testing.T) {
	text := "2019 American Heart Association guideline on the primary prevention of cardiovascular disease, class I recommendation, level of evidence A"
	g, ok := GuidelineMeta(text)
	if !ok {
		t.Fatal("expected guideline metadata")
	}
	if g.Organization != "AHA" {
		t.Errorf("expected AHA, got %q", g.Organization)
	}
	if g.Category != "prevention" {
		t.Errorf("expected prevention, got %q", g.Category)
	}
	if g.EvidenceLevel != "A" {
		t.Errorf("expected evidence level A, got %q", g.EvidenceLevel)
	}
	if g.Year != "2019" {
		t.Errorf("expected year 2019, got %q", g.Year)
	}
}

func TestGuidelineMeta_AbbreviatedOrg(t *testing.T) {
	g, ok := GuidelineMeta("the NICE guideline recommends screening for all adults")
	if !ok {
		t.Fatal("expected guideline metadata")
	}
	if g.Organization != "NICE" {
		t.Errorf("expected NICE, got %q", g.Organization)
	}
}

func TestGuidelineMeta_NoTrigger(t *testing.T) {
	if _, ok := GuidelineMeta("a retrospective cohort study of statin use"); ok {
		t.Error("expected no metadata without guideline language")
	}
}

func TestGuidelineMeta_NoFields(t *testing.T) {
	if _, ok := GuidelineMeta("the guideline was discussed at length"); ok {
		t.Error("expected no metadata when no field resolves")
	}
}
