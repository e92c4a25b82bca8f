package extract

import (
	"testing"

	"github.com/hurttlocker/meddex/internal/normalize"
)

func TestFromDocumentStampsDocID(t *testing.T) {
	doc, ok := normalize.New("pmid-1", "Drug safety review",
		"Pregnancy category D. Contraindicated in patients with active bleeding; contraindications include severe hepatic impairment.",
		"", "", nil, "", normalize.OriginCitationIndex)
	if !ok {
		t.Fatal("document unexpectedly dropped")
	}

	facts := FromDocument(doc, KindPregnancyCategory, KindContraindication, KindLabRange)

	if len(facts) != 3 {
		t.Fatalf("got %d facts, want 3 (1 category + 2 contraindications, no lab range)", len(facts))
	}
	for _, f := range facts {
		if f.DocID != "pmid-1" {
			t.Errorf("fact %s missing doc id: %q", f.Kind, f.DocID)
		}
	}
	if facts[0].Kind != KindPregnancyCategory || facts[0].Value != "D" {
		t.Errorf("first fact = %+v", facts[0])
	}
}

func TestFromDocumentEmptyOnNoMatches(t *testing.T) {
	doc, _ := normalize.New("pmid-2", "An unrelated title", "Plain text with no extractable facts.",
		"", "", nil, "", normalize.OriginCitationIndex)

	if facts := FromDocument(doc, KindPregnancyCategory, KindInteractionSeverity, KindGuidelineMeta); len(facts) != 0 {
		t.Fatalf("got %d facts, want 0", len(facts))
	}
}

func TestSplitList(t *testing.T) {
	items := splitList("tachycardia, fever; hypotension and altered mental status or oliguria")
	want := []string{"tachycardia", "fever", "hypotension", "altered mental status", "oliguria"}
	if len(items) != len(want) {
		t.Fatalf("items = %v, want %v", items, want)
	}
	for i := range want {
		if items[i] != want[i] {
			t.Errorf("items[%d] = %q, want %q", i, items[i], want[i])
		}
	}
}

func TestSplitListDropsFragments(t *testing.T) {
	items := splitList("ab, a valid differential item")
	if len(items) != 1 || items[0] != "a valid differential item" {
		t.Fatalf("items = %v, want single valid entry", items)
	}
}
