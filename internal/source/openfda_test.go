package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOpenFDASearchDrugs(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.RawQuery, "limit=5") {
			t.Errorf("limit not forwarded: %s", r.URL.RawQuery)
		}
		fmt.Fprint(w, `{"results":[{"id":"label-1","openfda":{"brand_name":["Lipitor"],"generic_name":["atorvastatin"],"product_ndc":["0071-0155"]},"indications_and_usage":["Treatment of hyperlipidemia."],"warnings":["Liver enzyme abnormalities."]}]}`)
	}))
	defer ts.Close()

	adapter := NewOpenFDA(testConfig(ts))
	labels, err := adapter.SearchDrugs(context.Background(), "lipitor", 5)
	if err != nil {
		t.Fatalf("SearchDrugs: %v", err)
	}
	if len(labels) != 1 {
		t.Fatalf("got %d labels, want 1", len(labels))
	}
	if labels[0].OpenFDA.BrandName[0] != "Lipitor" {
		t.Errorf("brand = %q", labels[0].OpenFDA.BrandName[0])
	}
	if len(labels[0].Warnings) != 1 {
		t.Errorf("warnings = %v", labels[0].Warnings)
	}
}

func TestOpenFDAGetDrugByNDC(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.RawQuery, "product_ndc") {
			t.Errorf("NDC search field missing: %s", r.URL.RawQuery)
		}
		fmt.Fprint(w, `{"results":[{"id":"label-2","openfda":{"product_ndc":["0071-0155"]}}]}`)
	}))
	defer ts.Close()

	adapter := NewOpenFDA(testConfig(ts))
	label, err := adapter.GetDrugByNDC(context.Background(), "0071-0155")
	if err != nil {
		t.Fatalf("GetDrugByNDC: %v", err)
	}
	if label == nil || label.OpenFDA.ProductNDC[0] != "0071-0155" {
		t.Fatalf("label = %+v", label)
	}
}

func TestOpenFDAGetDrugByNDCNotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[]}`)
	}))
	defer ts.Close()

	adapter := NewOpenFDA(testConfig(ts))
	label, err := adapter.GetDrugByNDC(context.Background(), "0000-0000")
	if err != nil {
		t.Fatalf("GetDrugByNDC: %v", err)
	}
	if label != nil {
		t.Fatalf("expected nil label, got %+v", label)
	}
}
