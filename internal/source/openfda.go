package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// OpenFDA queries the openFDA drug-label database.
type OpenFDA struct {
	client *http.Client
	cfg    Config
}

// NewOpenFDA constructs the adapter.
func NewOpenFDA(cfg Config) *OpenFDA {
	return &OpenFDA{client: cfg.httpClient(), cfg: cfg}
}

// DrugLabel is one openFDA label record. Label narrative fields arrive as
// arrays of strings upstream.
type DrugLabel struct {
	ID      string `json:"id"`
	OpenFDA struct {
		BrandName        []string `json:"brand_name"`
		GenericName      []string `json:"generic_name"`
		ManufacturerName []string `json:"manufacturer_name"`
		ProductNDC       []string `json:"product_ndc"`
		Route            []string `json:"route"`
	} `json:"openfda"`
	Purpose                 []string `json:"purpose"`
	IndicationsAndUsage     []string `json:"indications_and_usage"`
	Warnings                []string `json:"warnings"`
	Contraindications       []string `json:"contraindications"`
	DosageAndAdministration []string `json:"dosage_and_administration"`
	AdverseReactions        []string `json:"adverse_reactions"`
}

type openFDAResponse struct {
	Results []DrugLabel `json:"results"`
}

// SearchDrugs looks up labels matching a brand or generic name.
func (a *OpenFDA) SearchDrugs(ctx context.Context, query string, limit int) ([]DrugLabel, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	search := fmt.Sprintf(`openfda.brand_name:%q+openfda.generic_name:%q`, query, query)
	reqURL := fmt.Sprintf("%s?search=%s&limit=%d", a.cfg.OpenFDABase, url.QueryEscape(search), limit)

	var resp openFDAResponse
	if err := getJSON(ctx, a.client, reqURL, a.cfg.userAgent(), a.cfg.MaxRetries, &resp); err != nil {
		return nil, fmt.Errorf("openFDA search: %w", err)
	}
	return resp.Results, nil
}

// GetDrugByNDC fetches the label record for one National Drug Code.
// Returns nil when no label matches.
func (a *OpenFDA) GetDrugByNDC(ctx context.Context, ndc string) (*DrugLabel, error) {
	search := fmt.Sprintf(`openfda.product_ndc:%q`, ndc)
	reqURL := fmt.Sprintf("%s?search=%s&limit=1", a.cfg.OpenFDABase, url.QueryEscape(search))

	var resp openFDAResponse
	if err := getJSON(ctx, a.client, reqURL, a.cfg.userAgent(), a.cfg.MaxRetries, &resp); err != nil {
		return nil, fmt.Errorf("openFDA NDC lookup: %w", err)
	}
	if len(resp.Results) == 0 {
		return nil, nil
	}
	return &resp.Results[0], nil
}
