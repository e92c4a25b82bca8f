package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// RxNorm queries the NLM RxNorm nomenclature service.
type RxNorm struct {
	client *http.Client
	cfg    Config
}

// NewRxNorm constructs the adapter.
func NewRxNorm(cfg Config) *RxNorm {
	return &RxNorm{client: cfg.httpClient(), cfg: cfg}
}

// RxConcept is one standardized drug concept.
type RxConcept struct {
	RxCUI    string `json:"rxcui"`
	Name     string `json:"name"`
	Synonym  string `json:"synonym,omitempty"`
	TermType string `json:"tty"`
}

type rxnormResponse struct {
	DrugGroup struct {
		ConceptGroup []struct {
			TTY               string      `json:"tty"`
			ConceptProperties []RxConcept `json:"conceptProperties"`
		} `json:"conceptGroup"`
	} `json:"drugGroup"`
}

// SearchConcepts resolves a drug name to RxNorm concepts across all term
// types.
func (a *RxNorm) SearchConcepts(ctx context.Context, name string) ([]RxConcept, error) {
	reqURL := fmt.Sprintf("%s/drugs.json?name=%s", a.cfg.RxNormBase, url.QueryEscape(name))

	var resp rxnormResponse
	if err := getJSON(ctx, a.client, reqURL, a.cfg.userAgent(), a.cfg.MaxRetries, &resp); err != nil {
		return nil, fmt.Errorf("RxNorm lookup: %w", err)
	}

	var concepts []RxConcept
	for _, group := range resp.DrugGroup.ConceptGroup {
		concepts = append(concepts, group.ConceptProperties...)
	}
	return concepts, nil
}
