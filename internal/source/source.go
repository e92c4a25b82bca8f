// Package source holds one adapter per external medical data API: openFDA
// drug labels, WHO GHO statistics, PubMed E-utilities, RxNorm nomenclature,
// Google Scholar scraping, and the ClinicalTrials.gov registry.
//
// Adapters are the only place raw upstream shapes are trusted; everything
// they hand onward is a normalize.Document or a small typed record. Each
// adapter takes its base URL from Config so tests can point it at an
// httptest server — there are no package-level endpoint singletons.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Default endpoints for each upstream service.
const (
	DefaultOpenFDABase = "https://api.fda.gov/drug/label.json"
	DefaultWHOBase     = "https://ghoapi.azureedge.net/api"
	DefaultPubMedBase  = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"
	DefaultRxNormBase  = "https://rxnav.nlm.nih.gov/REST"
	DefaultScholarBase = "https://scholar.google.com/scholar"
	DefaultTrialsBase  = "https://clinicaltrials.gov/api/v2/studies"
)

// DefaultUserAgent identifies meddex to upstream services.
const DefaultUserAgent = "meddex/0.1 (medical literature aggregator)"

// Config carries the settings every adapter is constructed with.
type Config struct {
	UserAgent  string
	Timeout    time.Duration
	MaxRetries int

	OpenFDABase string
	WHOBase     string
	PubMedBase  string
	RxNormBase  string
	ScholarBase string
	TrialsBase  string

	// Politeness delay range applied before every Scholar request.
	ScholarDelayMin time.Duration
	ScholarDelayMax time.Duration
}

// DefaultConfig returns a Config pointing at the real upstream services.
func DefaultConfig() Config {
	return Config{
		UserAgent:       DefaultUserAgent,
		Timeout:         15 * time.Second,
		MaxRetries:      3,
		OpenFDABase:     DefaultOpenFDABase,
		WHOBase:         DefaultWHOBase,
		PubMedBase:      DefaultPubMedBase,
		RxNormBase:      DefaultRxNormBase,
		ScholarBase:     DefaultScholarBase,
		TrialsBase:      DefaultTrialsBase,
		ScholarDelayMin: 1 * time.Second,
		ScholarDelayMax: 3 * time.Second,
	}
}

func (c Config) httpClient() *http.Client {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

func (c Config) userAgent() string {
	if c.UserAgent == "" {
		return DefaultUserAgent
	}
	return c.UserAgent
}

// retryBaseDelay is the base duration for backoff on HTTP 429. Declared as
// a var so tests can shrink it.
var retryBaseDelay = 500 * time.Millisecond

// doGet issues a GET and retries on HTTP 429 with exponential backoff. The
// last 429 response is returned after retries are exhausted so the caller
// can report the status.
func doGet(ctx context.Context, client *http.Client, url, userAgent string, maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = 3
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusTooManyRequests || attempt >= maxRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		backoff := retryBaseDelay << attempt
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}

// getJSON fetches a URL and decodes its JSON body into v.
func getJSON(ctx context.Context, client *http.Client, url, userAgent string, maxRetries int, v any) error {
	resp, err := doGet(ctx, client, url, userAgent, maxRetries)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}
