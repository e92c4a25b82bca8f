package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// WHO queries the WHO Global Health Observatory OData API.
type WHO struct {
	client *http.Client
	cfg    Config
}

// NewWHO constructs the adapter.
func NewWHO(cfg Config) *WHO {
	return &WHO{client: cfg.httpClient(), cfg: cfg}
}

// Indicator is one GHO indicator definition.
type Indicator struct {
	Code string `json:"IndicatorCode"`
	Name string `json:"IndicatorName"`
}

// HealthStat is one observation for an indicator.
type HealthStat struct {
	Indicator    string  `json:"IndicatorCode"`
	Country      string  `json:"SpatialDim"`
	Year         int     `json:"TimeDim"`
	NumericValue float64 `json:"NumericValue"`
	Value        string  `json:"Value"`
}

type whoIndicatorResponse struct {
	Value []Indicator `json:"value"`
}

type whoStatResponse struct {
	Value []HealthStat `json:"value"`
}

// FindIndicator resolves a free-text indicator name to GHO indicator codes.
func (a *WHO) FindIndicator(ctx context.Context, name string) ([]Indicator, error) {
	filter := fmt.Sprintf("contains(IndicatorName,'%s')", strings.ReplaceAll(name, "'", ""))
	reqURL := fmt.Sprintf("%s/Indicator?$filter=%s", a.cfg.WHOBase, url.QueryEscape(filter))

	var resp whoIndicatorResponse
	if err := getJSON(ctx, a.client, reqURL, a.cfg.userAgent(), a.cfg.MaxRetries, &resp); err != nil {
		return nil, fmt.Errorf("GHO indicator lookup: %w", err)
	}
	return resp.Value, nil
}

// GetStatistics fetches observations for an indicator code, optionally
// restricted to one country (ISO3 code).
func (a *WHO) GetStatistics(ctx context.Context, indicatorCode, country string, limit int) ([]HealthStat, error) {
	if limit <= 0 || limit > 20 {
		limit = 10
	}

	reqURL := fmt.Sprintf("%s/%s?$top=%d", a.cfg.WHOBase, url.PathEscape(indicatorCode), limit)
	if country != "" {
		filter := fmt.Sprintf("SpatialDim eq '%s'", strings.ReplaceAll(country, "'", ""))
		reqURL += "&$filter=" + url.QueryEscape(filter)
	}

	var resp whoStatResponse
	if err := getJSON(ctx, a.client, reqURL, a.cfg.userAgent(), a.cfg.MaxRetries, &resp); err != nil {
		return nil, fmt.Errorf("GHO statistics: %w", err)
	}
	if len(resp.Value) > limit {
		resp.Value = resp.Value[:limit]
	}
	return resp.Value, nil
}
