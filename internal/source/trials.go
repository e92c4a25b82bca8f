package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/hurttlocker/meddex/internal/normalize"
)

// Trials queries the ClinicalTrials.gov v2 registry API.
type Trials struct {
	client *http.Client
	cfg    Config
}

// NewTrials constructs the adapter.
func NewTrials(cfg Config) *Trials {
	return &Trials{client: cfg.httpClient(), cfg: cfg}
}

// Study is one registry record, flattened from the v2 protocolSection.
type Study struct {
	NCTID     string `json:"nct_id"`
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	Status    string `json:"status"`
	StartDate string `json:"start_date,omitempty"`
}

type trialsResponse struct {
	Studies []struct {
		ProtocolSection struct {
			IdentificationModule struct {
				NCTID      string `json:"nctId"`
				BriefTitle string `json:"briefTitle"`
			} `json:"identificationModule"`
			DescriptionModule struct {
				BriefSummary string `json:"briefSummary"`
			} `json:"descriptionModule"`
			StatusModule struct {
				OverallStatus   string `json:"overallStatus"`
				StartDateStruct struct {
					Date string `json:"date"`
				} `json:"startDateStruct"`
			} `json:"statusModule"`
		} `json:"protocolSection"`
	} `json:"studies"`
}

// SearchStudies finds registered trials matching a condition query.
func (a *Trials) SearchStudies(ctx context.Context, condition string, limit int) ([]Study, error) {
	if limit <= 0 || limit > 20 {
		limit = 10
	}
	reqURL := fmt.Sprintf("%s?query.cond=%s&pageSize=%d", a.cfg.TrialsBase, url.QueryEscape(condition), limit)

	var resp trialsResponse
	if err := getJSON(ctx, a.client, reqURL, a.cfg.userAgent(), a.cfg.MaxRetries, &resp); err != nil {
		return nil, fmt.Errorf("trials search: %w", err)
	}

	var studies []Study
	for _, s := range resp.Studies {
		p := s.ProtocolSection
		studies = append(studies, Study{
			NCTID:     p.IdentificationModule.NCTID,
			Title:     p.IdentificationModule.BriefTitle,
			Summary:   p.DescriptionModule.BriefSummary,
			Status:    p.StatusModule.OverallStatus,
			StartDate: p.StatusModule.StartDateStruct.Date,
		})
	}
	return studies, nil
}

// SearchDocuments satisfies the aggregation searcher contract.
func (a *Trials) SearchDocuments(ctx context.Context, term string, limit int) ([]normalize.Document, error) {
	studies, err := a.SearchStudies(ctx, term, limit)
	if err != nil {
		return nil, err
	}

	var docs []normalize.Document
	for _, s := range studies {
		year := ""
		if len(s.StartDate) >= 4 {
			year = s.StartDate[:4]
		}
		studyURL := ""
		if s.NCTID != "" {
			studyURL = "https://clinicaltrials.gov/study/" + s.NCTID
		}
		doc, ok := normalize.New(s.NCTID, s.Title, s.Summary, "ClinicalTrials.gov", year, nil, studyURL, normalize.OriginTrialsRegistry)
		if !ok {
			continue
		}
		docs = append(docs, doc)
	}
	return normalize.Dedupe(docs), nil
}

// Name identifies the adapter in logs.
func (a *Trials) Name() string { return "trials" }
