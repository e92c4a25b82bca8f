package source

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/hurttlocker/meddex/internal/normalize"
)

// Scholar scrapes Google Scholar result pages. Before every request it
// sleeps a randomized interval from the configured delay range — a
// politeness measure against request-pattern blocking, not a correctness
// requirement.
type Scholar struct {
	client *http.Client
	cfg    Config
	rng    *rand.Rand
}

// NewScholar constructs the adapter.
func NewScholar(cfg Config) *Scholar {
	return &Scholar{
		client: cfg.httpClient(),
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ScholarResult is one scraped search hit.
type ScholarResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Byline  string `json:"byline,omitempty"`
	URL     string `json:"url,omitempty"`
}

var (
	// The capture keeps the trailing </div> of the last inner block so the
	// per-field patterns below still see their closing tags.
	scholarEntryRE   = regexp.MustCompile(`(?s)<div class="gs_ri">(.*?</div>)\s*</div>`)
	scholarTitleRE   = regexp.MustCompile(`(?s)<h3 class="gs_rt"[^>]*>(.*?)</h3>`)
	scholarHrefRE    = regexp.MustCompile(`<a[^>]+href="([^"]+)"`)
	scholarSnippetRE = regexp.MustCompile(`(?s)<div class="gs_rs"[^>]*>(.*?)</div>`)
	scholarBylineRE  = regexp.MustCompile(`(?s)<div class="gs_a"[^>]*>(.*?)</div>`)
	scholarYearRE    = regexp.MustCompile(`\b(19|20)\d{2}\b`)
)

// Search fetches one result page for a query.
func (a *Scholar) Search(ctx context.Context, query string) ([]ScholarResult, error) {
	if err := a.politeDelay(ctx); err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s?q=%s&hl=en", a.cfg.ScholarBase, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	// Scholar serves a degraded page to non-browser agents.
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scholar request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scholar returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading scholar body: %w", err)
	}
	return parseScholarHTML(string(body)), nil
}

// politeDelay sleeps a random duration within the configured range, or
// returns early when the context is cancelled.
func (a *Scholar) politeDelay(ctx context.Context) error {
	min, max := a.cfg.ScholarDelayMin, a.cfg.ScholarDelayMax
	if min <= 0 && max <= 0 {
		return nil
	}
	if max < min {
		max = min
	}
	d := min
	if span := max - min; span > 0 {
		d += time.Duration(a.rng.Int63n(int64(span)))
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// parseScholarHTML mines result blocks out of a Scholar page.
func parseScholarHTML(page string) []ScholarResult {
	var results []ScholarResult
	for _, m := range scholarEntryRE.FindAllStringSubmatch(page, -1) {
		block := m[1]
		r := ScholarResult{}

		if tm := scholarTitleRE.FindStringSubmatch(block); tm != nil {
			if hm := scholarHrefRE.FindStringSubmatch(tm[1]); hm != nil {
				r.URL = hm[1]
			}
			r.Title = normalize.CleanText(tm[1])
		}
		if r.Title == "" {
			continue
		}
		if sm := scholarSnippetRE.FindStringSubmatch(block); sm != nil {
			r.Snippet = normalize.CleanText(sm[1])
		}
		if bm := scholarBylineRE.FindStringSubmatch(block); bm != nil {
			r.Byline = normalize.CleanText(bm[1])
		}

		results = append(results, r)
	}
	return results
}

// SearchDocuments satisfies the aggregation searcher contract. The byline
// year, when present, becomes the document year; scraped hits without a
// stable id get a generated one from the normalizer.
func (a *Scholar) SearchDocuments(ctx context.Context, term string, limit int) ([]normalize.Document, error) {
	results, err := a.Search(ctx, term)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	var docs []normalize.Document
	for _, r := range results {
		year := ""
		if m := scholarYearRE.FindString(r.Byline); m != "" {
			year = m
		}
		doc, ok := normalize.New(r.URL, r.Title, r.Snippet, r.Byline, year, nil, r.URL, normalize.OriginAcademicSearch)
		if !ok {
			continue
		}
		docs = append(docs, doc)
	}
	return normalize.Dedupe(docs), nil
}

// Name identifies the adapter in logs.
func (a *Scholar) Name() string { return "scholar" }
