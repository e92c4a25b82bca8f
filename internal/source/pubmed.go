package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/hurttlocker/meddex/internal/normalize"
)

// PubMed queries NCBI E-utilities: esearch for PMIDs, efetch for article
// XML. efetch returns raw XML that is mined with tag regexes rather than a
// full schema decode — the handful of fields we need are stable and the
// upstream DTD is not.
type PubMed struct {
	client *http.Client
	cfg    Config
}

// NewPubMed constructs the adapter.
func NewPubMed(cfg Config) *PubMed {
	return &PubMed{client: cfg.httpClient(), cfg: cfg}
}

// Article is one fetched PubMed record.
type Article struct {
	PMID     string   `json:"pmid"`
	Title    string   `json:"title"`
	Abstract string   `json:"abstract"`
	Journal  string   `json:"journal"`
	Year     string   `json:"year"`
	Authors  []string `json:"authors,omitempty"`
	DOI      string   `json:"doi,omitempty"`
}

type esearchResponse struct {
	Result struct {
		Count  string   `json:"count"`
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

var (
	pubmedArticleRE  = regexp.MustCompile(`(?s)<PubmedArticle>.*?</PubmedArticle>`)
	articleTitleRE   = regexp.MustCompile(`(?s)<ArticleTitle[^>]*>(.*?)</ArticleTitle>`)
	abstractTextRE   = regexp.MustCompile(`(?s)<AbstractText[^>]*>(.*?)</AbstractText>`)
	pmidRE           = regexp.MustCompile(`<PMID[^>]*>(\d+)</PMID>`)
	journalTitleRE   = regexp.MustCompile(`(?s)<Title>(.*?)</Title>`)
	pubYearRE        = regexp.MustCompile(`(?s)<PubDate>.*?<Year>(\d{4})</Year>`)
	authorRE         = regexp.MustCompile(`(?s)<Author[ >].*?</Author>`)
	lastNameRE       = regexp.MustCompile(`<LastName>(.*?)</LastName>`)
	foreNameRE       = regexp.MustCompile(`<ForeName>(.*?)</ForeName>`)
	doiELocationRE   = regexp.MustCompile(`<ELocationID EIdType="doi"[^>]*>(.*?)</ELocationID>`)
)

// Search runs esearch then efetch and returns parsed articles.
func (a *PubMed) Search(ctx context.Context, query string, maxResults int) ([]Article, error) {
	if maxResults <= 0 || maxResults > 20 {
		maxResults = 10
	}

	searchURL := fmt.Sprintf("%s/esearch.fcgi?db=pubmed&term=%s&retmax=%d&retmode=json&sort=relevance",
		a.cfg.PubMedBase, url.QueryEscape(query), maxResults)

	var sr esearchResponse
	if err := getJSON(ctx, a.client, searchURL, a.cfg.userAgent(), a.cfg.MaxRetries, &sr); err != nil {
		return nil, fmt.Errorf("PubMed esearch: %w", err)
	}
	if len(sr.Result.IDList) == 0 {
		return nil, nil
	}
	return a.fetch(ctx, sr.Result.IDList)
}

// Fetch retrieves one article by PMID. Returns nil when the PMID is
// unknown.
func (a *PubMed) Fetch(ctx context.Context, pmid string) (*Article, error) {
	articles, err := a.fetch(ctx, []string{pmid})
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		return nil, nil
	}
	return &articles[0], nil
}

func (a *PubMed) fetch(ctx context.Context, pmids []string) ([]Article, error) {
	fetchURL := fmt.Sprintf("%s/efetch.fcgi?db=pubmed&id=%s&retmode=xml",
		a.cfg.PubMedBase, strings.Join(pmids, ","))

	resp, err := doGet(ctx, a.client, fetchURL, a.cfg.userAgent(), a.cfg.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("PubMed efetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("PubMed efetch returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading efetch body: %w", err)
	}
	return parseEfetchXML(string(body)), nil
}

// parseEfetchXML splits the efetch payload into per-article blocks and
// pulls the fields we carry forward. Articles without a title or PMID are
// skipped.
func parseEfetchXML(xml string) []Article {
	var articles []Article
	for _, block := range pubmedArticleRE.FindAllString(xml, -1) {
		art := Article{}

		if m := pmidRE.FindStringSubmatch(block); m != nil {
			art.PMID = m[1]
		}
		if m := articleTitleRE.FindStringSubmatch(block); m != nil {
			art.Title = strings.TrimSpace(m[1])
		}
		if art.PMID == "" || art.Title == "" {
			continue
		}

		// Structured abstracts carry several AbstractText sections.
		var parts []string
		for _, m := range abstractTextRE.FindAllStringSubmatch(block, -1) {
			if s := strings.TrimSpace(m[1]); s != "" {
				parts = append(parts, s)
			}
		}
		art.Abstract = strings.Join(parts, " ")

		if m := journalTitleRE.FindStringSubmatch(block); m != nil {
			art.Journal = strings.TrimSpace(m[1])
		}
		if m := pubYearRE.FindStringSubmatch(block); m != nil {
			art.Year = m[1]
		}
		if m := doiELocationRE.FindStringSubmatch(block); m != nil {
			art.DOI = strings.TrimSpace(m[1])
		}

		for _, author := range authorRE.FindAllString(block, -1) {
			last := ""
			fore := ""
			if m := lastNameRE.FindStringSubmatch(author); m != nil {
				last = m[1]
			}
			if m := foreNameRE.FindStringSubmatch(author); m != nil {
				fore = m[1]
			}
			name := strings.TrimSpace(fore + " " + last)
			if name != "" {
				art.Authors = append(art.Authors, name)
			}
		}

		articles = append(articles, art)
	}
	return articles
}

// SearchDocuments satisfies the aggregation searcher contract: one query
// term in, normalized documents out.
func (a *PubMed) SearchDocuments(ctx context.Context, term string, limit int) ([]normalize.Document, error) {
	articles, err := a.Search(ctx, term, limit)
	if err != nil {
		return nil, err
	}
	var docs []normalize.Document
	for _, art := range articles {
		articleURL := ""
		if art.PMID != "" {
			articleURL = "https://pubmed.ncbi.nlm.nih.gov/" + art.PMID + "/"
		}
		doc, ok := normalize.New(art.PMID, art.Title, art.Abstract, art.Journal, art.Year, art.Authors, articleURL, normalize.OriginCitationIndex)
		if !ok {
			continue
		}
		docs = append(docs, doc)
	}
	return normalize.Dedupe(docs), nil
}

// Name identifies the adapter in logs.
func (a *PubMed) Name() string { return "pubmed" }
