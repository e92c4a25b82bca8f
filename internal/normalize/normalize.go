// Package normalize converts heterogeneous source records into one
// document shape for the extraction engine.
//
// Every adapter result — a PubMed article, a Scholar scrape, a trial
// record — passes through New before anything downstream sees it. Text is
// tag-stripped and whitespace-collapsed, missing optional fields get
// sentinel strings so extractors stay total over strings, and documents
// without a title or stable id are dropped rather than erred on.
package normalize

import (
	"html"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Origin identifies which class of source produced a document.
type Origin string

const (
	OriginCitationIndex  Origin = "citation_index"
	OriginAcademicSearch Origin = "academic_search"
	OriginTrialsRegistry Origin = "trials_registry"
	OriginGuideline      Origin = "guideline"
)

// Sentinel values used when a source omits an optional field.
const (
	NoAbstract     = "No abstract available"
	UnknownJournal = "Unknown"
	UnknownYear    = "Unknown"
)

// Document is the source-agnostic record produced from any adapter's raw
// output. Documents are immutable once normalized.
type Document struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Abstract string   `json:"abstract"`
	Journal  string   `json:"journal"`
	Year     string   `json:"year"`
	Authors  []string `json:"authors,omitempty"`
	URL      string   `json:"url,omitempty"`
	Origin   Origin   `json:"origin"`
}

// Text returns the corpus an extractor operates on: title and abstract
// joined by a single space.
func (d Document) Text() string {
	return d.Title + " " + d.Abstract
}

// New builds a normalized document from raw field values. It returns
// ok=false when the title is empty after stripping — such items are
// dropped, not treated as errors. A missing id gets a generated one so
// provenance stays unique within an aggregation call.
func New(id, title, abstract, journal, year string, authors []string, url string, origin Origin) (Document, bool) {
	title = CleanText(title)
	if title == "" {
		return Document{}, false
	}

	abstract = CleanText(abstract)
	if abstract == "" {
		abstract = NoAbstract
	}

	journal = CleanText(journal)
	if journal == "" {
		journal = UnknownJournal
	}

	year = strings.TrimSpace(year)
	if year == "" {
		year = UnknownYear
	}

	if strings.TrimSpace(id) == "" {
		id = uuid.NewString()
	}

	var cleanAuthors []string
	for _, a := range authors {
		if a = CleanText(a); a != "" {
			cleanAuthors = append(cleanAuthors, a)
		}
	}

	return Document{
		ID:       id,
		Title:    title,
		Abstract: abstract,
		Journal:  journal,
		Year:     year,
		Authors:  cleanAuthors,
		URL:      strings.TrimSpace(url),
		Origin:   origin,
	}, true
}

var (
	tagRE        = regexp.MustCompile(`<[^>]*>`)
	whitespaceRE = regexp.MustCompile(`\s+`)
	alnumRE      = regexp.MustCompile(`[^a-z0-9]+`)
)

// CleanText strips HTML/XML tags, unescapes entities, and collapses
// whitespace runs to single spaces.
func CleanText(s string) string {
	s = tagRE.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	// &nbsp; unescapes to U+00A0, which \s does not match.
	s = strings.ReplaceAll(s, " ", " ")
	s = whitespaceRE.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// TitleKey is the deduplication key for a document: the lowercased title
// with every non-alphanumeric character removed.
func TitleKey(title string) string {
	return alnumRE.ReplaceAllString(strings.ToLower(title), "")
}

// Dedupe removes documents whose titles collide on TitleKey, keeping the
// first encountered (stable by fetch order). An empty key, from an
// all-punctuation title, is a collision class like any other: the first
// such document stays. Running Dedupe twice yields the same set as once.
func Dedupe(docs []Document) []Document {
	seen := make(map[string]bool, len(docs))
	out := make([]Document, 0, len(docs))
	for _, d := range docs {
		key := TitleKey(d.Title)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, d)
	}
	return out
}
