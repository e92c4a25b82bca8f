// Package aggregate drives the search-term batteries against source
// adapters and folds extracted facts into answer structs.
//
// Two fan-out modes exist. Sequential-with-early-stop iterates a battery
// in order and stops at the first document yielding a usable fact — the
// result deliberately depends on term order, not scoring. Parallel-all
// issues every (searcher, term) pair concurrently with an all-settle join:
// a failed call contributes nothing and never aborts the batch. Merging
// happens only after the join, so no shared structure is mutated
// concurrently.
//
// A total failure of every term still returns a fully-shaped aggregate
// with sentinel defaults — best-effort literature synthesis has no hard
// failure mode.
package aggregate

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/hurttlocker/meddex/internal/extract"
	"github.com/hurttlocker/meddex/internal/normalize"
)

// Searcher is the contract an adapter satisfies to participate in
// aggregation: one query term in, normalized documents out.
type Searcher interface {
	Name() string
	SearchDocuments(ctx context.Context, term string, limit int) ([]normalize.Document, error)
}

// Engine holds the searchers one aggregation run fans out to.
type Engine struct {
	Literature Searcher // citation index; required
	Scholar    Searcher // academic search; optional
	Trials     Searcher // trials registry; optional

	// PerTermLimit caps documents fetched per search term (default 5).
	PerTermLimit int

	// Log receives adapter-failure notes; defaults to stderr.
	Log io.Writer
}

// NewEngine constructs an aggregation engine over the given searchers.
func NewEngine(literature, scholar, trials Searcher) *Engine {
	return &Engine{Literature: literature, Scholar: scholar, Trials: trials}
}

func (e *Engine) perTermLimit() int {
	if e.PerTermLimit > 0 {
		return e.PerTermLimit
	}
	return 5
}

func (e *Engine) logf(format string, args ...any) {
	w := e.Log
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintf(w, format+"\n", args...)
}

// searchSequential iterates terms in order, fetching and deduplicating
// documents per term, and stops as soon as accept reports a usable fact.
// Adapter failures count as zero results for that term.
func (e *Engine) searchSequential(ctx context.Context, s Searcher, terms []string, accept func(normalize.Document) bool) {
	if s == nil {
		return
	}
	seen := make(map[string]bool)
	for _, term := range terms {
		docs, err := s.SearchDocuments(ctx, term, e.perTermLimit())
		if err != nil {
			e.logf("warning: %s search %q failed: %v", s.Name(), term, err)
			continue
		}
		for _, doc := range docs {
			key := normalize.TitleKey(doc.Title)
			if seen[key] {
				continue
			}
			seen[key] = true
			if accept(doc) {
				return
			}
		}
	}
}

// searchParallel issues every (searcher, term) pair concurrently and joins
// all results. Slot indexing keeps merge order equal to term-list order
// then per-term result order, regardless of completion order; merging
// happens only after the join.
func (e *Engine) searchParallel(ctx context.Context, searchers []Searcher, terms []string) []normalize.Document {
	type task struct {
		s    Searcher
		term string
	}
	var tasks []task
	for _, term := range terms {
		for _, s := range searchers {
			if s != nil {
				tasks = append(tasks, task{s: s, term: term})
			}
		}
	}

	results := make([][]normalize.Document, len(tasks))
	errs := make([]error, len(tasks))

	var wg sync.WaitGroup
	for i, tk := range tasks {
		wg.Add(1)
		go func(i int, tk task) {
			defer wg.Done()
			docs, err := tk.s.SearchDocuments(ctx, tk.term, e.perTermLimit())
			results[i] = docs
			errs[i] = err
		}(i, tk)
	}
	wg.Wait()

	var all []normalize.Document
	for i := range tasks {
		if errs[i] != nil {
			e.logf("warning: %s search %q failed: %v", tasks[i].s.Name(), tasks[i].term, errs[i])
			continue
		}
		all = append(all, results[i]...)
	}
	return normalize.Dedupe(all)
}

// appendUnique folds a text value into a list with the standard dedup key
// (lowercase, punctuation-stripped); the first occurrence wins.
func appendUnique(list []string, seen map[string]bool, value string) []string {
	key := normalize.TitleKey(value)
	if key == "" || seen[key] {
		return list
	}
	seen[key] = true
	return append(list, value)
}

// DrugSafety builds the composite safety answer for one drug. Pregnancy
// category and lactation safety use early-stop sequential search so the
// first good match wins; contraindications use parallel-all.
func (e *Engine) DrugSafety(ctx context.Context, drug string) DrugSafetyInfo {
	info := DrugSafetyInfo{
		Drug:              drug,
		PregnancyCategory: DefaultPregnancyCategory,
		LactationSafety:   DefaultLactationSafety,
		Contraindications: []string{},
	}
	sourceSeen := make(map[string]bool)
	addSource := func(id string) {
		if !sourceSeen[id] {
			sourceSeen[id] = true
			info.Sources = append(info.Sources, id)
		}
	}

	e.searchSequential(ctx, e.Literature, PregnancyTerms(drug), func(doc normalize.Document) bool {
		v, ok := extract.PregnancyCategory(doc.Text())
		if !ok {
			return false
		}
		info.PregnancyCategory = v
		addSource(doc.ID)
		return true
	})

	e.searchSequential(ctx, e.Literature, LactationTerms(drug), func(doc normalize.Document) bool {
		v, ok := extract.LactationSafety(doc.Text())
		if !ok || v == "Unknown" {
			return false
		}
		info.LactationSafety = v
		addSource(doc.ID)
		return true
	})

	seen := make(map[string]bool)
	for _, doc := range e.searchParallel(ctx, []Searcher{e.Literature}, ContraindicationTerms(drug)) {
		for _, c := range extract.Contraindications(doc.Text()) {
			before := len(info.Contraindications)
			info.Contraindications = appendUnique(info.Contraindications, seen, c)
			if len(info.Contraindications) > before {
				addSource(doc.ID)
			}
		}
	}
	return info
}

// CheckInteractions searches for interaction reports between two drugs
// and classifies each finding's severity. Parallel-all mode.
func (e *Engine) CheckInteractions(ctx context.Context, drug1, drug2 string) []DrugInteraction {
	interactions := []DrugInteraction{}
	seen := make(map[string]bool)

	for _, doc := range e.searchParallel(ctx, []Searcher{e.Literature}, InteractionTerms(drug1, drug2)) {
		severity, ok := extract.InteractionSeverity(doc.Text())
		if !ok {
			continue
		}
		key := normalize.TitleKey(doc.Title)
		if seen[key] {
			continue
		}
		seen[key] = true
		interactions = append(interactions, DrugInteraction{
			Drug1:       drug1,
			Drug2:       drug2,
			Severity:    severity,
			Description: doc.Title,
			Source:      doc.ID,
		})
	}
	return interactions
}

// DiagnosticCriteriaFor runs the early-stop criteria battery for one
// condition; the first document with a criteria set supplies the answer,
// including any red flags it carries.
func (e *Engine) DiagnosticCriteriaFor(ctx context.Context, condition string) DiagnosticCriteria {
	dc := DiagnosticCriteria{
		Condition: condition,
		Groups:    []CriteriaGroup{},
		RedFlags:  []string{},
	}

	e.searchSequential(ctx, e.Literature, CriteriaTerms(condition), func(doc normalize.Document) bool {
		sets := extract.CriteriaSets(doc.Text())
		if len(sets) == 0 {
			return false
		}
		for _, cs := range sets {
			dc.Groups = append(dc.Groups, CriteriaGroup{
				Category: cs.Category,
				Items:    cs.Items,
				Required: cs.Required,
			})
		}
		seen := make(map[string]bool)
		for _, rf := range extract.RedFlags(doc.Text()) {
			dc.RedFlags = appendUnique(dc.RedFlags, seen, rf)
		}
		dc.Sources = append(dc.Sources, doc.ID)
		return true
	})
	return dc
}

// Differential builds a differential-diagnosis answer for a symptom set.
// An empty symptom list is a caller contract violation and is rejected
// before any adapter call.
func (e *Engine) Differential(ctx context.Context, symptoms []string) (DifferentialDiagnosis, error) {
	var cleaned []string
	for _, s := range symptoms {
		if s = strings.TrimSpace(s); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	if len(cleaned) == 0 {
		return DifferentialDiagnosis{}, fmt.Errorf("symptom list must not be empty")
	}

	dd := DifferentialDiagnosis{
		Symptoms:   cleaned,
		Candidates: []string{},
		RedFlags:   []string{},
	}

	joined := strings.Join(cleaned, " ")
	candidateSeen := make(map[string]bool)
	flagSeen := make(map[string]bool)
	sourceSeen := make(map[string]bool)

	searchers := []Searcher{e.Literature, e.Scholar}
	for _, doc := range e.searchParallel(ctx, searchers, DifferentialTerms(joined)) {
		items := extract.DifferentialItems(doc.Text())
		flags := extract.RedFlags(doc.Text())
		if len(items) == 0 && len(flags) == 0 {
			continue
		}
		for _, item := range items {
			dd.Candidates = appendUnique(dd.Candidates, candidateSeen, item)
		}
		for _, rf := range flags {
			dd.RedFlags = appendUnique(dd.RedFlags, flagSeen, rf)
		}
		if !sourceSeen[doc.ID] {
			sourceSeen[doc.ID] = true
			dd.Sources = append(dd.Sources, doc.ID)
		}
	}
	return dd, nil
}

// RiskCalculators runs the early-stop battery for each score in the fixed
// roster and returns the ones the literature confirmed.
func (e *Engine) RiskCalculators(ctx context.Context) []RiskCalculator {
	calculators := []RiskCalculator{}
	for _, name := range calculatorNames {
		e.searchSequential(ctx, e.Literature, CalculatorTerms(name), func(doc normalize.Document) bool {
			for _, c := range extract.Calculators(doc.Text()) {
				if !strings.EqualFold(c.Name, name) {
					continue
				}
				params := c.Parameters
				if params == nil {
					params = []string{}
				}
				calculators = append(calculators, RiskCalculator{
					Name:       c.Name,
					Parameters: params,
					Source:     doc.ID,
				})
				return true
			}
			return false
		})
	}
	return calculators
}

// LabValues runs the early-stop battery for each test in the fixed panel.
// Tests whose range was never found are still present, flagged not found.
func (e *Engine) LabValues(ctx context.Context) []LabValue {
	values := make([]LabValue, 0, len(labTestNames))
	for _, test := range labTestNames {
		lv := LabValue{Test: test}
		e.searchSequential(ctx, e.Literature, LabValueTerms(test), func(doc normalize.Document) bool {
			r, ok := extract.LabRange(doc.Text())
			if !ok {
				return false
			}
			lv.Low = r.Low
			lv.High = r.High
			lv.Units = r.Units
			lv.AgeGroup = r.AgeGroup
			lv.Found = true
			lv.Source = doc.ID
			if cv, ok := extract.CriticalValues(doc.Text()); ok {
				lv.CriticalLow = cv.Low
				lv.CriticalHigh = cv.High
			}
			return true
		})
		values = append(values, lv)
	}
	return values
}

// Guidelines searches for clinical guidelines matching a query,
// optionally filtered to one issuing organization. Parallel-all mode
// across the citation index and academic search.
func (e *Engine) Guidelines(ctx context.Context, query, organization string) []ClinicalGuideline {
	guidelines := []ClinicalGuideline{}
	seen := make(map[string]bool)

	searchers := []Searcher{e.Literature, e.Scholar}
	for _, doc := range e.searchParallel(ctx, searchers, GuidelineTerms(query)) {
		g, ok := extract.GuidelineMeta(doc.Text())
		if !ok {
			continue
		}
		if organization != "" && !strings.EqualFold(g.Organization, organization) {
			continue
		}
		key := normalize.TitleKey(doc.Title)
		if seen[key] {
			continue
		}
		seen[key] = true

		year := g.Year
		if year == "" {
			year = doc.Year
		}
		guidelines = append(guidelines, ClinicalGuideline{
			Title:         doc.Title,
			Organization:  g.Organization,
			Category:      g.Category,
			EvidenceLevel: g.EvidenceLevel,
			Year:          year,
			URL:           doc.URL,
			Source:        doc.ID,
		})
	}
	return guidelines
}

// DatabaseResults is the merged document view across every configured
// source for one query.
type DatabaseResults struct {
	Query     string               `json:"query"`
	Documents []normalize.Document `json:"documents"`
}

// MedicalDatabases fans one query out to every configured searcher in
// parallel and merges the deduplicated documents.
func (e *Engine) MedicalDatabases(ctx context.Context, query string) DatabaseResults {
	docs := e.searchParallel(ctx, []Searcher{e.Literature, e.Scholar, e.Trials}, []string{query})
	if docs == nil {
		docs = []normalize.Document{}
	}
	return DatabaseResults{Query: query, Documents: docs}
}

// JournalSearch drives the journal battery against the citation index and
// keeps documents that carry a journal attribution.
func (e *Engine) JournalSearch(ctx context.Context, query string) []normalize.Document {
	docs := []normalize.Document{}
	for _, doc := range e.searchParallel(ctx, []Searcher{e.Literature}, JournalTerms(query)) {
		if doc.Journal == normalize.UnknownJournal {
			continue
		}
		docs = append(docs, doc)
	}
	return docs
}
