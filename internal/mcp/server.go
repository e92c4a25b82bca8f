// Package mcp provides the Model Context Protocol server for meddex.
//
// It exposes the medical-information tools (drug search, literature
// search, guideline and safety aggregation, lab reference values) over
// stdio transport for MCP hosts such as Claude Desktop and Cursor.
//
// Direct-adapter tools surface upstream failures as tool errors. The
// aggregation tools never do: adapter failures inside an aggregation are
// logged and contribute empty results, so those tools only fail on a
// caller contract violation such as an empty symptom list.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hurttlocker/meddex/internal/aggregate"
	"github.com/hurttlocker/meddex/internal/source"
)

// disclaimer closes every tool response. Tool output is research material,
// not clinical advice, and hosts render it directly to end users.
const disclaimer = "This information is for research purposes only and is not a substitute for professional medical advice, diagnosis, or treatment."

// ServerConfig holds configuration for the MCP server.
type ServerConfig struct {
	Version      string        // version string for MCP server info
	Sources      source.Config // adapter settings, including endpoints
	PerTermLimit int           // documents fetched per aggregation search term
}

// NewServer creates a configured MCP server with all meddex tools.
func NewServer(cfg ServerConfig) *server.MCPServer {
	ver := cfg.Version
	if ver == "" {
		ver = "dev"
	}

	s := server.NewMCPServer(
		"meddex",
		ver,
		server.WithToolCapabilities(false),
	)

	openfda := source.NewOpenFDA(cfg.Sources)
	who := source.NewWHO(cfg.Sources)
	pubmed := source.NewPubMed(cfg.Sources)
	rxnorm := source.NewRxNorm(cfg.Sources)
	scholar := source.NewScholar(cfg.Sources)
	trials := source.NewTrials(cfg.Sources)

	engine := aggregate.NewEngine(pubmed, scholar, trials)
	engine.PerTermLimit = cfg.PerTermLimit

	registerSearchDrugsTool(s, openfda)
	registerDrugDetailsTool(s, openfda)
	registerHealthStatisticsTool(s, who)
	registerLiteratureTool(s, pubmed)
	registerArticleDetailsTool(s, pubmed)
	registerNomenclatureTool(s, rxnorm)
	registerScholarTool(s, scholar)
	registerGuidelinesTool(s, engine)
	registerDrugSafetyTool(s, engine)
	registerInteractionsTool(s, engine)
	registerDifferentialTool(s, engine)
	registerRiskCalculatorsTool(s, engine)
	registerLabValuesTool(s, engine)
	registerDiagnosticCriteriaTool(s, engine)
	registerDatabasesTool(s, engine)
	registerJournalsTool(s, engine)

	return s
}

// toolResult renders a payload as indented JSON followed by the standard
// disclaimer.
func toolResult(v any) *mcp.CallToolResult {
	data, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(data) + "\n\n" + disclaimer)
}

// clampLimit applies the tool's default and ceiling to an optional
// numeric limit argument.
func clampLimit(req mcp.CallToolRequest, key string, def, max int) int {
	limit := def
	if v, err := req.RequireFloat(key); err == nil && int(v) > 0 {
		limit = int(v)
	}
	if limit > max {
		limit = max
	}
	return limit
}

// --- Direct adapter tools ---

func registerSearchDrugsTool(s *server.MCPServer, adapter *source.OpenFDA) {
	tool := mcp.NewTool("search-drugs",
		mcp.WithDescription("Search the openFDA drug label database by brand or generic name. Returns label records with indications, warnings, contraindications, and dosage."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Drug brand or generic name"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of label records (default: 10, max: 50)"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := req.RequireString("query")
		if err != nil || strings.TrimSpace(query) == "" {
			return mcp.NewToolResultError("query is required"), nil
		}
		limit := clampLimit(req, "limit", 10, 50)

		labels, err := adapter.SearchDrugs(ctx, query, limit)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("drug search error: %v", err)), nil
		}
		if len(labels) == 0 {
			return mcp.NewToolResultText("No drug labels matched. Try a different brand or generic name.\n\n" + disclaimer), nil
		}
		return toolResult(labels), nil
	})
}

func registerDrugDetailsTool(s *server.MCPServer, adapter *source.OpenFDA) {
	tool := mcp.NewTool("get-drug-details",
		mcp.WithDescription("Fetch the full openFDA label record for one National Drug Code (NDC)."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("ndc",
			mcp.Required(),
			mcp.Description("Product NDC, e.g. 0071-0155"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ndc, err := req.RequireString("ndc")
		if err != nil || strings.TrimSpace(ndc) == "" {
			return mcp.NewToolResultError("ndc is required"), nil
		}

		label, err := adapter.GetDrugByNDC(ctx, ndc)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("NDC lookup error: %v", err)), nil
		}
		if label == nil {
			return mcp.NewToolResultText(fmt.Sprintf("No label found for NDC %s.\n\n%s", ndc, disclaimer)), nil
		}
		return toolResult(label), nil
	})
}

func registerHealthStatisticsTool(s *server.MCPServer, adapter *source.WHO) {
	tool := mcp.NewTool("get-health-statistics",
		mcp.WithDescription("Query WHO Global Health Observatory statistics by indicator name, optionally scoped to one country."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("indicator",
			mcp.Required(),
			mcp.Description("Health indicator name, e.g. 'life expectancy'"),
		),
		mcp.WithString("country",
			mcp.Description("ISO-3 country code filter, e.g. 'USA'. Empty = all countries."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of data points (default: 10, max: 20)"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		indicator, err := req.RequireString("indicator")
		if err != nil || strings.TrimSpace(indicator) == "" {
			return mcp.NewToolResultError("indicator is required"), nil
		}
		country := ""
		if c, err := req.RequireString("country"); err == nil {
			country = c
		}
		limit := clampLimit(req, "limit", 10, 20)

		matches, err := adapter.FindIndicator(ctx, indicator)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("indicator lookup error: %v", err)), nil
		}
		if len(matches) == 0 {
			return mcp.NewToolResultText("No WHO indicator matched. Try a different indicator name.\n\n" + disclaimer), nil
		}

		stats, err := adapter.GetStatistics(ctx, matches[0].Code, country, limit)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("statistics error: %v", err)), nil
		}
		return toolResult(map[string]any{
			"indicator":  matches[0],
			"statistics": stats,
		}), nil
	})
}

func registerLiteratureTool(s *server.MCPServer, adapter *source.PubMed) {
	tool := mcp.NewTool("search-medical-literature",
		mcp.WithDescription("Search the PubMed citation index. Returns articles with title, abstract, journal, year, authors, and DOI."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Literature search query"),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of articles (default: 10, max: 20)"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := req.RequireString("query")
		if err != nil || strings.TrimSpace(query) == "" {
			return mcp.NewToolResultError("query is required"), nil
		}
		limit := clampLimit(req, "max_results", 10, 20)

		articles, err := adapter.Search(ctx, query, limit)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("literature search error: %v", err)), nil
		}
		if len(articles) == 0 {
			return mcp.NewToolResultText("No articles found. Try different search terms.\n\n" + disclaimer), nil
		}
		return toolResult(articles), nil
	})
}

func registerArticleDetailsTool(s *server.MCPServer, adapter *source.PubMed) {
	tool := mcp.NewTool("get-article-details",
		mcp.WithDescription("Fetch one PubMed article by PMID."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("pmid",
			mcp.Required(),
			mcp.Description("PubMed identifier"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		pmid, err := req.RequireString("pmid")
		if err != nil || strings.TrimSpace(pmid) == "" {
			return mcp.NewToolResultError("pmid is required"), nil
		}

		article, err := adapter.Fetch(ctx, pmid)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("article fetch error: %v", err)), nil
		}
		if article == nil {
			return mcp.NewToolResultText(fmt.Sprintf("No article found for PMID %s.\n\n%s", pmid, disclaimer)), nil
		}
		return toolResult(article), nil
	})
}

func registerNomenclatureTool(s *server.MCPServer, adapter *source.RxNorm) {
	tool := mcp.NewTool("search-drug-nomenclature",
		mcp.WithDescription("Search RxNorm standardized drug nomenclature by name. Returns RxCUI concepts with term types."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Drug name"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := req.RequireString("query")
		if err != nil || strings.TrimSpace(query) == "" {
			return mcp.NewToolResultError("query is required"), nil
		}

		concepts, err := adapter.SearchConcepts(ctx, query)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("nomenclature search error: %v", err)), nil
		}
		if len(concepts) == 0 {
			return mcp.NewToolResultText("No RxNorm concepts matched.\n\n" + disclaimer), nil
		}
		return toolResult(concepts), nil
	})
}

func registerScholarTool(s *server.MCPServer, adapter *source.Scholar) {
	tool := mcp.NewTool("search-google-scholar",
		mcp.WithDescription("Search Google Scholar for academic results. Scraped and rate-limited; results carry title, snippet, byline, and URL."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Academic search query"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := req.RequireString("query")
		if err != nil || strings.TrimSpace(query) == "" {
			return mcp.NewToolResultError("query is required"), nil
		}

		results, err := adapter.Search(ctx, query)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("scholar search error: %v", err)), nil
		}
		if len(results) == 0 {
			return mcp.NewToolResultText("No scholar results found.\n\n" + disclaimer), nil
		}
		return toolResult(results), nil
	})
}

// --- Aggregation tools ---

func registerGuidelinesTool(s *server.MCPServer, engine *aggregate.Engine) {
	tool := mcp.NewTool("search-clinical-guidelines",
		mcp.WithDescription("Search for clinical practice guidelines across the citation index and academic search, extracting issuing organization, category, evidence level, and year."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Condition or topic, e.g. 'hypertension'"),
		),
		mcp.WithString("organization",
			mcp.Description("Filter to one issuing body, e.g. 'AHA', 'NICE', 'WHO'. Empty = all."),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := req.RequireString("query")
		if err != nil || strings.TrimSpace(query) == "" {
			return mcp.NewToolResultError("query is required"), nil
		}
		organization := ""
		if o, err := req.RequireString("organization"); err == nil {
			organization = o
		}

		guidelines := engine.Guidelines(ctx, query, organization)
		if len(guidelines) == 0 {
			return mcp.NewToolResultText("No guidelines found. Try broader terms or drop the organization filter.\n\n" + disclaimer), nil
		}
		return toolResult(guidelines), nil
	})
}

func registerDrugSafetyTool(s *server.MCPServer, engine *aggregate.Engine) {
	tool := mcp.NewTool("get-drug-safety-info",
		mcp.WithDescription("Aggregate pregnancy category, lactation safety, and contraindications for one drug from the literature. Unresolved fields fall back to 'N' (pregnancy) and 'Unknown' (lactation)."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("drug_name",
			mcp.Required(),
			mcp.Description("Drug name"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		drug, err := req.RequireString("drug_name")
		if err != nil || strings.TrimSpace(drug) == "" {
			return mcp.NewToolResultError("drug_name is required"), nil
		}
		return toolResult(engine.DrugSafety(ctx, drug)), nil
	})
}

func registerInteractionsTool(s *server.MCPServer, engine *aggregate.Engine) {
	tool := mcp.NewTool("check-drug-interactions",
		mcp.WithDescription("Search the literature for interactions between two drugs and classify severity as Contraindicated, Major, Moderate, or Minor."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("drug1",
			mcp.Required(),
			mcp.Description("First drug name"),
		),
		mcp.WithString("drug2",
			mcp.Required(),
			mcp.Description("Second drug name"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		drug1, err := req.RequireString("drug1")
		if err != nil || strings.TrimSpace(drug1) == "" {
			return mcp.NewToolResultError("drug1 is required"), nil
		}
		drug2, err := req.RequireString("drug2")
		if err != nil || strings.TrimSpace(drug2) == "" {
			return mcp.NewToolResultError("drug2 is required"), nil
		}

		interactions := engine.CheckInteractions(ctx, drug1, drug2)
		if len(interactions) == 0 {
			return mcp.NewToolResultText(fmt.Sprintf("No documented interactions found between %s and %s. Absence of evidence is not evidence of absence.\n\n%s", drug1, drug2, disclaimer)), nil
		}
		return toolResult(interactions), nil
	})
}

func registerDifferentialTool(s *server.MCPServer, engine *aggregate.Engine) {
	tool := mcp.NewTool("generate-differential-diagnosis",
		mcp.WithDescription("Build a literature-derived differential diagnosis for a set of symptoms, with red flags when present."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("symptoms",
			mcp.Required(),
			mcp.Description("Comma-separated symptom list, e.g. 'chest pain, dyspnea'"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, err := req.RequireString("symptoms")
		if err != nil {
			return mcp.NewToolResultError("symptoms is required"), nil
		}
		var symptoms []string
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				symptoms = append(symptoms, s)
			}
		}

		dd, err := engine.Differential(ctx, symptoms)
		if err != nil {
			return mcp.NewToolResultError("at least one symptom is required"), nil
		}
		return toolResult(dd), nil
	})
}

func registerRiskCalculatorsTool(s *server.MCPServer, engine *aggregate.Engine) {
	tool := mcp.NewTool("get-risk-calculators",
		mcp.WithDescription("List clinical risk calculators confirmed in the literature (CHA2DS2-VASc, HAS-BLED, MELD, Wells, CURB-65, GRACE, FRAX, Framingham, ASCVD), with extracted parameters."),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		calculators := engine.RiskCalculators(ctx)
		if len(calculators) == 0 {
			return mcp.NewToolResultText("No risk calculators could be confirmed right now.\n\n" + disclaimer), nil
		}
		return toolResult(calculators), nil
	})
}

func registerLabValuesTool(s *server.MCPServer, engine *aggregate.Engine) {
	tool := mcp.NewTool("get-lab-values",
		mcp.WithDescription("Report literature-derived reference ranges and critical values for a standard laboratory panel. Tests with no confirmed range are flagged as not found."),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return toolResult(engine.LabValues(ctx)), nil
	})
}

func registerDiagnosticCriteriaTool(s *server.MCPServer, engine *aggregate.Engine) {
	tool := mcp.NewTool("get-diagnostic-criteria",
		mcp.WithDescription("Extract diagnostic criteria sets for one condition from the literature, including required counts and red flags."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("condition",
			mcp.Required(),
			mcp.Description("Condition name, e.g. 'rheumatoid arthritis'"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		condition, err := req.RequireString("condition")
		if err != nil || strings.TrimSpace(condition) == "" {
			return mcp.NewToolResultError("condition is required"), nil
		}
		return toolResult(engine.DiagnosticCriteriaFor(ctx, condition)), nil
	})
}

func registerDatabasesTool(s *server.MCPServer, engine *aggregate.Engine) {
	tool := mcp.NewTool("search-medical-databases",
		mcp.WithDescription("Run one query across PubMed, Google Scholar, and ClinicalTrials.gov in parallel and merge deduplicated documents."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := req.RequireString("query")
		if err != nil || strings.TrimSpace(query) == "" {
			return mcp.NewToolResultError("query is required"), nil
		}
		return toolResult(engine.MedicalDatabases(ctx, query)), nil
	})
}

func registerJournalsTool(s *server.MCPServer, engine *aggregate.Engine) {
	tool := mcp.NewTool("search-medical-journals",
		mcp.WithDescription("Search the citation index with a journal-literature battery (plain, review, systematic review, meta-analysis) and keep documents with journal attribution."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := req.RequireString("query")
		if err != nil || strings.TrimSpace(query) == "" {
			return mcp.NewToolResultError("query is required"), nil
		}
		docs := engine.JournalSearch(ctx, query)
		if len(docs) == 0 {
			return mcp.NewToolResultText("No journal articles found. Try different search terms.\n\n" + disclaimer), nil
		}
		return toolResult(docs), nil
	})
}
