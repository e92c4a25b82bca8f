package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hurttlocker/meddex/internal/source"
)

const interactionEfetchXML = `<?xml version="1.0"?>
<PubmedArticleSet>
<PubmedArticle>
<PMID Version="1">12345</PMID>
<Article>
<Journal><Title>Thrombosis Research</Title></Journal>
<ArticleTitle>Warfarin and aspirin interaction</ArticleTitle>
<Abstract><AbstractText>Concurrent use carries a major bleeding risk.</AbstractText></Abstract>
</Article>
</PubmedArticle>
</PubmedArticleSet>`

// setupTestServer wires every adapter at a fixture HTTP server. PubMed
// serves one interaction article; openFDA serves one aspirin label; every
// other endpoint returns an empty result set.
func setupTestServer(t *testing.T) *server.MCPServer {
	t.Helper()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/esearch.fcgi"):
			fmt.Fprint(w, `{"esearchresult":{"count":"1","idlist":["12345"]}}`)
		case strings.HasSuffix(r.URL.Path, "/efetch.fcgi"):
			fmt.Fprint(w, interactionEfetchXML)
		case strings.HasSuffix(r.URL.Path, "/drug/label.json"):
			fmt.Fprint(w, `{"results":[{"id":"label-1","openfda":{"brand_name":["Aspirin"],"generic_name":["aspirin"],"product_ndc":["0363-0587"]},"warnings":["Reye's syndrome warning."]}]}`)
		default:
			fmt.Fprint(w, `{}`)
		}
	}))
	t.Cleanup(ts.Close)

	cfg := source.DefaultConfig()
	cfg.OpenFDABase = ts.URL + "/drug/label.json"
	cfg.WHOBase = ts.URL + "/who"
	cfg.PubMedBase = ts.URL + "/eutils"
	cfg.RxNormBase = ts.URL + "/rxnorm"
	cfg.ScholarBase = ts.URL + "/scholar"
	cfg.TrialsBase = ts.URL + "/trials"
	cfg.ScholarDelayMin = 0
	cfg.ScholarDelayMax = 0

	return NewServer(ServerConfig{Version: "test", Sources: cfg, PerTermLimit: 3})
}

// callTool invokes an MCP tool through the JSON-RPC surface.
func callTool(t *testing.T, srv *server.MCPServer, name string, args map[string]interface{}) *mcplib.CallToolResult {
	t.Helper()

	result := srv.HandleMessage(context.Background(), mustMarshal(t, map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/call",
		"params": map[string]interface{}{
			"name":      name,
			"arguments": args,
		},
	}))

	respBytes, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}

	var resp struct {
		Result struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
			IsError bool `json:"isError"`
		} `json:"result"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		t.Fatalf("unmarshal response: %v\nraw: %s", err, string(respBytes))
	}
	if resp.Error != nil {
		t.Fatalf("JSON-RPC error: %d %s", resp.Error.Code, resp.Error.Message)
	}

	callResult := &mcplib.CallToolResult{IsError: resp.Result.IsError}
	for _, c := range resp.Result.Content {
		if c.Type == "text" {
			callResult.Content = append(callResult.Content, mcplib.NewTextContent(c.Text))
		}
	}
	return callResult
}

func mustMarshal(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return data
}

func getTextContent(t *testing.T, result *mcplib.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("no content in result")
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcplib.TextContent); ok {
			return tc.Text
		}
	}
	t.Fatal("no text content in result")
	return ""
}

func TestNewServer(t *testing.T) {
	if srv := setupTestServer(t); srv == nil {
		t.Fatal("NewServer returned nil")
	}
}

func TestToolsListRegistersAll(t *testing.T) {
	srv := setupTestServer(t)

	result := srv.HandleMessage(context.Background(), mustMarshal(t, map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/list",
	}))

	respBytes, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	var resp struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}

	registered := map[string]bool{}
	for _, tool := range resp.Result.Tools {
		registered[tool.Name] = true
	}

	expected := []string{
		"search-drugs",
		"get-drug-details",
		"get-health-statistics",
		"search-medical-literature",
		"get-article-details",
		"search-drug-nomenclature",
		"search-google-scholar",
		"search-clinical-guidelines",
		"get-drug-safety-info",
		"check-drug-interactions",
		"generate-differential-diagnosis",
		"get-risk-calculators",
		"get-lab-values",
		"get-diagnostic-criteria",
		"search-medical-databases",
		"search-medical-journals",
	}
	for _, name := range expected {
		if !registered[name] {
			t.Errorf("tool %q not registered", name)
		}
	}
	if len(resp.Result.Tools) != len(expected) {
		t.Errorf("registered %d tools, want %d", len(resp.Result.Tools), len(expected))
	}
}

func TestSearchDrugsTool(t *testing.T) {
	srv := setupTestServer(t)

	result := callTool(t, srv, "search-drugs", map[string]interface{}{"query": "aspirin"})
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", getTextContent(t, result))
	}
	text := getTextContent(t, result)
	if !strings.Contains(text, "Aspirin") {
		t.Errorf("result missing brand name: %s", text)
	}
	if !strings.Contains(text, "research purposes only") {
		t.Error("result missing disclaimer")
	}
}

func TestSearchDrugsToolRequiresQuery(t *testing.T) {
	srv := setupTestServer(t)

	result := callTool(t, srv, "search-drugs", map[string]interface{}{})
	if !result.IsError {
		t.Fatal("expected tool error for missing query")
	}
}

func TestCheckInteractionsToolEndToEnd(t *testing.T) {
	srv := setupTestServer(t)

	result := callTool(t, srv, "check-drug-interactions", map[string]interface{}{
		"drug1": "warfarin",
		"drug2": "aspirin",
	})
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", getTextContent(t, result))
	}
	text := getTextContent(t, result)
	if !strings.Contains(text, `"severity": "Major"`) {
		t.Errorf("expected Major severity in result: %s", text)
	}
	if !strings.Contains(text, `"source": "12345"`) {
		t.Errorf("expected source PMID in result: %s", text)
	}
}

func TestDifferentialToolRejectsEmptySymptoms(t *testing.T) {
	srv := setupTestServer(t)

	result := callTool(t, srv, "generate-differential-diagnosis", map[string]interface{}{
		"symptoms": " , ,",
	})
	if !result.IsError {
		t.Fatal("expected tool error for blank symptom list")
	}
	if !strings.Contains(getTextContent(t, result), "symptom") {
		t.Errorf("error should mention symptoms: %s", getTextContent(t, result))
	}
}

func TestGetDrugSafetyToolReturnsSentinels(t *testing.T) {
	srv := setupTestServer(t)

	// The fixture article discusses an interaction, not pregnancy or
	// lactation, so both safety fields fall back to their defaults.
	result := callTool(t, srv, "get-drug-safety-info", map[string]interface{}{
		"drug_name": "warfarin",
	})
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", getTextContent(t, result))
	}
	text := getTextContent(t, result)
	if !strings.Contains(text, `"pregnancy_category": "N"`) {
		t.Errorf("expected default pregnancy category: %s", text)
	}
	if !strings.Contains(text, `"lactation_safety": "Unknown"`) {
		t.Errorf("expected default lactation safety: %s", text)
	}
}
