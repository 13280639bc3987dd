package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"golang.org/x/net/html"

	"github.com/nikitagawde10/spanish-professor/internal/core/domain"
)

const (
	// DefaultBraveEndpoint is the Brave Search web endpoint.
	DefaultBraveEndpoint = "https://api.search.brave.com/res/v1/web/search"

	searchUnavailableNote = "web search unavailable: no search credential configured"
	maxSearchResults      = 5
	maxSearchBody         = 1 << 20
)

// WebSearchConfig configures the web_search tool.
type WebSearchConfig struct {
	// APIKey is the Brave subscription token. Empty disables the tool.
	APIKey string
	// Endpoint overrides DefaultBraveEndpoint (tests).
	Endpoint string
	// Client defaults to http.DefaultClient. The registry applies the timeout.
	Client *http.Client
}

// WebSearchTool queries Brave Search. Missing credentials and upstream
// failures come back as a textual note, never as a crash.
type WebSearchTool struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

var _ domain.Tool = (*WebSearchTool)(nil)

func NewWebSearchTool(cfg WebSearchConfig) *WebSearchTool {
	t := &WebSearchTool{
		apiKey:   strings.TrimSpace(cfg.APIKey),
		endpoint: cfg.Endpoint,
		client:   cfg.Client,
	}
	if t.endpoint == "" {
		t.endpoint = DefaultBraveEndpoint
	}
	if t.client == nil {
		t.client = http.DefaultClient
	}
	return t
}

func (t *WebSearchTool) Name() string { return "web_search" }

func (t *WebSearchTool) Description() string {
	return "Searches the web with Brave Search. Returns the top results with titles, URLs and snippets. " +
		"Use it only for facts the other tools cannot give."
}

func (t *WebSearchTool) InputSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("query", withDescription(openapi3.NewStringSchema().WithMinLength(1), "The search query")).
		WithRequired([]string{"query"})
}

// SearchResult is one web hit.
type SearchResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

func (t *WebSearchTool) Invoke(ctx context.Context, args json.RawMessage) (string, error) {
	var in struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return "", fmt.Errorf("decode arguments: %w", err)
	}
	if t.apiKey == "" {
		return searchUnavailableNote, nil
	}

	results, err := t.searchBrave(ctx, in.Query)
	if err != nil {
		// Let the registry report deadlines as timeouts.
		if ctx.Err() != nil {
			return "", err
		}
		return "web search failed: " + err.Error(), nil
	}
	if len(results) == 0 {
		return fmt.Sprintf("no web results for %q", in.Query), nil
	}
	return formatResults(results), nil
}

func (t *WebSearchTool) searchBrave(ctx context.Context, query string) ([]SearchResult, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("count", fmt.Sprint(maxSearchResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Subscription-Token", t.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			// url.Error repeats the request URL; keep only the cause.
			return nil, urlErr.Err
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("brave api status %d", resp.StatusCode)
	}

	var braveResp struct {
		Web struct {
			Results []struct {
				Title       string `json:"title"`
				URL         string `json:"url"`
				Description string `json:"description"`
			} `json:"results"`
		} `json:"web"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxSearchBody)).Decode(&braveResp); err != nil {
		return nil, fmt.Errorf("decode brave response: %w", err)
	}

	var results []SearchResult
	for _, r := range braveResp.Web.Results {
		if len(results) == maxSearchResults {
			break
		}
		results = append(results, SearchResult{
			Title:   stripHTML(r.Title),
			Link:    r.URL,
			Snippet: stripHTML(r.Description),
		})
	}
	return results, nil
}

// stripHTML drops tags (Brave wraps matches in <strong>) and unescapes
// entities.
func stripHTML(s string) string {
	var sb strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(sb.String()), " ")
		case html.TextToken:
			sb.Write(z.Text())
		}
	}
}

func formatResults(results []SearchResult) string {
	var sb strings.Builder
	for i, r := range results {
		fmt.Fprintf(&sb, "%d. %s (%s)\n", i+1, r.Title, r.Link)
		if r.Snippet != "" {
			fmt.Fprintf(&sb, "   %s\n", r.Snippet)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}
