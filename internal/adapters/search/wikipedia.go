package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/arpankumarde/neevtrace/internal/platform/httpx"
	"github.com/arpankumarde/neevtrace/internal/platform/obs"
	"github.com/arpankumarde/neevtrace/internal/ports"
)

// Wikipedia searches the MediaWiki API.
type Wikipedia struct {
	http       *httpx.Client
	baseURL    string
	maxResults int
}

func NewWikipedia(client *httpx.Client, baseURL string) *Wikipedia {
	if baseURL == "" {
		baseURL = "https://en.wikipedia.org"
	}
	return &Wikipedia{http: client, baseURL: strings.TrimRight(baseURL, "/"), maxResults: 5}
}

type wikiResponse struct {
	Query struct {
		Search []struct {
			Title   string `json:"title"`
			Snippet string `json:"snippet"`
		} `json:"search"`
	} `json:"query"`
}

func (w *Wikipedia) Search(ctx context.Context, query string) (_ []ports.SearchResult, err error) {
	defer obs.Time(ctx, "search.wikipedia")(&err)

	if strings.TrimSpace(query) == "" {
		return nil, errors.New("wikipedia: query is empty")
	}

	q := url.Values{}
	q.Set("action", "query")
	q.Set("list", "search")
	q.Set("srsearch", query)
	q.Set("srlimit", fmt.Sprint(w.maxResults))
	q.Set("format", "json")
	endpoint := w.baseURL + "/w/api.php?" + q.Encode()

	resp, err := w.http.DoWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("wikipedia: %w", err)
	}
	defer resp.Body.Close()

	var decoded wikiResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("wikipedia: decode response: %w", err)
	}

	out := make([]ports.SearchResult, 0, len(decoded.Query.Search))
	for _, hit := range decoded.Query.Search {
		out = append(out, ports.SearchResult{
			Title:   hit.Title,
			URL:     w.baseURL + "/wiki/" + url.PathEscape(strings.ReplaceAll(hit.Title, " ", "_")),
			Snippet: plainText(hit.Snippet),
		})
	}
	return out, nil
}
