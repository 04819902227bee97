package search

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/arpankumarde/neevtrace/internal/platform/httpx"
	"github.com/arpankumarde/neevtrace/internal/platform/obs"
	"github.com/arpankumarde/neevtrace/internal/ports"
)

// Arxiv queries the arXiv Atom API.
type Arxiv struct {
	http       *httpx.Client
	endpoint   string
	maxResults int
}

func NewArxiv(client *httpx.Client, endpoint string) *Arxiv {
	if endpoint == "" {
		endpoint = "https://export.arxiv.org/api/query"
	}
	return &Arxiv{http: client, endpoint: endpoint, maxResults: 5}
}

type atomFeed struct {
	Entries []struct {
		ID      string `xml:"id"`
		Title   string `xml:"title"`
		Summary string `xml:"summary"`
		Links   []struct {
			Href string `xml:"href,attr"`
			Rel  string `xml:"rel,attr"`
			Type string `xml:"type,attr"`
		} `xml:"link"`
	} `xml:"entry"`
}

func (a *Arxiv) Search(ctx context.Context, query string) (_ []ports.SearchResult, err error) {
	defer obs.Time(ctx, "search.arxiv")(&err)

	if strings.TrimSpace(query) == "" {
		return nil, errors.New("arxiv: query is empty")
	}

	q := url.Values{}
	q.Set("search_query", "all:"+query)
	q.Set("start", "0")
	q.Set("max_results", fmt.Sprint(a.maxResults))
	endpoint := a.endpoint + "?" + q.Encode()

	resp, err := a.http.DoWithRetry(ctx, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("arxiv: %w", err)
	}
	defer resp.Body.Close()

	var feed atomFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("arxiv: decode feed: %w", err)
	}

	out := make([]ports.SearchResult, 0, len(feed.Entries))
	for _, e := range feed.Entries {
		link := strings.TrimSpace(e.ID)
		for _, l := range e.Links {
			if l.Type == "application/pdf" {
				link = l.Href
				break
			}
		}
		out = append(out, ports.SearchResult{
			Title:   strings.Join(strings.Fields(e.Title), " "),
			URL:     link,
			Snippet: strings.Join(strings.Fields(e.Summary), " "),
		})
	}
	return out, nil
}
