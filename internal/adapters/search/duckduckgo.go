package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/time/rate"

	"github.com/arpankumarde/neevtrace/internal/platform/httpx"
	"github.com/arpankumarde/neevtrace/internal/platform/obs"
	"github.com/arpankumarde/neevtrace/internal/ports"
)

const browserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// DuckDuckGo scrapes the DuckDuckGo lite HTML page. All instances share one
// limiter so the process stays at one query per second.
type DuckDuckGo struct {
	http       *httpx.Client
	endpoint   string
	maxResults int
	limiter    *rate.Limiter
}

var ddgLimiter = rate.NewLimiter(rate.Every(time.Second), 1)

func NewDuckDuckGo(client *httpx.Client) *DuckDuckGo {
	return &DuckDuckGo{
		http:       client,
		endpoint:   "https://lite.duckduckgo.com/lite/",
		maxResults: 5,
		limiter:    ddgLimiter,
	}
}

// WithEndpoint points the searcher somewhere else, e.g. an httptest server.
func (d *DuckDuckGo) WithEndpoint(endpoint string, limiter *rate.Limiter) *DuckDuckGo {
	cp := *d
	cp.endpoint = endpoint
	if limiter != nil {
		cp.limiter = limiter
	}
	return &cp
}

func (d *DuckDuckGo) Search(ctx context.Context, query string) (_ []ports.SearchResult, err error) {
	defer obs.Time(ctx, "search.duckduckgo")(&err)

	if strings.TrimSpace(query) == "" {
		return nil, errors.New("duckduckgo: query is empty")
	}
	if err := d.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("q", query)

	resp, err := d.http.DoWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", browserAgent)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("duckduckgo: %w", err)
	}
	defer resp.Body.Close()

	results, err := parseLite(resp.Body, d.maxResults)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo: parse results: %w", err)
	}
	return results, nil
}

// parseLite walks the lite page: each result is an <a class="result-link">
// followed by a <td class="result-snippet">.
func parseLite(r io.Reader, max int) ([]ports.SearchResult, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var results []ports.SearchResult
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if len(results) >= max && max > 0 {
			return
		}
		if n.Type == html.ElementNode {
			switch {
			case n.Data == "a" && hasClass(n, "result-link"):
				href := resultURL(attr(n, "href"))
				title := nodeText(n)
				if href != "" && title != "" {
					results = append(results, ports.SearchResult{Title: title, URL: href})
				}
				return
			case n.Data == "td" && hasClass(n, "result-snippet"):
				if len(results) > 0 && results[len(results)-1].Snippet == "" {
					results[len(results)-1].Snippet = nodeText(n)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return results, nil
}

// resultURL unwraps DuckDuckGo's redirect links (//duckduckgo.com/l/?uddg=...).
func resultURL(href string) string {
	href = strings.TrimSpace(href)
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	if u.Scheme == "" && strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	return href
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

// plainText strips markup from an HTML fragment.
func plainText(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}
