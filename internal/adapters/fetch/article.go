package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/arpankumarde/neevtrace/internal/platform/httpx"
	"github.com/arpankumarde/neevtrace/internal/platform/obs"
	"github.com/arpankumarde/neevtrace/internal/ports"
)

// 32KB keeps a single article from flooding the model context.
const maxArticleBytes = 32 * 1024

const browserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// ArticleReader downloads news and blog pages and extracts their readable
// text: the <title> plus paragraph and heading text outside page chrome.
type ArticleReader struct {
	http *httpx.Client
}

func NewArticleReader(client *httpx.Client) *ArticleReader {
	return &ArticleReader{http: client}
}

func (a *ArticleReader) FetchArticle(ctx context.Context, rawURL string) (_ ports.Article, err error) {
	defer obs.Time(ctx, "fetch.article")(&err)

	target := strings.TrimSpace(rawURL)
	if target == "" {
		return ports.Article{}, errors.New("article: url is empty")
	}
	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return ports.Article{}, fmt.Errorf("article: unsupported url %q", rawURL)
	}

	resp, err := a.http.DoWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", browserAgent)
		req.Header.Set("Accept", "text/html,application/xhtml+xml")
		return req, nil
	})
	if err != nil {
		return ports.Article{}, fmt.Errorf("article %q: %w", target, err)
	}
	defer resp.Body.Close()

	title, text, err := extract(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return ports.Article{}, fmt.Errorf("article %q: parse html: %w", target, err)
	}

	if len(text) > maxArticleBytes {
		text = text[:maxArticleBytes] + "\n[TRUNCATED]"
	}
	return ports.Article{URL: target, Title: title, Text: text}, nil
}

var skipped = map[atom.Atom]bool{
	atom.Script: true, atom.Style: true, atom.Noscript: true,
	atom.Nav: true, atom.Header: true, atom.Footer: true,
	atom.Aside: true, atom.Form: true, atom.Svg: true,
}

var blocks = map[atom.Atom]bool{
	atom.P: true, atom.H1: true, atom.H2: true, atom.H3: true,
	atom.H4: true, atom.Li: true, atom.Blockquote: true, atom.Pre: true,
}

func extract(r io.Reader) (title, text string, err error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", "", err
	}

	root := doc
	if art := find(doc, atom.Article); art != nil {
		root = art
	}
	if t := find(doc, atom.Title); t != nil {
		title = collapse(textOf(t))
	}

	var paras []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if skipped[n.DataAtom] {
				return
			}
			if blocks[n.DataAtom] {
				if s := collapse(textOf(n)); s != "" {
					paras = append(paras, s)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return title, strings.Join(paras, "\n\n"), nil
}

func find(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, a); found != nil {
			return found
		}
	}
	return nil
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skipped[n.DataAtom] {
			return
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
