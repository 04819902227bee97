package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/arpankumarde/neevtrace/internal/agent"
	"github.com/arpankumarde/neevtrace/internal/ports"
)

// ReadArticle fetches a news or blog page and returns its text.
type ReadArticle struct {
	fetcher ports.ArticleFetcher
}

func NewReadArticle(f ports.ArticleFetcher) *ReadArticle {
	return &ReadArticle{fetcher: f}
}

func (t *ReadArticle) Spec() ports.ToolSpec {
	return ports.ToolSpec{
		Name:        "read_article",
		Description: "Download a news article or web page and return its readable text.",
		Parameters:  agent.ObjectParams(stringParam("url", "Absolute http(s) URL of the article")),
	}
}

func (t *ReadArticle) Call(ctx context.Context, args json.RawMessage) (string, error) {
	var url string
	if err := decodeArgs(args, map[string]*string{"url": &url}); err != nil {
		return "", err
	}

	a, err := t.fetcher.FetchArticle(ctx, url)
	if err != nil {
		return "", err
	}
	if a.Text == "" {
		return fmt.Sprintf("Title: %s\n\n(no readable text found)", a.Title), nil
	}
	return fmt.Sprintf("Title: %s\n\n%s", a.Title, a.Text), nil
}
