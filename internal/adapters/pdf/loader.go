package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/arpankumarde/neevtrace/internal/platform/httpx"
	"github.com/arpankumarde/neevtrace/internal/platform/obs"
)

const maxPDFBytes = 50 << 20

// ErrNoText is returned for PDFs without an extractable text layer, such as
// scanned documents.
var ErrNoText = errors.New("pdf: no extractable text")

// URLLoader downloads PDFs over HTTP and extracts their plain text.
type URLLoader struct {
	http *httpx.Client
}

func NewURLLoader(client *httpx.Client) *URLLoader {
	return &URLLoader{http: client}
}

func (l *URLLoader) Load(ctx context.Context, url string) (_ string, err error) {
	defer obs.Time(ctx, "pdf.Load")(&err)

	resp, err := l.http.DoWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/pdf")
		return req, nil
	})
	if err != nil {
		return "", fmt.Errorf("download %q: %w", url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPDFBytes+1))
	if err != nil {
		return "", fmt.Errorf("read %q: %w", url, err)
	}
	if len(data) > maxPDFBytes {
		return "", fmt.Errorf("pdf %q exceeds %d bytes", url, maxPDFBytes)
	}

	text, err := Text(data)
	if err != nil {
		return "", fmt.Errorf("pdf %q: %w", url, err)
	}
	return text, nil
}

// Text extracts the plain text of a PDF document held in memory.
func Text(data []byte) (text string, err error) {
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		return "", errors.New("pdf: not a PDF document")
	}

	// The parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf: malformed document: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf: open: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		pageText, err := p.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("pdf: page %d: %w", i, err)
		}
		b.WriteString(pageText)
		b.WriteString("\n\n")
	}

	text = strings.TrimSpace(b.String())
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}
