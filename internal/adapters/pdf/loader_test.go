package pdf

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/arpankumarde/neevtrace/internal/platform/httpx"
)

func TestText_RejectsNonPDF(t *testing.T) {
	if _, err := Text([]byte("<html>not a pdf</html>")); err == nil {
		t.Fatal("expected error for non-PDF input")
	}
}

func TestText_MalformedPDF(t *testing.T) {
	if _, err := Text([]byte("%PDF-1.4\ngarbage")); err == nil {
		t.Fatal("expected error for malformed PDF")
	}
}

func TestURLLoader_PropagatesHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	l := NewURLLoader(httpx.New(time.Second))
	if _, err := l.Load(context.Background(), srv.URL+"/missing.pdf"); err == nil {
		t.Fatal("expected error for 404")
	}
}
