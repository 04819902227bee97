package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arpankumarde/neevtrace/internal/platform/httpx"
)

const page = `<!doctype html>
<html><head><title>Port congestion eases</title><script>var x = 1;</script></head>
<body>
<nav><p>Home | World</p></nav>
<article>
  <h1>Port congestion eases</h1>
  <p>Container dwell times at <b>Nhava Sheva</b> fell to 2.1 days.</p>
  <aside><p>Related stories</p></aside>
  <p>Shippers are rerouting   via rail.</p>
</article>
<footer><p>Copyright</p></footer>
</body></html>`

func TestFetchArticle_ExtractsReadableText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(page))
	}))
	defer srv.Close()

	a := NewArticleReader(httpx.New(5 * time.Second))
	got, err := a.FetchArticle(context.Background(), srv.URL+"/news/1")
	require.NoError(t, err)

	assert.Equal(t, "Port congestion eases", got.Title)
	assert.Equal(t,
		"Port congestion eases\n\nContainer dwell times at Nhava Sheva fell to 2.1 days.\n\nShippers are rerouting via rail.",
		got.Text)
}

func TestFetchArticle_RejectsNonHTTP(t *testing.T) {
	a := NewArticleReader(httpx.New(time.Second))
	_, err := a.FetchArticle(context.Background(), "file:///etc/passwd")
	require.Error(t, err)
}
