package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/arpankumarde/neevtrace/internal/platform/httpx"
)

func testClient() *httpx.Client {
	c := httpx.New(5 * time.Second)
	c.Backoff = time.Millisecond
	return c
}

const litePage = `<html><body><table>
<tr><td><a rel="nofollow" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.org%2Ffreight" class='result-link'>Freight &amp; emissions</a></td></tr>
<tr><td class='result-snippet'>Road freight emits about <b>62 g</b> CO2e per tonne-km.</td></tr>
<tr><td><a rel="nofollow" href="https://example.com/rail" class='result-link'>Rail freight</a></td></tr>
<tr><td class='result-snippet'>Rail is cleaner.</td></tr>
</table></body></html>`

func TestDuckDuckGo_ParsesLitePage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "truck emissions", r.PostForm.Get("q"))
		w.Write([]byte(litePage))
	}))
	defer srv.Close()

	d := NewDuckDuckGo(testClient()).WithEndpoint(srv.URL, rate.NewLimiter(rate.Inf, 1))

	got, err := d.Search(context.Background(), "truck emissions")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Freight & emissions", got[0].Title)
	assert.Equal(t, "https://example.org/freight", got[0].URL)
	assert.Equal(t, "Road freight emits about 62 g CO2e per tonne-km.", got[0].Snippet)
	assert.Equal(t, "https://example.com/rail", got[1].URL)
}

func TestDuckDuckGo_EmptyQuery(t *testing.T) {
	d := NewDuckDuckGo(testClient())
	_, err := d.Search(context.Background(), "  ")
	require.Error(t, err)
}

func TestWikipedia_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/w/api.php", r.URL.Path)
		assert.Equal(t, "Carbon footprint", r.URL.Query().Get("srsearch"))
		w.Write([]byte(`{"query":{"search":[{"title":"Carbon footprint","snippet":"The <span class=\"searchmatch\">carbon</span> footprint is"}]}}`))
	}))
	defer srv.Close()

	got, err := NewWikipedia(testClient(), srv.URL).Search(context.Background(), "Carbon footprint")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, srv.URL+"/wiki/Carbon_footprint", got[0].URL)
	assert.Equal(t, "The carbon footprint is", got[0].Snippet)
}

func TestArxiv_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.URL.Query().Get("search_query"), "all:"))
		w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/2101.00001v1</id>
    <title>Green  vehicle
      routing</title>
    <summary>We study emissions-aware routing.</summary>
    <link href="http://arxiv.org/pdf/2101.00001v1" rel="related" type="application/pdf"/>
  </entry>
</feed>`))
	}))
	defer srv.Close()

	got, err := NewArxiv(testClient(), srv.URL).Search(context.Background(), "vehicle routing emissions")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Green vehicle routing", got[0].Title)
	assert.Equal(t, "http://arxiv.org/pdf/2101.00001v1", got[0].URL)
}
