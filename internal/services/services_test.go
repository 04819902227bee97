package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arpankumarde/neevtrace/internal/agent"
	"github.com/arpankumarde/neevtrace/internal/domain"
	"github.com/arpankumarde/neevtrace/internal/parse"
)

type fakeQuerier struct {
	res   agent.Result
	err   error
	calls int
	block bool
}

func (f *fakeQuerier) Run(ctx context.Context, prompt string) (agent.Result, error) {
	f.calls++
	if f.block {
		<-ctx.Done()
		return agent.Result{}, errors.New("model request aborted")
	}
	return f.res, f.err
}

func structured(obj string) agent.Result {
	return agent.Result{Text: obj, Structured: json.RawMessage(obj)}
}

func TestEstimateCO2_Structured(t *testing.T) {
	q := &fakeQuerier{res: structured(`{"estimate": 123.5, "unit": "kg CO2e"}`)}
	svc := New(Agents{CO2: q}, time.Second)

	got, err := svc.EstimateCO2(context.Background(), "5 t steel, Pune to Chennai by rail")
	require.NoError(t, err)
	assert.Equal(t, domain.CO2Estimate{Estimate: 123.5, Unit: "kg CO2e"}, got)
}

func TestEstimateCO2_FallsBackToText(t *testing.T) {
	q := &fakeQuerier{res: agent.Result{Text: "estimate=0.0 unit='kg CO2e'"}}
	svc := New(Agents{CO2: q}, time.Second)

	got, err := svc.EstimateCO2(context.Background(), "empty container")
	require.NoError(t, err)
	assert.Equal(t, domain.CO2Estimate{Estimate: 0, Unit: "kg CO2e"}, got)
}

func TestEstimateCO2_MissingFieldIsTyped(t *testing.T) {
	q := &fakeQuerier{res: agent.Result{Text: "estimate=42"}}
	svc := New(Agents{CO2: q}, time.Second)

	_, err := svc.EstimateCO2(context.Background(), "q")
	var me *parse.MarkerError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "unit", me.Field)
}

func TestEstimateCO2_RejectsNegative(t *testing.T) {
	q := &fakeQuerier{res: structured(`{"estimate": -3, "unit": "kg CO2e"}`)}
	svc := New(Agents{CO2: q}, time.Second)

	_, err := svc.EstimateCO2(context.Background(), "q")
	assert.ErrorIs(t, err, domain.ErrInvalidEstimate)
}

func TestEmptyQueryNeverCallsAgent(t *testing.T) {
	q := &fakeQuerier{}
	svc := New(Agents{CO2: q, Route: q, Recommend: q}, time.Second)

	_, err := svc.EstimateCO2(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrEmptyQuery)
	_, err = svc.OptimizeRoute(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyQuery)
	_, err = svc.RecommendBid(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyQuery)
	assert.Zero(t, q.calls)
}

func TestDeadlineIsReported(t *testing.T) {
	q := &fakeQuerier{block: true}
	svc := New(Agents{Route: q}, 20*time.Millisecond)

	_, err := svc.OptimizeRoute(context.Background(), "Mumbai to Rotterdam")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestOptimizeRoute(t *testing.T) {
	q := &fakeQuerier{res: structured(`{"pros": "rail is cleaner", "cons": "slower", "estimate": 850.25, "unit": "kg CO2e"}`)}
	svc := New(Agents{Route: q}, time.Second)

	got, err := svc.OptimizeRoute(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, domain.RouteOptimization{Pros: "rail is cleaner", Cons: "slower", Estimate: 850.25, Unit: "kg CO2e"}, got)
}

func TestRecommendBid(t *testing.T) {
	text := "shortestBidId='B-2' shortestBidReason='1,200 km' optimalBidId='B-1' optimalBidReason='cheapest reliable'"
	q := &fakeQuerier{res: agent.Result{Text: text}}
	svc := New(Agents{Recommend: q}, time.Second)

	got, err := svc.RecommendBid(context.Background(), "bids...")
	require.NoError(t, err)
	assert.Equal(t, "B-2", got.ShortestBidID)
	assert.Equal(t, "cheapest reliable", got.OptimalBidReason)
}

func TestUpstreamErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	svc := New(Agents{Recommend: &fakeQuerier{err: boom}}, time.Second)

	_, err := svc.RecommendBid(context.Background(), "q")
	assert.ErrorIs(t, err, boom)
}

type fakeLoader struct {
	urls     []string
	recreate bool
}

func (f *fakeLoader) Load(ctx context.Context, urls []string, recreate bool) (domain.IngestReport, error) {
	f.urls, f.recreate = urls, recreate
	return domain.IngestReport{Documents: len(urls), Chunks: 7}, nil
}

func TestKnowledge(t *testing.T) {
	svc := New(Agents{}, time.Second)
	assert.False(t, svc.HasKnowledge())
	_, err := svc.AskKnowledge(context.Background(), "q")
	assert.ErrorIs(t, err, ErrNoKnowledgeBase)

	loader := &fakeLoader{}
	svc = New(Agents{Knowledge: &fakeQuerier{res: agent.Result{Text: "## Answer"}}, Loader: loader}, time.Second)
	require.True(t, svc.HasKnowledge())

	answer, err := svc.AskKnowledge(context.Background(), "what is in the datasheet?")
	require.NoError(t, err)
	assert.Equal(t, "## Answer", answer)

	rep, err := svc.LoadKnowledge(context.Background(), []string{"https://example.com/a.pdf"})
	require.NoError(t, err)
	assert.Equal(t, domain.IngestReport{Documents: 1, Chunks: 7}, rep)
	assert.False(t, loader.recreate)

	loader.urls = []string{"untouched"}
	_, err = svc.LoadKnowledge(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoDocuments)
	assert.Equal(t, []string{"untouched"}, loader.urls)
}

type slowLoader struct{}

func (slowLoader) Load(ctx context.Context, urls []string, recreate bool) (domain.IngestReport, error) {
	<-ctx.Done()
	return domain.IngestReport{}, ctx.Err()
}

func TestLoadKnowledge_HasItsOwnDeadline(t *testing.T) {
	svc := New(Agents{Knowledge: &fakeQuerier{}, Loader: slowLoader{}}, time.Hour, WithLoadTimeout(20*time.Millisecond))

	_, err := svc.LoadKnowledge(context.Background(), []string{"https://example.com/a.pdf"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
