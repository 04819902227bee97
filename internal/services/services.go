package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/arpankumarde/neevtrace/internal/agent"
	"github.com/arpankumarde/neevtrace/internal/domain"
	"github.com/arpankumarde/neevtrace/internal/parse"
	"github.com/arpankumarde/neevtrace/internal/platform/obs"
)

// ErrEmptyQuery is returned before any agent is called when the query is blank.
var ErrEmptyQuery = errors.New("query is required")

// ErrNoDocuments is returned by LoadKnowledge when no URL is given.
var ErrNoDocuments = errors.New("at least one document url is required")

// ErrNoKnowledgeBase is returned by the knowledge operations when the
// service was built without one.
var ErrNoKnowledgeBase = errors.New("knowledge base is not configured")

// Querier runs one prompt through an agent.
type Querier interface {
	Run(ctx context.Context, prompt string) (agent.Result, error)
}

// KnowledgeLoader ingests documents into the knowledge base. recreate empties
// the collection first; it is only passed by operator tooling.
type KnowledgeLoader interface {
	Load(ctx context.Context, urls []string, recreate bool) (domain.IngestReport, error)
}

// Agents groups the long-lived agents the service forwards queries to.
// Knowledge and Loader may be nil.
type Agents struct {
	CO2       Querier
	Route     Querier
	Recommend Querier
	Knowledge Querier
	Loader    KnowledgeLoader
}

// Service turns natural-language logistics queries into validated results.
// It keeps no per-request state and is safe for concurrent use.
type Service struct {
	agents      Agents
	timeout     time.Duration
	loadTimeout time.Duration
}

type Option func(*Service)

// WithLoadTimeout bounds LoadKnowledge. Zero leaves it to the caller's context.
func WithLoadTimeout(d time.Duration) Option {
	return func(s *Service) { s.loadTimeout = d }
}

func New(agents Agents, timeout time.Duration, opts ...Option) *Service {
	s := &Service{agents: agents, timeout: timeout}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HasKnowledge reports whether the knowledge operations are available.
func (s *Service) HasKnowledge() bool {
	return s.agents.Knowledge != nil && s.agents.Loader != nil
}

func (s *Service) EstimateCO2(ctx context.Context, query string) (est domain.CO2Estimate, err error) {
	defer obs.Time(ctx, "services.EstimateCO2")(&err)

	res, err := s.run(ctx, s.agents.CO2, query)
	if err != nil {
		return domain.CO2Estimate{}, fmt.Errorf("estimate co2: %w", err)
	}

	est, err = decode(res, parse.DecodeCO2Estimate, parse.ParseCO2Estimate)
	if err != nil {
		return domain.CO2Estimate{}, fmt.Errorf("estimate co2: %w", err)
	}
	if err := est.Validate(); err != nil {
		return domain.CO2Estimate{}, fmt.Errorf("estimate co2: %w", err)
	}
	return est, nil
}

func (s *Service) OptimizeRoute(ctx context.Context, query string) (opt domain.RouteOptimization, err error) {
	defer obs.Time(ctx, "services.OptimizeRoute")(&err)

	res, err := s.run(ctx, s.agents.Route, query)
	if err != nil {
		return domain.RouteOptimization{}, fmt.Errorf("optimize route: %w", err)
	}

	opt, err = decode(res, parse.DecodeRouteOptimization, parse.ParseRouteOptimization)
	if err != nil {
		return domain.RouteOptimization{}, fmt.Errorf("optimize route: %w", err)
	}
	if err := opt.Validate(); err != nil {
		return domain.RouteOptimization{}, fmt.Errorf("optimize route: %w", err)
	}
	return opt, nil
}

func (s *Service) RecommendBid(ctx context.Context, query string) (rec domain.LogisticRecommendation, err error) {
	defer obs.Time(ctx, "services.RecommendBid")(&err)

	res, err := s.run(ctx, s.agents.Recommend, query)
	if err != nil {
		return domain.LogisticRecommendation{}, fmt.Errorf("recommend bid: %w", err)
	}

	rec, err = decode(res, parse.DecodeLogisticRecommendation, parse.ParseLogisticRecommendation)
	if err != nil {
		return domain.LogisticRecommendation{}, fmt.Errorf("recommend bid: %w", err)
	}
	if err := rec.Validate(); err != nil {
		return domain.LogisticRecommendation{}, fmt.Errorf("recommend bid: %w", err)
	}
	return rec, nil
}

// AskKnowledge answers a question from the ingested documents. The answer
// is Markdown.
func (s *Service) AskKnowledge(ctx context.Context, query string) (answer string, err error) {
	defer obs.Time(ctx, "services.AskKnowledge")(&err)

	if s.agents.Knowledge == nil {
		return "", ErrNoKnowledgeBase
	}
	res, err := s.run(ctx, s.agents.Knowledge, query)
	if err != nil {
		return "", fmt.Errorf("ask knowledge: %w", err)
	}
	return res.Text, nil
}

// LoadKnowledge adds urls to the knowledge base, skipping documents already
// ingested. It never empties the collection; that is left to cmd/kbtool.
func (s *Service) LoadKnowledge(ctx context.Context, urls []string) (rep domain.IngestReport, err error) {
	defer obs.Time(ctx, "services.LoadKnowledge")(&err)

	if s.agents.Loader == nil {
		return domain.IngestReport{}, ErrNoKnowledgeBase
	}
	if len(urls) == 0 {
		return domain.IngestReport{}, ErrNoDocuments
	}

	if s.loadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.loadTimeout)
		defer cancel()
	}

	rep, err = s.agents.Loader.Load(ctx, urls, false)
	if err != nil {
		return domain.IngestReport{}, fmt.Errorf("load knowledge: %w", err)
	}
	return rep, nil
}

func (s *Service) run(ctx context.Context, q Querier, query string) (agent.Result, error) {
	if strings.TrimSpace(query) == "" {
		return agent.Result{}, ErrEmptyQuery
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	res, err := q.Run(ctx, query)
	if err != nil {
		// A model client may surface the deadline as its own error.
		if ctx.Err() != nil && !errors.Is(err, ctx.Err()) {
			return agent.Result{}, fmt.Errorf("%w: %v", ctx.Err(), err)
		}
		return agent.Result{}, err
	}
	return res, nil
}

// decode prefers the structured object and falls back to the stringified
// field form when the model answered in text or the object is incomplete.
func decode[T any](res agent.Result, structured func([]byte) (T, error), text func(string) (T, error)) (T, error) {
	if len(res.Structured) > 0 {
		v, err := structured(res.Structured)
		if err == nil {
			return v, nil
		}
		log.Debug().Err(err).Msg("structured answer rejected, parsing text form")
	}

	v, err := text(res.String())
	if err != nil {
		var zero T
		return zero, fmt.Errorf("decode answer: %w", err)
	}
	return v, nil
}
