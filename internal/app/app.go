// Package app wires concrete adapters behind ports for the commands.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/arpankumarde/neevtrace/internal/adapters/cache"
	"github.com/arpankumarde/neevtrace/internal/adapters/distance"
	"github.com/arpankumarde/neevtrace/internal/adapters/fetch"
	"github.com/arpankumarde/neevtrace/internal/adapters/llm"
	"github.com/arpankumarde/neevtrace/internal/adapters/pdf"
	"github.com/arpankumarde/neevtrace/internal/adapters/repositories"
	"github.com/arpankumarde/neevtrace/internal/adapters/search"
	"github.com/arpankumarde/neevtrace/internal/adapters/vectorstore"
	"github.com/arpankumarde/neevtrace/internal/agents"
	"github.com/arpankumarde/neevtrace/internal/config"
	"github.com/arpankumarde/neevtrace/internal/knowledge"
	"github.com/arpankumarde/neevtrace/internal/platform/db"
	"github.com/arpankumarde/neevtrace/internal/platform/httpx"
	"github.com/arpankumarde/neevtrace/internal/ports"
	"github.com/arpankumarde/neevtrace/internal/services"
)

const toolTimeout = 20 * time.Second

// App is everything a command needs after start-up.
type App struct {
	Agents    *agents.Set
	Service   *services.Service
	Knowledge *knowledge.Base

	// InMemoryKnowledge is true when no DATABASE_URL is set and the
	// knowledge base starts empty on every run.
	InMemoryKnowledge bool

	DB    *sql.DB
	Redis *redis.Client

	closers []func()
}

// Build connects the optional backing services and builds the agents.
// Postgres, Redis and OpenRouteService are each used only when configured.
func Build(ctx context.Context, cfg *config.Config) (_ *App, err error) {
	a := &App{}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	model, err := llm.NewClient(cfg.Model.BaseURL, cfg.Model.APIKey, cfg.Model.Name,
		llm.WithHTTPClient(httpx.New(cfg.Agent.Timeout)),
		llm.WithBreaker(cfg.Model.BreakerMaxFailures, cfg.Model.BreakerCooldown),
	)
	if err != nil {
		return nil, fmt.Errorf("build app: model client: %w", err)
	}

	tools := httpx.New(toolTimeout)
	deps := agents.Deps{
		Web:       search.NewDuckDuckGo(tools),
		Wikipedia: search.NewWikipedia(tools, ""),
		Arxiv:     search.NewArxiv(tools, ""),
		Articles:  fetch.NewArticleReader(tools),
		CacheTTL:  cfg.Redis.SearchCacheTTL,
	}

	if cfg.Database.URL != "" {
		a.DB, err = db.Open(ctx, cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("build app: %w", err)
		}
		a.closers = append(a.closers, func() { a.DB.Close() })

		if err := repositories.InitSchema(ctx, a.DB); err != nil {
			return nil, fmt.Errorf("build app: %w", err)
		}
	}

	if cfg.Redis.Addr != "" {
		a.Redis, err = cache.Dial(ctx, cfg.Redis.Addr)
		if err != nil {
			return nil, fmt.Errorf("build app: %w", err)
		}
		a.closers = append(a.closers, func() { a.Redis.Close() })
		deps.SearchCache = cache.NewRedisSearchCache(a.Redis)
	}

	if cfg.ORS.APIKey != "" {
		opts := []distance.Option{distance.WithHTTPClient(tools)}
		if a.DB != nil {
			opts = append(opts, distance.WithCaches(
				cache.NewPGDistanceCache(a.DB, "driving-hgv", 30*24*time.Hour),
				cache.NewPGGeocodeCache(a.DB),
			))
		}
		ors, err := distance.NewORSClient(cfg.ORS.APIKey, opts...)
		if err != nil {
			return nil, fmt.Errorf("build app: %w", err)
		}
		deps.Distance = ors
	} else if cfg.ORS.TablePath != "" {
		legs, err := distance.LoadLegs(cfg.ORS.TablePath)
		if err != nil {
			return nil, fmt.Errorf("build app: %w", err)
		}
		deps.Distance = distance.NewStaticProvider(legs)
		log.Info().Int("legs", len(legs)).Msg("ORS_API_KEY not set, road distances served from table")
	} else {
		log.Info().Msg("ORS_API_KEY not set, road distance tools disabled")
	}

	var store ports.VectorStore
	if cfg.Database.URL != "" {
		pg, err := vectorstore.NewPgvectorStore(ctx, cfg.Database.URL, cfg.Model.EmbeddingDimensions)
		if err != nil {
			return nil, fmt.Errorf("build app: %w", err)
		}
		a.closers = append(a.closers, pg.Close)
		if err := pg.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("build app: %w", err)
		}
		store = pg
	} else {
		log.Info().Msg("DATABASE_URL not set, knowledge base kept in memory")
		store = vectorstore.NewMemoryStore()
		a.InMemoryKnowledge = true
	}

	embedder := llm.NewEmbedder(model, cfg.Model.EmbeddingModel, cfg.Model.EmbeddingDimensions)
	a.Knowledge = knowledge.New(cfg.Knowledge.Collection, pdf.NewURLLoader(httpx.New(time.Minute)), embedder, store)
	deps.KnowledgeBase = a.Knowledge

	a.Agents = agents.Build(model, deps, cfg)
	svcAgents := services.Agents{
		CO2:       a.Agents.CO2,
		Route:     a.Agents.Route,
		Recommend: a.Agents.Recommend,
	}
	if a.Agents.Knowledge != nil {
		svcAgents.Knowledge = a.Agents.Knowledge
		svcAgents.Loader = a.Knowledge
	}
	a.Service = services.New(svcAgents, cfg.Agent.Timeout, services.WithLoadTimeout(cfg.Knowledge.LoadTimeout))

	return a, nil
}

// Close releases connections in reverse order of creation.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// LoadSeeds ingests the knowledge seed file at path.
func (a *App) LoadSeeds(ctx context.Context, path string, recreate bool) error {
	urls, err := repositories.LoadKnowledgeSeeds(path)
	if err != nil {
		return fmt.Errorf("load seeds: %w", err)
	}

	rep, err := a.Knowledge.Load(ctx, urls, recreate)
	if err != nil {
		return fmt.Errorf("load seeds: %w", err)
	}
	log.Info().
		Int("documents", rep.Documents).
		Int("skipped", rep.Skipped).
		Int("chunks", rep.Chunks).
		Str("collection", a.Knowledge.Collection()).
		Msg("knowledge base loaded")
	return nil
}
