// Package agents builds the NeevTrace agents: CO2 estimator, route optimizer,
// bid recommender and knowledge assistant.
package agents

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/arpankumarde/neevtrace/internal/agent"
	"github.com/arpankumarde/neevtrace/internal/config"
	"github.com/arpankumarde/neevtrace/internal/ports"
	"github.com/arpankumarde/neevtrace/internal/tools"
)

// Agent names, also the keys of [agents.<name>] profiles.
const (
	CO2       = "co2"
	Route     = "route"
	Recommend = "recommend"
	Knowledge = "knowledge"
)

// Deps are the retrieval backends the agents' tools use. Distance and
// KnowledgeBase may be nil; the matching tools are then left out.
type Deps struct {
	Web       ports.SearchProvider
	Wikipedia ports.SearchProvider
	Arxiv     ports.SearchProvider
	Articles  ports.ArticleFetcher
	Distance  ports.DistanceProvider

	SearchCache ports.SearchCache
	CacheTTL    time.Duration

	KnowledgeBase tools.KnowledgeSearcher
}

// Set holds one long-lived agent per capability. Knowledge is nil when no
// knowledge base is configured.
type Set struct {
	CO2       *agent.Agent
	Route     *agent.Agent
	Recommend *agent.Agent
	Knowledge *agent.Agent
}

func Build(model ports.ChatModel, deps Deps, cfg *config.Config) *Set {
	research := deps.researchTools()

	set := &Set{
		CO2: agent.New(CO2, model, co2Instructions,
			options(cfg, CO2, agent.WithSchema(CO2Schema), agent.WithTools(append(append([]agent.Tool(nil), research...), deps.mapTools()...)...))...),
		Route: agent.New(Route, model, routeInstructions,
			options(cfg, Route, agent.WithSchema(RouteSchema), agent.WithTools(append(append([]agent.Tool(nil), research...), deps.newsAndMapTools()...)...))...),
		Recommend: agent.New(Recommend, model, recommendInstructions,
			options(cfg, Recommend, agent.WithSchema(RecommendationSchema), agent.WithTools(append(append([]agent.Tool(nil), research...), deps.newsAndMapTools()...)...))...),
	}

	if deps.KnowledgeBase != nil {
		set.Knowledge = agent.New(Knowledge, model, knowledgeInstructions,
			options(cfg, Knowledge, agent.WithTools(tools.NewSearchKnowledge(deps.KnowledgeBase)))...)
	}

	for _, a := range []*agent.Agent{set.CO2, set.Route, set.Recommend, set.Knowledge} {
		if a != nil {
			log.Info().Str("agent", a.Name()).Strs("tools", a.Tools()).Msg("agent ready")
		}
	}
	return set
}

// options layers the per-agent profile over the process-wide defaults.
func options(cfg *config.Config, name string, extra ...agent.Option) []agent.Option {
	opts := []agent.Option{agent.WithMaxSteps(cfg.Agent.MaxSteps)}
	opts = append(opts, extra...)

	p := cfg.Profile(name)
	if p.Model != "" {
		opts = append(opts, agent.WithModelName(p.Model))
	}
	if p.MaxSteps > 0 {
		opts = append(opts, agent.WithMaxSteps(p.MaxSteps))
	}
	if p.Instructions != "" {
		opts = append(opts, agent.WithExtraInstructions(p.Instructions))
	}
	return opts
}

func (d Deps) researchTools() []agent.Tool {
	var out []agent.Tool
	add := func(s *tools.Search) {
		if d.SearchCache != nil {
			s = s.Cached(d.SearchCache, d.CacheTTL)
		}
		out = append(out, s)
	}
	if d.Arxiv != nil {
		add(tools.ArxivSearch(d.Arxiv))
	}
	if d.Wikipedia != nil {
		add(tools.WikipediaSearch(d.Wikipedia))
	}
	if d.Web != nil {
		add(tools.WebSearch(d.Web))
	}
	return out
}

func (d Deps) mapTools() []agent.Tool {
	if d.Distance == nil {
		return nil
	}
	return []agent.Tool{tools.NewRoadDistance(d.Distance), tools.NewRoadDistances(d.Distance)}
}

func (d Deps) newsAndMapTools() []agent.Tool {
	var out []agent.Tool
	if d.Articles != nil {
		out = append(out, tools.NewReadArticle(d.Articles))
	}
	return append(out, d.mapTools()...)
}
