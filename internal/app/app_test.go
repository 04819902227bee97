package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arpankumarde/neevtrace/internal/config"
)

func localConfig() *config.Config {
	return &config.Config{
		Model: config.ModelConfig{
			BaseURL:             "http://127.0.0.1:1",
			APIKey:              "test-key",
			Name:                "test-model",
			EmbeddingModel:      "test-embed",
			EmbeddingDimensions: 8,
			BreakerMaxFailures:  3,
			BreakerCooldown:     time.Second,
		},
		Agent:     config.AgentConfig{Timeout: time.Second, MaxSteps: 3},
		Knowledge: config.KnowledgeConfig{Collection: "vector-embeddings"},
		Profiles:  map[string]config.AgentProfile{},
	}
}

func TestBuild_LocalOnly(t *testing.T) {
	a, err := Build(context.Background(), localConfig())
	require.NoError(t, err)
	defer a.Close()

	assert.True(t, a.InMemoryKnowledge)
	assert.Nil(t, a.DB)
	assert.Nil(t, a.Redis)
	assert.True(t, a.Service.HasKnowledge())
	assert.NotContains(t, a.Agents.CO2.Tools(), "road_distance")
	assert.Equal(t, "vector-embeddings", a.Knowledge.Collection())
}

func TestBuild_DistanceTable(t *testing.T) {
	cfg := localConfig()
	cfg.ORS.TablePath = "../../data/seeds/road_legs.json"

	a, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close()

	assert.Contains(t, a.Agents.CO2.Tools(), "road_distance")
	assert.Contains(t, a.Agents.Recommend.Tools(), "road_distances")
}

func TestBuild_RequiresModelKey(t *testing.T) {
	cfg := localConfig()
	cfg.Model.APIKey = ""

	_, err := Build(context.Background(), cfg)
	assert.Error(t, err)
}
