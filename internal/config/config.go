package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds everything the service reads from its environment.
type Config struct {
	Port      string
	Version   string
	LogLevel  string
	LogFormat string

	Model     ModelConfig
	Agent     AgentConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	ORS       ORSConfig
	Knowledge KnowledgeConfig
	Telemetry TelemetryConfig

	// Profiles are per-agent overrides loaded from the optional TOML file.
	Profiles map[string]AgentProfile
}

type ModelConfig struct {
	BaseURL             string
	APIKey              string
	Name                string
	EmbeddingModel      string
	EmbeddingDimensions int
	BreakerMaxFailures  int
	BreakerCooldown     time.Duration
}

type AgentConfig struct {
	Timeout    time.Duration
	MaxSteps   int
	ConfigPath string
}

type DatabaseConfig struct {
	URL string
}

type RedisConfig struct {
	Addr           string
	SearchCacheTTL time.Duration
}

type ORSConfig struct {
	APIKey string
	// TablePath is a JSON file of known legs used when APIKey is empty.
	TablePath string
}

type KnowledgeConfig struct {
	SeedPath    string
	Collection  string
	LoadTimeout time.Duration
	// AllowedHosts restricts POST /knowledge-base/documents to these hosts
	// when non-empty.
	AllowedHosts []string
}

type TelemetryConfig struct {
	Enabled      bool
	OTLPEndpoint string
	ServiceName  string
}

// AgentProfile tunes a single agent without touching code.
//
//	[agents.co2]
//	model = "gemini-2.0-flash"
//	instructions = "Prefer road freight emission factors for EU lanes."
//	max_steps = 3
type AgentProfile struct {
	Model        string `toml:"model"`
	Instructions string `toml:"instructions"`
	MaxSteps     int    `toml:"max_steps"`
}

type profileFile struct {
	Agents map[string]AgentProfile `toml:"agents"`
}

// Load reads configuration from environment variables with defaults, then
// merges the agent profile file when AGENTS_CONFIG points at one.
func Load() (*Config, error) {
	apiKey := Get("MODEL_API_KEY", "")
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}

	cfg := &Config{
		Port:      Get("PORT", "5000"),
		Version:   Get("SERVICE_VERSION", "0.1.0"),
		LogLevel:  Get("LOG_LEVEL", "info"),
		LogFormat: Get("LOG_FORMAT", "console"),
		Model: ModelConfig{
			BaseURL:             Get("MODEL_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai"),
			APIKey:              apiKey,
			Name:                Get("MODEL_NAME", "gemini-2.0-flash"),
			EmbeddingModel:      Get("EMBEDDING_MODEL", "text-embedding-004"),
			EmbeddingDimensions: GetInt("EMBEDDING_DIMENSIONS", 768),
			BreakerMaxFailures:  GetInt("BREAKER_MAX_FAILURES", 5),
			BreakerCooldown:     GetDuration("BREAKER_COOLDOWN", 30*time.Second),
		},
		Agent: AgentConfig{
			Timeout:    GetDuration("AGENT_TIMEOUT", 90*time.Second),
			MaxSteps:   GetInt("AGENT_MAX_STEPS", 5),
			ConfigPath: Get("AGENTS_CONFIG", ""),
		},
		Database: DatabaseConfig{
			URL: Get("DATABASE_URL", ""),
		},
		Redis: RedisConfig{
			Addr:           Get("REDIS_ADDR", ""),
			SearchCacheTTL: GetDuration("SEARCH_CACHE_TTL", 15*time.Minute),
		},
		ORS: ORSConfig{
			APIKey:    Get("ORS_API_KEY", ""),
			TablePath: Get("ROAD_DISTANCE_TABLE", ""),
		},
		Knowledge: KnowledgeConfig{
			SeedPath:     Get("KNOWLEDGE_SEED_PATH", "data/seeds/knowledge_urls.json"),
			Collection:   Get("KNOWLEDGE_COLLECTION", "vector-embeddings"),
			LoadTimeout:  GetDuration("KNOWLEDGE_LOAD_TIMEOUT", 5*time.Minute),
			AllowedHosts: GetList("KNOWLEDGE_ALLOWED_HOSTS"),
		},
		Telemetry: TelemetryConfig{
			Enabled:      GetBool("OTEL_ENABLED", false),
			OTLPEndpoint: Get("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			ServiceName:  Get("OTEL_SERVICE_NAME", "neevtrace-agent-service"),
		},
		Profiles: map[string]AgentProfile{},
	}

	if cfg.Agent.ConfigPath != "" {
		profiles, err := LoadProfiles(cfg.Agent.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg.Profiles = profiles
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return cfg, nil
}

// LoadProfiles decodes the [agents.<name>] tables of a TOML file.
func LoadProfiles(path string) (map[string]AgentProfile, error) {
	var pf profileFile
	if _, err := toml.DecodeFile(path, &pf); err != nil {
		return nil, fmt.Errorf("decode agent profiles %q: %w", path, err)
	}

	out := make(map[string]AgentProfile, len(pf.Agents))
	for name, p := range pf.Agents {
		if p.MaxSteps < 0 {
			return nil, fmt.Errorf("agent profile %q: max_steps must not be negative", name)
		}
		out[strings.ToLower(strings.TrimSpace(name))] = p
	}

	return out, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if c.Agent.Timeout <= 0 {
		return fmt.Errorf("AGENT_TIMEOUT must be positive")
	}
	if c.Agent.MaxSteps < 1 {
		return fmt.Errorf("AGENT_MAX_STEPS must be at least 1")
	}
	if c.Knowledge.LoadTimeout < 0 {
		return fmt.Errorf("KNOWLEDGE_LOAD_TIMEOUT must not be negative")
	}
	if c.Model.EmbeddingDimensions < 1 {
		return fmt.Errorf("EMBEDDING_DIMENSIONS must be at least 1")
	}
	return nil
}

// Profile returns the override for name, or the zero profile.
func (c *Config) Profile(name string) AgentProfile {
	return c.Profiles[strings.ToLower(name)]
}

func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// GetList splits a comma-separated variable, dropping empty items.
func GetList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func GetInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i
		}
	}
	return fallback
}

func GetBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return fallback
}

func GetDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil {
			return d
		}
	}
	return fallback
}
