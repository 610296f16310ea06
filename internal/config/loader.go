// Package config provides configuration loading utilities.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tinkerloft/opsdesk/internal/knowledge"
	"github.com/tinkerloft/opsdesk/internal/model"
	"github.com/tinkerloft/opsdesk/internal/resolve"
	"github.com/tinkerloft/opsdesk/internal/router"
)

// SupportedVersions lists all schema versions supported by this loader.
var SupportedVersions = []int{1}

// Environment variable names for secrets. Tokens never live in the YAML file.
const (
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
	EnvGitHubToken     = "GITHUB_TOKEN"
	EnvSlackBotToken   = "SLACK_BOT_TOKEN"
	EnvSlackAppToken   = "SLACK_APP_TOKEN"
	EnvOllamaHost      = "OLLAMA_HOST"
)

// Config is the fully resolved service configuration.
type Config struct {
	Server    ServerConfig
	Knowledge KnowledgeConfig
	Embedding EmbeddingConfig
	Classify  ClassifyConfig
	Resolve   resolve.Config
	Routing   router.Config
	Ticket    TicketConfig
	Outcome   OutcomeConfig
	Temporal  TemporalConfig
}

type ServerConfig struct {
	Addr string
}

type KnowledgeConfig struct {
	// Path is a v1 YAML entries file; Dir is a directory of Markdown
	// entries with frontmatter. At least one must be set.
	Path      string
	Dir       string
	CacheSize int
	CacheTTL  time.Duration
}

type EmbeddingConfig struct {
	Host  string
	Model string
}

type ClassifyConfig struct {
	Model string
}

type TicketConfig struct {
	Owner string
	Repo  string
}

type OutcomeConfig struct {
	DBPath string
}

type TemporalConfig struct {
	HostPort  string
	Namespace string
}

// versionHeader is used to extract just the version from YAML.
type versionHeader struct {
	Version *int `yaml:"version"`
}

// Load parses a Config from YAML data with schema version validation.
func Load(data []byte) (*Config, error) {
	var header versionHeader
	if err := yaml.Unmarshal(data, &header); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if header.Version == nil {
		return nil, errors.New("version field is required")
	}

	switch *header.Version {
	case 1:
		return loadV1(data)
	default:
		return nil, fmt.Errorf("unsupported schema version: %d (supported: %v)", *header.Version, SupportedVersions)
	}
}

// LoadFile loads a Config from a YAML file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Load(data)
}

// Default returns a Config with every field at its built-in default. Used
// when no config file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8080"},
		Knowledge: KnowledgeConfig{
			CacheSize: knowledge.DefaultCacheSize,
			CacheTTL:  knowledge.DefaultCacheTTL,
		},
		Embedding: EmbeddingConfig{
			Host:  envOr(EnvOllamaHost, "http://localhost:11434"),
			Model: knowledge.DefaultEmbeddingModel,
		},
		Classify: ClassifyConfig{},
		Resolve:  resolve.DefaultConfig(),
		Routing:  router.DefaultConfig(),
		Outcome:  OutcomeConfig{DBPath: "opsdesk.db"},
		Temporal: TemporalConfig{HostPort: "localhost:7233", Namespace: "default"},
	}
}

// configV1 is the internal representation for schema version 1.
type configV1 struct {
	Version   int          `yaml:"version"`
	Server    *serverV1    `yaml:"server,omitempty"`
	Knowledge *knowledgeV1 `yaml:"knowledge,omitempty"`
	Embedding *embeddingV1 `yaml:"embedding,omitempty"`
	Classify  *classifyV1  `yaml:"classify,omitempty"`
	Resolve   *resolveV1   `yaml:"resolve,omitempty"`
	Routing   *routingV1   `yaml:"routing,omitempty"`
	Ticket    *ticketV1    `yaml:"ticket,omitempty"`
	Outcome   *outcomeV1   `yaml:"outcome,omitempty"`
	Temporal  *temporalV1  `yaml:"temporal,omitempty"`
}

type serverV1 struct {
	Addr string `yaml:"addr,omitempty"`
}

type knowledgeV1 struct {
	Path      string `yaml:"path,omitempty"`
	Dir       string `yaml:"dir,omitempty"`
	CacheSize int    `yaml:"cache_size,omitempty"`
	CacheTTL  string `yaml:"cache_ttl,omitempty"`
}

type embeddingV1 struct {
	Host  string `yaml:"host,omitempty"`
	Model string `yaml:"model,omitempty"`
}

type classifyV1 struct {
	Model string `yaml:"model,omitempty"`
}

type resolveV1 struct {
	TopK              int      `yaml:"top_k,omitempty"`
	AutoResolveCutoff *float64 `yaml:"auto_resolve_cutoff,omitempty"`
}

type routingV1 struct {
	Teams        []teamRuleV1      `yaml:"teams,omitempty"`
	CategoryMap  map[string]string `yaml:"category_map,omitempty"`
	FallbackTeam string            `yaml:"fallback_team,omitempty"`
}

type teamRuleV1 struct {
	Team     string   `yaml:"team"`
	Keywords []string `yaml:"keywords"`
}

type ticketV1 struct {
	Owner string `yaml:"owner"`
	Repo  string `yaml:"repo"`
}

type outcomeV1 struct {
	DBPath string `yaml:"db_path,omitempty"`
}

type temporalV1 struct {
	HostPort  string `yaml:"host_port,omitempty"`
	Namespace string `yaml:"namespace,omitempty"`
}

// loadV1 loads a version 1 config from YAML data, applying defaults for
// anything unset.
func loadV1(data []byte) (*Config, error) {
	var cv1 configV1
	if err := yaml.Unmarshal(data, &cv1); err != nil {
		return nil, fmt.Errorf("failed to parse config v1: %w", err)
	}

	cfg := Default()

	if cv1.Server != nil && cv1.Server.Addr != "" {
		cfg.Server.Addr = cv1.Server.Addr
	}

	if cv1.Knowledge != nil {
		cfg.Knowledge.Path = cv1.Knowledge.Path
		cfg.Knowledge.Dir = cv1.Knowledge.Dir
		if cv1.Knowledge.CacheSize > 0 {
			cfg.Knowledge.CacheSize = cv1.Knowledge.CacheSize
		}
		if cv1.Knowledge.CacheTTL != "" {
			ttl, err := time.ParseDuration(cv1.Knowledge.CacheTTL)
			if err != nil {
				return nil, fmt.Errorf("invalid knowledge.cache_ttl: %w", err)
			}
			if ttl <= 0 {
				return nil, errors.New("knowledge.cache_ttl must be positive")
			}
			cfg.Knowledge.CacheTTL = ttl
		}
	}

	if cv1.Embedding != nil {
		if cv1.Embedding.Host != "" {
			cfg.Embedding.Host = cv1.Embedding.Host
		}
		if cv1.Embedding.Model != "" {
			cfg.Embedding.Model = cv1.Embedding.Model
		}
	}

	if cv1.Classify != nil {
		cfg.Classify.Model = cv1.Classify.Model
	}

	if cv1.Resolve != nil {
		if cv1.Resolve.TopK > 0 {
			cfg.Resolve.TopK = cv1.Resolve.TopK
		}
		if cv1.Resolve.AutoResolveCutoff != nil {
			c := *cv1.Resolve.AutoResolveCutoff
			if c <= 0 || c > 1 {
				return nil, fmt.Errorf("resolve.auto_resolve_cutoff must be in (0, 1], got %v", c)
			}
			cfg.Resolve.AutoResolveCutoff = c
		}
	}

	if cv1.Routing != nil {
		routing, err := convertRouting(cv1.Routing)
		if err != nil {
			return nil, err
		}
		cfg.Routing = routing
	}

	if cv1.Ticket != nil {
		if cv1.Ticket.Owner == "" || cv1.Ticket.Repo == "" {
			return nil, errors.New("ticket requires both owner and repo")
		}
		cfg.Ticket = TicketConfig{Owner: cv1.Ticket.Owner, Repo: cv1.Ticket.Repo}
	}

	if cv1.Outcome != nil && cv1.Outcome.DBPath != "" {
		cfg.Outcome.DBPath = cv1.Outcome.DBPath
	}

	if cv1.Temporal != nil {
		if cv1.Temporal.HostPort != "" {
			cfg.Temporal.HostPort = cv1.Temporal.HostPort
		}
		if cv1.Temporal.Namespace != "" {
			cfg.Temporal.Namespace = cv1.Temporal.Namespace
		}
	}

	return cfg, nil
}

// convertRouting builds a router.Config from the YAML form. An explicit
// teams list replaces the defaults entirely; order in the file is the
// tie-break order at routing time.
func convertRouting(rv *routingV1) (router.Config, error) {
	cfg := router.DefaultConfig()

	if len(rv.Teams) > 0 {
		teams := make([]router.TeamRule, 0, len(rv.Teams))
		for _, t := range rv.Teams {
			team, err := parseTeam(t.Team)
			if err != nil {
				return router.Config{}, err
			}
			if len(t.Keywords) == 0 {
				return router.Config{}, fmt.Errorf("routing team %q has no keywords", t.Team)
			}
			teams = append(teams, router.TeamRule{Team: team, Keywords: t.Keywords})
		}
		cfg.Teams = teams
	}

	if len(rv.CategoryMap) > 0 {
		m := make(map[string]model.Team, len(rv.CategoryMap))
		for category, name := range rv.CategoryMap {
			team, err := parseTeam(name)
			if err != nil {
				return router.Config{}, err
			}
			m[category] = team
		}
		cfg.CategoryMap = m
	}

	if rv.FallbackTeam != "" {
		team, err := parseTeam(rv.FallbackTeam)
		if err != nil {
			return router.Config{}, err
		}
		cfg.FallbackTeam = team
	}

	return cfg, nil
}

func parseTeam(name string) (model.Team, error) {
	team, ok := model.ParseTeam(name)
	if !ok {
		return "", fmt.Errorf("unknown team: %q", name)
	}
	return team, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
