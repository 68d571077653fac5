package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

type LLMConfig struct {
	Provider       string `toml:"provider"`
	Model          string `toml:"model"`
	EmbeddingModel string `toml:"embedding_model"`
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
}

type ServerConfig struct {
	Port string `toml:"port"`
}

type KnowledgeConfig struct {
	Backend          string `toml:"backend"` // "memory" or "memgraph"
	Collection       string `toml:"collection"`
	MemgraphURI      string `toml:"memgraph_uri"`
	MemgraphUser     string `toml:"memgraph_user"`
	MemgraphPassword string `toml:"memgraph_password"`
}

type DataConfig struct {
	PricingSeed   string `toml:"pricing_seed"`   // JSON seed for the catalog, optional
	KnowledgeSeed string `toml:"knowledge_seed"` // JSON seed for the knowledge base, optional
	ShuffleSeed   int64  `toml:"shuffle_seed"`   // 0 means time-based
}

type AgentConfig struct {
	MaxTurns int `toml:"max_turns"`
}

type Config struct {
	LLM       LLMConfig       `toml:"llm"`
	Server    ServerConfig    `toml:"server"`
	Knowledge KnowledgeConfig `toml:"knowledge"`
	Data      DataConfig      `toml:"data"`
	Agent     AgentConfig     `toml:"agent"`
}

func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:       "openai",
			Model:          "gpt-4",
			EmbeddingModel: "text-embedding-3-small",
		},
		Server: ServerConfig{Port: "8080"},
		Knowledge: KnowledgeConfig{
			Backend:     "memory",
			Collection:  "cloud_pricing_docs",
			MemgraphURI: "bolt://localhost:7687",
		},
		Agent: AgentConfig{MaxTurns: 6},
	}
}

// Load reads a TOML config file on top of the defaults and applies
// environment overrides. A missing file is not an error: the defaults plus
// the environment are a complete configuration.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse TOML config '%s': %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	setEnv(&c.LLM.Provider, "LLM_PROVIDER")
	setEnv(&c.LLM.Model, "LLM_MODEL")
	setEnv(&c.LLM.EmbeddingModel, "LLM_EMBEDDING_MODEL")
	setEnv(&c.LLM.APIKey, "OPENAI_API_KEY")
	setEnv(&c.LLM.APIKey, "LLM_API_KEY")
	setEnv(&c.LLM.BaseURL, "LLM_BASE_URL")
	setEnv(&c.Server.Port, "PORT")
	setEnv(&c.Knowledge.Backend, "KNOWLEDGE_BACKEND")
	setEnv(&c.Knowledge.Collection, "KNOWLEDGE_COLLECTION")
	setEnv(&c.Knowledge.MemgraphURI, "MEMGRAPH_URI")
	setEnv(&c.Knowledge.MemgraphUser, "MEMGRAPH_USER")
	setEnv(&c.Knowledge.MemgraphPassword, "MEMGRAPH_PASSWORD")
	setEnv(&c.Data.PricingSeed, "PRICING_SEED")
	setEnv(&c.Data.KnowledgeSeed, "KNOWLEDGE_SEED")

	if v := os.Getenv("CATALOG_SHUFFLE_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Data.ShuffleSeed = n
		}
	}
}

func setEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
