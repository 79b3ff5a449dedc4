package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/vc-data/internal/model"
)

// Config holds the full application configuration.
type Config struct {
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Tables     TablesConfig     `yaml:"tables" mapstructure:"tables"`
	Similarity SimilarityConfig `yaml:"similarity" mapstructure:"similarity"`
	Format     FormatConfig     `yaml:"format" mapstructure:"format"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// StoreConfig selects and configures the record store backend.
type StoreConfig struct {
	Driver           string       `yaml:"driver" mapstructure:"driver"`
	DatabaseURL      string       `yaml:"database_url" mapstructure:"database_url"`
	Table            string       `yaml:"table" mapstructure:"table"`
	FilePath         string       `yaml:"file_path" mapstructure:"file_path"`
	MaxConns         int32        `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns         int32        `yaml:"min_conns" mapstructure:"min_conns"`
	REST             RESTConfig   `yaml:"rest" mapstructure:"rest"`
	Notion           NotionConfig `yaml:"notion" mapstructure:"notion"`
	ServerSideFilter bool         `yaml:"server_side_filter" mapstructure:"server_side_filter"`
	RetryAttempts    int          `yaml:"retry_attempts" mapstructure:"retry_attempts"`
	TimeoutSecs      int          `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	BreakerThreshold int          `yaml:"breaker_threshold" mapstructure:"breaker_threshold"`
	BreakerResetSecs int          `yaml:"breaker_reset_secs" mapstructure:"breaker_reset_secs"`
}

// RESTConfig holds Supabase PostgREST settings.
type RESTConfig struct {
	URL       string  `yaml:"url" mapstructure:"url"`
	Key       string  `yaml:"key" mapstructure:"key"`
	PageSize  int     `yaml:"page_size" mapstructure:"page_size"`
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	// Order is a comma-separated list of columns that gives pages a stable
	// sort. Set it to the table's primary key when it has one.
	Order string `yaml:"order" mapstructure:"order"`
}

// NotionConfig holds Notion API credentials and the investor database ID.
type NotionConfig struct {
	Token      string  `yaml:"token" mapstructure:"token"`
	DatabaseID string  `yaml:"database_id" mapstructure:"database_id"`
	RateLimit  float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// TablesConfig points at an optional YAML override of the lookup tables.
type TablesConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// SimilarityConfig holds the similarity scoring weights.
type SimilarityConfig struct {
	StageWeight   int `yaml:"stage_weight" mapstructure:"stage_weight"`
	TypeWeight    int `yaml:"type_weight" mapstructure:"type_weight"`
	CountryWeight int `yaml:"country_weight" mapstructure:"country_weight"`
	ThesisWeight  int `yaml:"thesis_weight" mapstructure:"thesis_weight"`
	DefaultLimit  int `yaml:"default_limit" mapstructure:"default_limit"`
}

// FormatConfig controls result rendering.
type FormatConfig struct {
	MaxListed  int `yaml:"max_listed" mapstructure:"max_listed"`
	ThesisTopN int `yaml:"thesis_top_n" mapstructure:"thesis_top_n"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	APIKey      string   `yaml:"api_key" mapstructure:"api_key"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Drivers lists the supported store.driver values.
var Drivers = []string{"postgres", "sqlite", "rest", "file", "notion"}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("VCDATA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Keys without a natural default are registered empty so that
	// environment overrides reach Unmarshal.
	v.SetDefault("store.driver", "postgres")
	v.SetDefault("store.database_url", "")
	v.SetDefault("store.table", "dec-2024")
	v.SetDefault("store.file_path", "")
	v.SetDefault("store.max_conns", 4)
	v.SetDefault("store.min_conns", 0)
	v.SetDefault("store.rest.url", "")
	v.SetDefault("store.rest.key", "")
	v.SetDefault("store.rest.page_size", 1000)
	v.SetDefault("store.rest.rate_limit", 10)
	v.SetDefault("store.rest.order", strings.Join(model.Columns, ","))
	v.SetDefault("store.notion.token", "")
	v.SetDefault("store.notion.database_id", "")
	v.SetDefault("store.notion.rate_limit", 3)
	v.SetDefault("store.server_side_filter", false)
	v.SetDefault("store.retry_attempts", 2)
	v.SetDefault("store.timeout_secs", 30)
	v.SetDefault("store.breaker_threshold", 5)
	v.SetDefault("store.breaker_reset_secs", 30)
	v.SetDefault("tables.path", "")
	v.SetDefault("similarity.stage_weight", 2)
	v.SetDefault("similarity.type_weight", 2)
	v.SetDefault("similarity.country_weight", 1)
	v.SetDefault("similarity.thesis_weight", 1)
	v.SetDefault("similarity.default_limit", 10)
	v.SetDefault("format.max_listed", 10)
	v.SetDefault("format.thesis_top_n", 15)
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.api_key", "")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings needed by a command mode: "query" (any
// command that reads the store), "serve" or "import".
func (c *Config) Validate(mode string) error {
	var problems []string
	switch mode {
	case "query":
		problems = append(problems, c.validateStore()...)
	case "serve":
		problems = append(problems, c.validateStore()...)
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			problems = append(problems, "server.port must be > 0 and <= 65535")
		}
	case "import":
		switch c.Store.Driver {
		case "postgres":
			if c.Store.DatabaseURL == "" {
				problems = append(problems, "store.database_url is required")
			}
		case "sqlite":
			if c.Store.DatabaseURL == "" {
				problems = append(problems, "store.database_url is required (sqlite file path)")
			}
		default:
			problems = append(problems, fmt.Sprintf("import needs store.driver postgres or sqlite, got %q", c.Store.Driver))
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Similarity.StageWeight < 0 || c.Similarity.TypeWeight < 0 ||
		c.Similarity.CountryWeight < 0 || c.Similarity.ThesisWeight < 0 {
		problems = append(problems, "similarity weights must be >= 0")
	}
	if c.Store.RetryAttempts < 0 || c.Store.RetryAttempts > 2 {
		problems = append(problems, "store.retry_attempts must be between 0 and 2")
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

func (c *Config) validateStore() []string {
	var problems []string
	s := c.Store
	switch s.Driver {
	case "postgres", "sqlite":
		if s.DatabaseURL == "" {
			problems = append(problems, "store.database_url is required")
		}
	case "rest":
		if s.REST.URL == "" {
			problems = append(problems, "store.rest.url is required")
		}
		if s.REST.Key == "" {
			problems = append(problems, "store.rest.key is required")
		}
	case "file":
		if s.FilePath == "" {
			problems = append(problems, "store.file_path is required")
		}
	case "notion":
		if s.Notion.Token == "" {
			problems = append(problems, "store.notion.token is required")
		}
		if s.Notion.DatabaseID == "" {
			problems = append(problems, "store.notion.database_id is required")
		}
	default:
		problems = append(problems, fmt.Sprintf("store.driver must be one of %s, got %q",
			strings.Join(Drivers, ", "), s.Driver))
	}
	if s.Driver != "notion" && s.Table == "" {
		problems = append(problems, "store.table is required")
	}
	return problems
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
