package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/coffeehub/smartqueue/core/queue"
	"github.com/coffeehub/smartqueue/core/simulation"
	"github.com/coffeehub/smartqueue/infra/metrics"
)

type Config struct {
	Shop       ShopConfig        `json:"shop"`
	Queue      queue.Config      `json:"queue"`
	Simulation simulation.Config `json:"simulation"`
	Metrics    metrics.Config    `json:"metrics"`
	Logging    LoggingConfig     `json:"logging"`
}

// ShopConfig holds service-level settings outside the scheduling core.
type ShopConfig struct {
	// Baristas is the staff pool size.
	Baristas int `json:"baristas"`
	// TickSeconds is the wall-clock interval between logical clock
	// advancements while the service runs.
	TickSeconds int `json:"tick_seconds"`
}

// SetDefaults applies sane defaults.
func (c *ShopConfig) SetDefaults() {
	if c.Baristas == 0 {
		c.Baristas = 3
	}
	if c.TickSeconds == 0 {
		c.TickSeconds = 30
	}
}

// Validate checks mandatory fields.
func (c ShopConfig) Validate() error {
	if c.Baristas <= 0 {
		return fmt.Errorf("baristas must be positive")
	}
	if c.TickSeconds <= 0 {
		return fmt.Errorf("tick_seconds must be positive")
	}
	return nil
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("SQ_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "sq_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Shop.SetDefaults()
	cfg.Queue.SetDefaults()
	cfg.Simulation.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.Logging.SetDefaults()
	if err := cfg.Shop.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Queue.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Simulation.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Logging.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
