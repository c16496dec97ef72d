// Package config loads the simulator configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the root configuration document.
type Config struct {
	Simulation SimulationConfig `json:"simulation"`
	Scenarios  ScenariosConfig  `json:"scenarios"`
	Output     OutputConfig     `json:"output"`
	Logging    LoggingConfig    `json:"logging"`
}

// SimulationConfig controls the stochastic features of a run.
type SimulationConfig struct {
	// EnableDelays applies a per-leg random delay multiplier.
	EnableDelays bool `json:"enable_delays"`
	// NewAgentMidDay spawns one extra agent before assignment.
	NewAgentMidDay bool `json:"new_agent_mid_day"`
	// Seed for the run's random source; 0 means time-based.
	Seed     int64   `json:"seed"`
	DelayMin float64 `json:"delay_min"`
	DelayMax float64 `json:"delay_max"`
	// JoinBounds is the spawn box for mid-day agents.
	JoinBounds BoundsConfig `json:"join_bounds"`
}

// BoundsConfig is a rectangular spawn area.
type BoundsConfig struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// ScenariosConfig locates scenario input files.
type ScenariosConfig struct {
	// Dir is scanned for the numbered scenario listing.
	Dir string `json:"dir"`
}

// OutputConfig names the files a run writes.
type OutputConfig struct {
	ReportPath string `json:"report_path"`
	CSVPath    string `json:"csv_path"`
}

// LoggingConfig selects log level and format.
type LoggingConfig struct {
	Level   string `json:"level"`
	Console bool   `json:"console"`
}

// SetDefaults applies sane defaults.
func (c *SimulationConfig) SetDefaults() {
	if c.DelayMin == 0 {
		c.DelayMin = 1.0
	}
	if c.DelayMax == 0 {
		c.DelayMax = 1.3
	}
	if c.JoinBounds == (BoundsConfig{}) {
		c.JoinBounds = BoundsConfig{MaxX: 100, MaxY: 100}
	}
}

// Validate checks the delay range and spawn box.
func (c SimulationConfig) Validate() error {
	if c.DelayMax < c.DelayMin {
		return fmt.Errorf("delay_max %f below delay_min %f", c.DelayMax, c.DelayMin)
	}
	if c.JoinBounds.MaxX <= c.JoinBounds.MinX || c.JoinBounds.MaxY <= c.JoinBounds.MinY {
		return fmt.Errorf("join_bounds must span a positive area")
	}
	return nil
}

// SetDefaults applies sane defaults.
func (c *ScenariosConfig) SetDefaults() {
	if c.Dir == "" {
		c.Dir = "."
	}
}

// SetDefaults applies sane defaults.
func (c *OutputConfig) SetDefaults() {
	if c.ReportPath == "" {
		c.ReportPath = "report.json"
	}
	if c.CSVPath == "" {
		c.CSVPath = "top_performer.csv"
	}
}

// SetDefaults applies sane defaults.
func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	c.Simulation.SetDefaults()
	c.Scenarios.SetDefaults()
	c.Output.SetDefaults()
	c.Logging.SetDefaults()
}

// Load reads the configuration file at path, falling back to defaults
// when the file does not exist. Environment variables prefixed with
// FB_ override file values (FB_SIMULATION__SEED=7 sets
// simulation.seed).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if _, err := os.Stat(path); err == nil {
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
	}

	if err := k.Load(env.Provider("FB_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "fb_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Simulation.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
