package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jamesb5959/cicflowmeter/internal/flow"
)

// Config represents the application configuration
type Config struct {
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Flow    FlowConfig    `yaml:"flow"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// InputConfig selects the packet source. Exactly one of File or Interface
// should be set.
type InputConfig struct {
	File      string `yaml:"file"`
	Interface string `yaml:"interface"`
}

// OutputConfig contains sink settings
type OutputConfig struct {
	File   string `yaml:"file"`   // empty = stdout
	Format string `yaml:"format"` // csv or json
}

// FlowConfig contains flow table and state machine settings
type FlowConfig struct {
	FlowTimeoutIdleS          float64 `yaml:"flow_timeout_idle_s"`
	FlowTimeoutActiveS        float64 `yaml:"flow_timeout_active_s"`
	ClumpTimeoutS             float64 `yaml:"clump_timeout_s"`
	ActiveTimeoutS            float64 `yaml:"active_timeout_s"`
	BulkBound                 int     `yaml:"bulk_bound"`
	MaxFlows                  int     `yaml:"max_flows"`
	ExpireScanIntervalPackets int     `yaml:"expire_scan_interval_packets"`
	TCPTermination            *bool   `yaml:"tcp_termination"`
	StrictInitWindow          bool    `yaml:"strict_init_window"`
}

// LoggingConfig contains application logging settings
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig contains Prometheus exposure settings
type MetricsConfig struct {
	// ListenAddr serves the counters on addr/metrics; empty disables the
	// listener.
	ListenAddr string `yaml:"listen_addr"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and parses the configuration file. A missing file is not an
// error; defaults apply and flags fill in the rest.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.applyDefaults()

	if cfg.Output.Format != "csv" && cfg.Output.Format != "json" {
		return nil, fmt.Errorf("unknown output format %q", cfg.Output.Format)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	def := flow.DefaultConfig()
	if c.Flow.FlowTimeoutIdleS == 0 {
		c.Flow.FlowTimeoutIdleS = def.FlowTimeoutIdle
	}
	if c.Flow.FlowTimeoutActiveS == 0 {
		c.Flow.FlowTimeoutActiveS = def.FlowTimeoutActive
	}
	if c.Flow.ClumpTimeoutS == 0 {
		c.Flow.ClumpTimeoutS = def.ClumpTimeout
	}
	if c.Flow.ActiveTimeoutS == 0 {
		c.Flow.ActiveTimeoutS = def.ActiveTimeout
	}
	if c.Flow.BulkBound == 0 {
		c.Flow.BulkBound = def.BulkBound
	}
	if c.Flow.ExpireScanIntervalPackets == 0 {
		c.Flow.ExpireScanIntervalPackets = 1000
	}
	if c.Flow.TCPTermination == nil {
		t := def.TCPTermination
		c.Flow.TCPTermination = &t
	}
	if c.Output.Format == "" {
		c.Output.Format = "csv"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// Core translates the YAML flow section into the flow package's config.
func (c *Config) Core() flow.Config {
	return flow.Config{
		FlowTimeoutIdle:   c.Flow.FlowTimeoutIdleS,
		FlowTimeoutActive: c.Flow.FlowTimeoutActiveS,
		ClumpTimeout:      c.Flow.ClumpTimeoutS,
		ActiveTimeout:     c.Flow.ActiveTimeoutS,
		BulkBound:         c.Flow.BulkBound,
		MaxFlows:          c.Flow.MaxFlows,
		TCPTermination:    *c.Flow.TCPTermination,
		StrictInitWindow:  c.Flow.StrictInitWindow,
	}
}
