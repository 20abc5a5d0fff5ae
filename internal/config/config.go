// Package config loads the simulation's settings through viper: code
// defaults, overridable by a YAML file and then by flags bound on top.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Integrator selects the time-stepping scheme used to advance bodies.
type Integrator string

const (
	IntegratorEuler Integrator = "euler"
	IntegratorRK4   Integrator = "rk4"
)

// Sink selects where per-frame body snapshots are written.
type Sink string

const (
	SinkGob    Sink = "gob"
	SinkSQLite Sink = "sqlite"
	SinkNone   Sink = "none"
)

// Config is the full set of simulation knobs, loadable from either a
// config file or command-line flags.
type Config struct {
	Bodies       int        `mapstructure:"bodies"`
	Years        float64    `mapstructure:"years"`
	StepSeconds  float64    `mapstructure:"step_seconds"`
	Workers      int        `mapstructure:"workers"`
	Integrator   Integrator `mapstructure:"integrator"`
	Compact      bool       `mapstructure:"compact"`
	Collisions   bool       `mapstructure:"collisions"`
	Render       bool       `mapstructure:"render"`
	RenderDir    string     `mapstructure:"render_dir"`
	Sink         Sink       `mapstructure:"sink"`
	SinkDir      string     `mapstructure:"sink_dir"`
	BucketFrames int        `mapstructure:"bucket_frames"`
	ResumeFrom   string     `mapstructure:"resume_from"`
	MetricsAddr  string     `mapstructure:"metrics_addr"`
	LogFormat    string     `mapstructure:"log_format"`
	Verbosity    int        `mapstructure:"verbosity"`
}

// Default returns the baseline configuration before any file or flag
// overrides are applied.
func Default() Config {
	return Config{
		Bodies:       5000,
		Years:        1,
		StepSeconds:  60 * 60,
		Workers:      0, // 0 means runtime.NumCPU()
		Integrator:   IntegratorEuler,
		Compact:      true,
		Collisions:   true,
		Render:       false,
		RenderDir:    "img",
		Sink:         SinkGob,
		SinkDir:      "chunks",
		BucketFrames: 48,
		LogFormat:    "text",
	}
}

// Load seeds the given viper instance with Default, merges in an
// optional YAML config file, and binds it into a Config. v is expected
// to already have any command-line flags bound to it by the caller.
func Load(v *viper.Viper, configFile string) (Config, error) {
	def := Default()
	v.SetDefault("bodies", def.Bodies)
	v.SetDefault("years", def.Years)
	v.SetDefault("step_seconds", def.StepSeconds)
	v.SetDefault("workers", def.Workers)
	v.SetDefault("integrator", string(def.Integrator))
	v.SetDefault("compact", def.Compact)
	v.SetDefault("collisions", def.Collisions)
	v.SetDefault("render", def.Render)
	v.SetDefault("render_dir", def.RenderDir)
	v.SetDefault("sink", string(def.Sink))
	v.SetDefault("sink_dir", def.SinkDir)
	v.SetDefault("bucket_frames", def.BucketFrames)
	v.SetDefault("log_format", def.LogFormat)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	return cfg, nil
}
