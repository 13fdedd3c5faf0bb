// Package config loads service settings from a YAML file, the environment
// and finally command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Puzzle    PuzzleConfig    `yaml:"puzzle"`
	Corpus    CorpusConfig    `yaml:"corpus"`
	Log       LogConfig       `yaml:"log"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

type ServerConfig struct {
	Addr              string        `yaml:"addr" validate:"required"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" validate:"gte=0"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout" validate:"gte=0"`
	AllowedOrigins    []string      `yaml:"allowed_origins"`
	// SecureCookies marks the player cookie HTTPS-only.
	SecureCookies bool `yaml:"secure_cookies"`
}

type StorageConfig struct {
	Backend string `yaml:"backend" validate:"oneof=fs badger sqlite memory"`
	Path    string `yaml:"path" validate:"required_unless=Backend memory"`
}

// PuzzleConfig pins the schedule. Changing any of these reshuffles or
// renumbers every puzzle, so all servers and clients must agree.
type PuzzleConfig struct {
	Launch          string `yaml:"launch" validate:"required,datetime=2006-01-02"`
	RolloverHour    int    `yaml:"rollover_hour" validate:"gte=0,lte=23"`
	ShuffleConstant int64  `yaml:"shuffle_constant" validate:"ne=0"`
}

type CorpusConfig struct {
	// Path of a JSON corpus; empty uses the embedded one.
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

type RateLimitConfig struct {
	// RPS is the sustained per-client request rate; zero disables limiting.
	RPS   float64 `yaml:"rps" validate:"gte=0"`
	Burst int     `yaml:"burst" validate:"gte=0"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the settings of the public game.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: 5 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			AllowedOrigins:    []string{"*"},
		},
		Storage: StorageConfig{Backend: "fs", Path: "./var/ordl"},
		Puzzle: PuzzleConfig{
			Launch:          "2025-12-19",
			RolloverHour:    3,
			ShuffleConstant: 31337,
		},
		Log:       LogConfig{Level: "info", Format: "text"},
		RateLimit: RateLimitConfig{RPS: 10, Burst: 20},
		Metrics:   MetricsConfig{Enabled: true},
	}
}

// Load reads path (if non-empty), then applies ORDL_* environment overrides,
// then validates.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate reports every invalid field.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s", fe.Namespace(), fe.Tag()))
		}
		return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
	}
	return err
}

// LaunchDate is the parsed puzzle.launch.
func (c *Config) LaunchDate() time.Time {
	t, err := time.Parse("2006-01-02", c.Puzzle.Launch)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (c *Config) applyEnv() error {
	setString(&c.Server.Addr, "ORDL_ADDR")
	setString(&c.Storage.Backend, "ORDL_STORAGE_BACKEND")
	setString(&c.Storage.Path, "ORDL_STORAGE_PATH")
	setString(&c.Puzzle.Launch, "ORDL_LAUNCH_DATE")
	setString(&c.Corpus.Path, "ORDL_CORPUS_PATH")
	setString(&c.Log.Level, "ORDL_LOG_LEVEL")
	setString(&c.Log.Format, "ORDL_LOG_FORMAT")
	if v, ok := os.LookupEnv("ORDL_ALLOWED_ORIGINS"); ok {
		c.Server.AllowedOrigins = strings.Split(v, ",")
	}

	var errs []error
	if v, ok := os.LookupEnv("ORDL_ROLLOVER_HOUR"); ok {
		n, err := strconv.Atoi(v)
		errs = append(errs, envErr("ORDL_ROLLOVER_HOUR", err))
		c.Puzzle.RolloverHour = n
	}
	if v, ok := os.LookupEnv("ORDL_SHUFFLE_CONSTANT"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		errs = append(errs, envErr("ORDL_SHUFFLE_CONSTANT", err))
		c.Puzzle.ShuffleConstant = n
	}
	if v, ok := os.LookupEnv("ORDL_RATE_LIMIT_RPS"); ok {
		f, err := strconv.ParseFloat(v, 64)
		errs = append(errs, envErr("ORDL_RATE_LIMIT_RPS", err))
		c.RateLimit.RPS = f
	}
	if v, ok := os.LookupEnv("ORDL_RATE_LIMIT_BURST"); ok {
		n, err := strconv.Atoi(v)
		errs = append(errs, envErr("ORDL_RATE_LIMIT_BURST", err))
		c.RateLimit.Burst = n
	}
	if v, ok := os.LookupEnv("ORDL_METRICS_ENABLED"); ok {
		b, err := strconv.ParseBool(v)
		errs = append(errs, envErr("ORDL_METRICS_ENABLED", err))
		c.Metrics.Enabled = b
	}
	return errors.Join(errs...)
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func envErr(key string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", key, err)
}
