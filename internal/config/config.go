package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full service configuration.
// Values come from configs/config.yml, overridden by GENCONTROL_* environment variables.
type Config struct {
	Port     string         `mapstructure:"port"`
	Log      LogConfig      `mapstructure:"log"`
	DB       DBConfig       `mapstructure:"db"`
	Server   ServerConfig   `mapstructure:"server"`
	Physics  PhysicsConfig  `mapstructure:"physics"`
	Detector DetectorConfig `mapstructure:"detector"`
	Audit    AuditConfig    `mapstructure:"audit"`
	Learning LearningConfig `mapstructure:"learning"`
	Auth     AuthConfig     `mapstructure:"auth"`
	CORS     CORSConfig     `mapstructure:"cors"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type ServerConfig struct {
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
}

type PhysicsConfig struct {
	// AgingFactor multiplies every prediction to account for fleet wear.
	AgingFactor float64 `mapstructure:"aging_factor"`
}

type DetectorConfig struct {
	ZCritical      float64 `mapstructure:"z_critical"`
	ZWarning       float64 `mapstructure:"z_warning"`
	GrossDeviation float64 `mapstructure:"gross_deviation_pct"`
	ColdCritical   float64 `mapstructure:"cold_critical_pct"`
	ColdWarning    float64 `mapstructure:"cold_warning_pct"`
}

type AuditConfig struct {
	HistoryLimit        int     `mapstructure:"history_limit"`
	DefaultAltitudeM    float64 `mapstructure:"default_altitude_m"`
	DefaultTemperatureC float64 `mapstructure:"default_temperature_c"`
}

type LearningConfig struct {
	MinSamples int `mapstructure:"min_samples"`
	// Interval between scheduled relearn batches; 0 disables the scheduler.
	Interval time.Duration `mapstructure:"interval"`
}

type AuthConfig struct {
	SigningKey string        `mapstructure:"signing_key"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
	// Disabled serves the API without bearer tokens. Development only.
	Disabled bool `mapstructure:"disabled"`
}

// Key returns the signing key in effect; empty when auth is disabled.
func (a AuthConfig) Key() string {
	if a.Disabled {
		return ""
	}
	return a.SigningKey
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

const envPrefix = "GENCONTROL"

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("db.path", "gencontrol.db")
	v.SetDefault("server.read_header_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("physics.aging_factor", 1.05)
	v.SetDefault("detector.z_critical", 3.0)
	v.SetDefault("detector.z_warning", 2.0)
	v.SetDefault("detector.gross_deviation_pct", 30.0)
	v.SetDefault("detector.cold_critical_pct", 25.0)
	v.SetDefault("detector.cold_warning_pct", 15.0)
	v.SetDefault("audit.history_limit", 20)
	v.SetDefault("audit.default_altitude_m", 0.0)
	v.SetDefault("audit.default_temperature_c", 25.0)
	v.SetDefault("learning.min_samples", 5)
	v.SetDefault("learning.interval", 24*time.Hour)
	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.token_ttl", 12*time.Hour)
	v.SetDefault("auth.disabled", false)
	v.SetDefault("cors.allowed_origins", []string{})
}

// Load reads config.yml from the given directories. A missing file is not an
// error: defaults and environment still apply.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the engine cannot run with.
func (c *Config) Validate() error {
	if c.Physics.AgingFactor <= 0 {
		return fmt.Errorf("physics.aging_factor must be > 0, got %v", c.Physics.AgingFactor)
	}
	if c.Audit.HistoryLimit < 0 {
		return fmt.Errorf("audit.history_limit must be >= 0, got %d", c.Audit.HistoryLimit)
	}
	if c.Learning.MinSamples < 1 {
		return fmt.Errorf("learning.min_samples must be >= 1, got %d", c.Learning.MinSamples)
	}
	if c.Learning.Interval < 0 {
		return fmt.Errorf("learning.interval must be >= 0, got %v", c.Learning.Interval)
	}
	if c.Detector.ZWarning >= c.Detector.ZCritical {
		return fmt.Errorf("detector.z_warning (%v) must be below detector.z_critical (%v)", c.Detector.ZWarning, c.Detector.ZCritical)
	}
	if !c.Auth.Disabled && strings.TrimSpace(c.Auth.SigningKey) == "" {
		return errors.New("auth.signing_key is empty: set GENCONTROL_AUTH_SIGNING_KEY or auth.disabled: true")
	}
	if c.Detector.ColdWarning >= c.Detector.ColdCritical {
		return fmt.Errorf("detector.cold_warning_pct (%v) must be below detector.cold_critical_pct (%v)", c.Detector.ColdWarning, c.Detector.ColdCritical)
	}
	return nil
}
