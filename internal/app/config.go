package app

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/shrimpsizemoose/trekker/logger"
)

const (
	defaultCaptchaEndpoint  = "https://www.google.com/recaptcha/api/siteverify"
	defaultCaptchaSecretEnv = "LEADERBOARD_CAPTCHA_SECRET"

	// "By default, you can use a threshold of 0.5."
	// https://developers.google.com/recaptcha/docs/v3#interpreting_the_score
	defaultCaptchaThreshold = 0.5

	defaultCaptchaTimeoutSeconds = 5
	defaultRateLimitPerMinute    = 30
)

type Config struct {
	Server struct {
		Port     string `toml:"port"`
		TestMode bool   `toml:"test_mode"`
	} `toml:"server"`

	Database struct {
		DSN     string `toml:"dsn"`
		TestDSN string `toml:"test_dsn"`
	} `toml:"database"`

	Captcha struct {
		Enabled        bool    `toml:"enabled"`
		Endpoint       string  `toml:"endpoint"`
		SecretEnv      string  `toml:"secret_env"`
		Threshold      float64 `toml:"threshold"`
		TimeoutSeconds int     `toml:"timeout_seconds"`
	} `toml:"captcha"`

	RateLimit struct {
		Enabled   bool   `toml:"enabled"`
		RedisURL  string `toml:"redis_url"`
		PerMinute int    `toml:"per_minute"`
	} `toml:"ratelimit"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf(
			"error reading config file %s\n> Error: %w\n> Content:\n%s",
			path,
			err,
			string(data),
		)
	}

	if config.Server.Port == "" {
		return nil, fmt.Errorf("Server port is not specified in config, use a value like :9999")
	}
	if config.Database.DSN == "" {
		return nil, fmt.Errorf("Database DSN is not specified in config")
	}

	if config.Captcha.Endpoint == "" {
		config.Captcha.Endpoint = defaultCaptchaEndpoint
	}
	if config.Captcha.SecretEnv == "" {
		config.Captcha.SecretEnv = defaultCaptchaSecretEnv
	}
	if config.Captcha.Threshold == 0 {
		config.Captcha.Threshold = defaultCaptchaThreshold
	}
	if config.Captcha.TimeoutSeconds == 0 {
		config.Captcha.TimeoutSeconds = defaultCaptchaTimeoutSeconds
	}
	if config.RateLimit.PerMinute == 0 {
		config.RateLimit.PerMinute = defaultRateLimitPerMinute
	}

	logger.Debug.Printf("Loaded captcha config: %+v", config.Captcha)

	return &config, nil
}

// DSN returns the live database path unless test mode switches the
// server over to the test one.
func (c *Config) DSN() string {
	if c.Server.TestMode && c.Database.TestDSN != "" {
		return c.Database.TestDSN
	}
	return c.Database.DSN
}

// CaptchaSecret is supplied out of band via the environment, never via
// the config file or a request.
func (c *Config) CaptchaSecret() string {
	return os.Getenv(c.Captcha.SecretEnv)
}

func (c *Config) CaptchaTimeout() time.Duration {
	return time.Duration(c.Captcha.TimeoutSeconds) * time.Second
}
