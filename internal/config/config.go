package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Database struct {
		Driver   string `yaml:"driver"` // mysql | postgres | memory
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
	} `yaml:"database"`

	DeepSeek struct {
		APIKey         string `yaml:"apiKey"`
		BaseURL        string `yaml:"baseURL"`
		Model          string `yaml:"model"`
		TimeoutSeconds int    `yaml:"timeoutSeconds"`
	} `yaml:"deepseek"`

	Scholar struct {
		BaseURL        string `yaml:"baseURL"`
		TimeoutSeconds int    `yaml:"timeoutSeconds"`
	} `yaml:"scholar"`

	Breaker struct {
		FailureThreshold int `yaml:"failureThreshold"`
		CooldownSeconds  int `yaml:"cooldownSeconds"`
	} `yaml:"breaker"`

	Minio struct {
		Enabled    bool   `yaml:"enabled"`
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	Admin struct {
		Token string `yaml:"token"`
	} `yaml:"admin"`

	CORS struct {
		AllowedOrigins []string `yaml:"allowedOrigins"`
	} `yaml:"cors"`

	Limits struct {
		MinTextChars   int `yaml:"minTextChars"`
		MaxTextChars   int `yaml:"maxTextChars"`
		DefaultQuota   int `yaml:"defaultQuota"`
		ThrottleBurst  int `yaml:"throttleBurst"`
		ThrottlePerSec int `yaml:"throttlePerSec"`
	} `yaml:"limits"`
}

// Load baca file config.yaml dan isi default
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if cfg.DeepSeek.APIKey == "" {
		cfg.DeepSeek.APIKey = os.Getenv("DEEPSEEK_API_KEY")
	}
	if cfg.Admin.Token == "" {
		cfg.Admin.Token = os.Getenv("ADMIN_SECRET")
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "mysql"
	}
	if c.DeepSeek.BaseURL == "" {
		c.DeepSeek.BaseURL = "https://api.deepseek.com/v1"
	}
	if c.DeepSeek.Model == "" {
		c.DeepSeek.Model = "deepseek-chat"
	}
	if c.DeepSeek.TimeoutSeconds == 0 {
		c.DeepSeek.TimeoutSeconds = 30
	}
	if c.Scholar.BaseURL == "" {
		c.Scholar.BaseURL = "https://api.semanticscholar.org"
	}
	if c.Scholar.TimeoutSeconds == 0 {
		c.Scholar.TimeoutSeconds = 10
	}
	if c.Breaker.FailureThreshold == 0 {
		c.Breaker.FailureThreshold = 5
	}
	if c.Breaker.CooldownSeconds == 0 {
		c.Breaker.CooldownSeconds = 60
	}
	if c.Limits.MinTextChars == 0 {
		c.Limits.MinTextChars = 10
	}
	if c.Limits.MaxTextChars == 0 {
		c.Limits.MaxTextChars = 50000
	}
	if c.Limits.DefaultQuota == 0 {
		c.Limits.DefaultQuota = 5
	}
	if c.Limits.ThrottleBurst == 0 {
		c.Limits.ThrottleBurst = 10
	}
	if c.Limits.ThrottlePerSec == 0 {
		c.Limits.ThrottlePerSec = 1
	}
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// Helper untuk build DSN Postgres
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}

// ChatTimeout hard timeout per LLM call
func (c *Config) ChatTimeout() time.Duration {
	return time.Duration(c.DeepSeek.TimeoutSeconds) * time.Second
}

// ScholarTimeout timeout per bibliographic search call
func (c *Config) ScholarTimeout() time.Duration {
	return time.Duration(c.Scholar.TimeoutSeconds) * time.Second
}

// BreakerCooldown duration the breaker stays open after tripping
func (c *Config) BreakerCooldown() time.Duration {
	return time.Duration(c.Breaker.CooldownSeconds) * time.Second
}
