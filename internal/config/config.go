package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/bryanwahyu/media-analysis-bot/internal/domain/media"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Groq struct {
		APIKey  string `yaml:"apiKey"`
		Model   string `yaml:"model"`
		BaseURL string `yaml:"baseURL"`
	} `yaml:"groq"`

	Upload struct {
		MaxSizeMB int64 `yaml:"maxSizeMB"`
	} `yaml:"upload"`

	FFmpeg struct {
		FFmpegPath  string `yaml:"ffmpegPath"`
		FFprobePath string `yaml:"ffprobePath"`
		TempDir     string `yaml:"tempDir"`
	} `yaml:"ffmpeg"`

	// Optional analysis history; empty driver disables it.
	Database struct {
		Driver   string `yaml:"driver"`
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
	} `yaml:"database"`

	// Optional frame archive; empty endpoint disables it.
	Minio struct {
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`
}

// Load reads the yaml config. A missing file is not an error: the tool runs
// fine on defaults plus the GROQ_API_KEY env var.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// defaults only
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	}

	cfg.applyDefaults()
	cfg.applyEnv()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Upload.MaxSizeMB == 0 {
		c.Upload.MaxSizeMB = media.DefaultMaxUploadBytes >> 20
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("GROQ_API_KEY"); v != "" {
		c.Groq.APIKey = v
	}
}

// MaxUploadBytes converts the configured MB limit to bytes
func (c *Config) MaxUploadBytes() int64 {
	return c.Upload.MaxSizeMB << 20
}

// HistoryEnabled reports whether an analysis history store is configured
func (c *Config) HistoryEnabled() bool {
	return c.Database.Driver != ""
}

// ArchiveEnabled reports whether a frame archive bucket is configured
func (c *Config) ArchiveEnabled() bool {
	return c.Minio.Endpoint != ""
}

// MySQLDSN builds the DSN for the mysql driver
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// PostgresDSN builds the DSN for the postgres driver
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}
