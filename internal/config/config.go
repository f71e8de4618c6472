package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig  `yaml:"server"`
	Gemini   GeminiConfig  `yaml:"gemini"`
	Audio    AudioConfig   `yaml:"audio"`
	Session  SessionConfig `yaml:"session"`
	Coach    CoachConfig   `yaml:"coach"`
	Journal  JournalConfig `yaml:"journal"`
	Inbox    InboxConfig   `yaml:"inbox"`
	Logging  LoggingConfig `yaml:"logging"`
	Variants []Variant     `yaml:"variants"`
}

type ServerConfig struct {
	Addr          string        `yaml:"addr"`
	ReadTimeout   time.Duration `yaml:"read_timeout"`
	WriteTimeout  time.Duration `yaml:"write_timeout"`
	MaxUploadSize int64         `yaml:"max_upload_size"`
}

type GeminiConfig struct {
	Model     string   `yaml:"model"`
	ChatModel string   `yaml:"chat_model"`
	APIKeys   []string `yaml:"-"`
}

type AudioConfig struct {
	TempDir          string   `yaml:"temp_dir"`
	FFmpegPath       string   `yaml:"ffmpeg_path"`
	TranscodeFormats []string `yaml:"transcode_formats"`
}

type SessionConfig struct {
	CookieName  string        `yaml:"cookie_name"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
	SweepEvery  time.Duration `yaml:"sweep_every"`
}

type CoachConfig struct {
	Variant string `yaml:"variant"`
}

type JournalConfig struct {
	Path string `yaml:"path"`
}

type InboxConfig struct {
	Dir           string `yaml:"dir"`
	Output        string `yaml:"output"`
	Archived      string `yaml:"archived"`
	MaxConcurrent int    `yaml:"max_concurrent"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads the YAML file at path, applies environment overrides and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// applyEnv pulls secrets and a few deploy-time overrides from the environment.
func (c *Config) applyEnv() {
	c.Gemini.APIKeys = apiKeysFromEnv()

	if v := strings.TrimSpace(os.Getenv("JAM_ADDR")); v != "" {
		c.Server.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv("JAM_VARIANT")); v != "" {
		c.Coach.Variant = v
	}
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		c.Logging.Level = v
	}
}

// apiKeysFromEnv prefers the GEMINI_API_KEYS rotation list and falls back to GOOGLE_API_KEY.
func apiKeysFromEnv() []string {
	var keys []string
	for _, k := range strings.Split(os.Getenv("GEMINI_API_KEYS"), ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) > 0 {
		return keys
	}
	if k := strings.TrimSpace(os.Getenv("GOOGLE_API_KEY")); k != "" {
		return []string{k}
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8501"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30 * time.Second
	}
	if c.Server.MaxUploadSize == 0 {
		c.Server.MaxUploadSize = 25 << 20
	}
	if c.Server.MaxUploadSize < 0 {
		return fmt.Errorf("server.max_upload_size must be positive")
	}

	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Gemini.ChatModel == "" {
		c.Gemini.ChatModel = c.Gemini.Model
	}

	if c.Audio.TempDir == "" {
		c.Audio.TempDir = os.TempDir()
	}
	if c.Audio.FFmpegPath == "" {
		c.Audio.FFmpegPath = "ffmpeg"
	}
	if c.Audio.TranscodeFormats == nil {
		c.Audio.TranscodeFormats = []string{".webm"}
	}

	if c.Session.CookieName == "" {
		c.Session.CookieName = "jam_session"
	}
	if c.Session.IdleTimeout == 0 {
		c.Session.IdleTimeout = 2 * time.Hour
	}
	if c.Session.SweepEvery == 0 {
		c.Session.SweepEvery = 5 * time.Minute
	}

	if c.Inbox.Dir != "" {
		if c.Inbox.Output == "" {
			return fmt.Errorf("inbox.output is required when inbox.dir is set")
		}
		if c.Inbox.Archived == "" {
			c.Inbox.Archived = "data/archived"
		}
	}
	if c.Inbox.MaxConcurrent == 0 {
		c.Inbox.MaxConcurrent = 2
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}

	if len(c.Variants) == 0 {
		c.Variants = DefaultVariants()
	}
	seen := make(map[string]bool, len(c.Variants))
	for i := range c.Variants {
		v := &c.Variants[i]
		if err := v.validate(); err != nil {
			return fmt.Errorf("variants[%d]: %w", i, err)
		}
		if seen[v.Name] {
			return fmt.Errorf("duplicate variant %q", v.Name)
		}
		seen[v.Name] = true
	}

	if c.Coach.Variant == "" {
		c.Coach.Variant = c.Variants[0].Name
	}
	if _, ok := c.Variant(c.Coach.Variant); !ok {
		return fmt.Errorf("coach.variant %q is not defined", c.Coach.Variant)
	}

	return nil
}

// Variant looks up a variant by name.
func (c *Config) Variant(name string) (Variant, bool) {
	for _, v := range c.Variants {
		if v.Name == name {
			return v, true
		}
	}
	return Variant{}, false
}
