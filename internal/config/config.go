package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds everything the bot needs at startup.
type Config struct {
	TelegramToken string `yaml:"-"`
	GeminiAPIKey  string `yaml:"-"`

	GeminiModel       string          `yaml:"gemini_model"`
	APITimeoutSeconds int             `yaml:"api_timeout_seconds"`
	OperatorChatID    int64           `yaml:"operator_chat_id"`
	DatabasePath      string          `yaml:"database_path"` // "" -> memory only
	HealthAddr        string          `yaml:"health_addr"`
	LogLevel          string          `yaml:"log_level"`
	RetentionDays     int             `yaml:"retention_days"`
	Broadcast         BroadcastConfig `yaml:"broadcast"`
}

// BroadcastConfig describes the weekly promotion.
type BroadcastConfig struct {
	Timezone string `yaml:"timezone"`
	Weekday  string `yaml:"weekday"`
	Hour     *int   `yaml:"hour"`   // nil -> DefaultBroadcastHour
	Minute   *int   `yaml:"minute"` // nil -> 0
	Message  string `yaml:"message"`
}

// At is the local time of day the broadcast fires.
func (b BroadcastConfig) At() (hour, minute int) {
	hour, minute = DefaultBroadcastHour, 0
	if b.Hour != nil {
		hour = *b.Hour
	}
	if b.Minute != nil {
		minute = *b.Minute
	}
	return hour, minute
}

const (
	DefaultConfigPath     = "bot.yaml"
	DefaultOperatorChatID = 5262436539
	DefaultGeminiModel    = "gemini-1.5-flash"
	DefaultTimezone       = "Asia/Singapore"
	DefaultWeekday        = "sunday"
	DefaultBroadcastHour  = 10
	DefaultPromotion      = "🎉 This week at Combain: book a free 30-minute AI chatbot consultation and get 20% off your first month of our Customer Service Chatbot plan. Reply here to find out more!"

	secretTokenPath = "/run/secrets/telegram_bot_token"
)

// Load reads the YAML file at path (a missing file is not an error) and applies defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// LoadFromEnv loads .env, the YAML file and then lets the environment override it.
func LoadFromEnv() (*Config, error) {
	_ = godotenv.Load()

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = DefaultConfigPath
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	cfg.TelegramToken = botToken(secretTokenPath)
	cfg.GeminiAPIKey = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))

	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.GeminiModel = v
	}
	if v := os.Getenv("OPERATOR_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("OPERATOR_CHAT_ID: %w", err)
		}
		cfg.OperatorChatID = id
	}
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("HEALTH_ADDR"); v != "" {
		cfg.HealthAddr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.GeminiModel == "" {
		c.GeminiModel = DefaultGeminiModel
	}
	if c.APITimeoutSeconds <= 0 {
		c.APITimeoutSeconds = 20
	}
	if c.OperatorChatID == 0 {
		c.OperatorChatID = DefaultOperatorChatID
	}
	if c.HealthAddr == "" {
		c.HealthAddr = ":8080"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.RetentionDays <= 0 {
		c.RetentionDays = 180
	}
	if c.Broadcast.Timezone == "" {
		c.Broadcast.Timezone = DefaultTimezone
	}
	if c.Broadcast.Weekday == "" {
		c.Broadcast.Weekday = DefaultWeekday
	}
	hour, minute := c.Broadcast.At()
	c.Broadcast.Hour, c.Broadcast.Minute = &hour, &minute
	if c.Broadcast.Message == "" {
		c.Broadcast.Message = DefaultPromotion
	}
}

// Validate checks secrets and the broadcast schedule.
func (c *Config) Validate() error {
	if c.TelegramToken == "" {
		return errors.New("telegram token not found: neither docker secret nor TELEGRAM_BOT_TOKEN is set")
	}
	if c.GeminiAPIKey == "" {
		return errors.New("GEMINI_API_KEY is not set")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.Weekday(); err != nil {
		return err
	}
	if hour, minute := c.Broadcast.At(); hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return fmt.Errorf("broadcast time %02d:%02d is out of range", hour, minute)
	}
	return nil
}

// Location is the reference timezone of the weekly broadcast.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Broadcast.Timezone)
	if err != nil {
		return nil, fmt.Errorf("broadcast timezone %q: %w", c.Broadcast.Timezone, err)
	}
	return loc, nil
}

// Weekday parses the broadcast weekday name ("sunday", "Sun", ...).
func (c *Config) Weekday() (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(c.Broadcast.Weekday))
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if name == full || name == full[:3] {
			return d, nil
		}
	}
	return 0, fmt.Errorf("broadcast weekday %q is not a day name", c.Broadcast.Weekday)
}

// APITimeout bounds every generative API call.
func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.APITimeoutSeconds) * time.Second
}

// Retention is how long an inactive user stays registered.
func (c *Config) Retention() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

func botToken(secretPath string) string {
	if data, err := os.ReadFile(secretPath); err == nil {
		token := strings.TrimSpace(string(data))
		if token != "" {
			return token
		}
	}
	return strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))
}
