package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "UTC"
	configPathEnv   = "PULSE_CONFIG"
	databaseDSNEnv  = "DATABASE_DSN"
	slackTokenEnv   = "SLACK_BOT_TOKEN"
	channelIDEnv    = "PROJECT_CHANNEL_ID"
	leadUserIDEnv   = "PROJECT_LEAD_USER_ID"
	modelAPIKeyEnv  = "ANTHROPIC_API_KEY"
	modelNameEnv    = "ANTHROPIC_MODEL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging   LoggingConfig       `yaml:"logging"`
	Database  DatabaseConfig      `yaml:"database"`
	Chat      ChatConfig          `yaml:"chat"`
	Model     ModelConfig         `yaml:"model"`
	Scheduler SchedulerConfig     `yaml:"scheduler"`
	Report    ReportConfig        `yaml:"report"`
	Lexicon   map[string][]string `yaml:"lexicon"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DatabaseConfig describes Postgres connection details.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// ChatConfig wires the chat platform: bot credentials, the monitored
// channel and the report recipient.
type ChatConfig struct {
	BaseURL    string `yaml:"baseUrl"`
	BotToken   string `yaml:"botToken"`
	ChannelID  string `yaml:"channelId"`
	LeadUserID string `yaml:"leadUserId"`
}

// ModelConfig defines how to contact the generative model API.
type ModelConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Name      string `yaml:"name"`
	APIKey    string `yaml:"apiKey"`
	MaxTokens int    `yaml:"maxTokens"`
}

// SchedulerConfig defines when report runs execute.
type SchedulerConfig struct {
	Interval  time.Duration  `yaml:"interval"`
	RunAtBoot bool           `yaml:"runAtBoot"`
	Timezone  string         `yaml:"timezone"`
	location  *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// ReportConfig sets the analysis windows.
type ReportConfig struct {
	WindowDays   int `yaml:"windowDays"`
	BaselineDays int `yaml:"baselineDays"`
}

// Load reads the optional .env file, the YAML configuration (if present)
// and applies environment overrides.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: cannot load .env: %v", err)
	}

	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(slackTokenEnv); v != "" {
		c.Chat.BotToken = v
	}
	if v := os.Getenv(channelIDEnv); v != "" {
		c.Chat.ChannelID = v
	}
	if v := os.Getenv(leadUserIDEnv); v != "" {
		c.Chat.LeadUserID = v
	}

	if v := os.Getenv(modelAPIKeyEnv); v != "" {
		c.Model.APIKey = v
	}
	if v := os.Getenv(modelNameEnv); v != "" {
		c.Model.Name = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Chat.BaseURL != "" {
		base.Chat.BaseURL = override.Chat.BaseURL
	}
	if override.Chat.BotToken != "" {
		base.Chat.BotToken = override.Chat.BotToken
	}
	if override.Chat.ChannelID != "" {
		base.Chat.ChannelID = override.Chat.ChannelID
	}
	if override.Chat.LeadUserID != "" {
		base.Chat.LeadUserID = override.Chat.LeadUserID
	}

	if override.Model.Endpoint != "" {
		base.Model.Endpoint = override.Model.Endpoint
	}
	if override.Model.Name != "" {
		base.Model.Name = override.Model.Name
	}
	if override.Model.APIKey != "" {
		base.Model.APIKey = override.Model.APIKey
	}
	if override.Model.MaxTokens > 0 {
		base.Model.MaxTokens = override.Model.MaxTokens
	}

	if override.Scheduler.Interval > 0 {
		base.Scheduler.Interval = override.Scheduler.Interval
	}
	if override.Scheduler.RunAtBoot {
		base.Scheduler.RunAtBoot = true
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.Report.WindowDays > 0 {
		base.Report.WindowDays = override.Report.WindowDays
	}
	if override.Report.BaselineDays > 0 {
		base.Report.BaselineDays = override.Report.BaselineDays
	}

	if len(override.Lexicon) > 0 {
		if base.Lexicon == nil {
			base.Lexicon = map[string][]string{}
		}
		for category, phrases := range override.Lexicon {
			base.Lexicon[category] = phrases
		}
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging:  LoggingConfig{Level: "info"},
		Database: DatabaseConfig{DSN: ""},
		Chat: ChatConfig{
			BaseURL: "https://slack.com/api",
		},
		Model: ModelConfig{
			Endpoint:  "https://api.anthropic.com/v1/messages",
			Name:      "claude-sonnet-4-20250514",
			MaxTokens: 2048,
		},
		Scheduler: SchedulerConfig{
			Interval: 24 * time.Hour,
			Timezone: defaultTimezone,
			location: tz,
		},
		Report: ReportConfig{
			WindowDays:   10,
			BaselineDays: 30,
		},
	}
}
