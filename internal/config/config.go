package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv  = "NEWSCAST_CONFIG"
	appIDEnv       = "WECHAT_APP_ID"
	appSecretEnv   = "WECHAT_APP_SECRET"
	databaseDSNEnv = "DATABASE_DSN"
	logLevelEnv    = "NEWSCAST_LOG_LEVEL"
)

// Config holds high-level settings required across the application.
type Config struct {
	WeChat    WeChatConfig    `yaml:"wechat"`
	Range     RangeConfig     `yaml:"range"`
	Source    SourceConfig    `yaml:"source"`
	Storage   StorageConfig   `yaml:"storage"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Logging   LoggingConfig   `yaml:"logging"`
	Workers   int             `yaml:"workers"`
}

// WeChatConfig wires the Official Account identity and API endpoint.
type WeChatConfig struct {
	AppID     string `yaml:"appId"`
	AppSecret string `yaml:"appSecret"`
	BaseURL   string `yaml:"baseUrl"`
	Author    string `yaml:"author"`
}

// RangeConfig bounds the ingestion date range. EndDay may be the literal
// "current", resolved against the clock at startup.
type RangeConfig struct {
	StartDay string `yaml:"startDay"`
	EndDay   string `yaml:"endDay"`
}

// SourceConfig describes where daily transcripts live.
type SourceConfig struct {
	DayURL          string `yaml:"dayUrl"`
	ContentSelector string `yaml:"contentSelector"`
}

// StorageConfig covers the shared JSON store and the optional SQL mirror.
type StorageConfig struct {
	DataFile    string `yaml:"dataFile"`
	PostgresDSN string `yaml:"postgresDsn"`
}

// AnalysisConfig drives the monthly keyword/word-cloud job.
type AnalysisConfig struct {
	FontFile   string           `yaml:"fontFile"`
	ImageDir   string           `yaml:"imageDir"`
	Categories []CategoryConfig `yaml:"categories"`
}

// CategoryConfig describes one tracked keyword category.
type CategoryConfig struct {
	Name        string `yaml:"name"`
	KeywordFile string `yaml:"keywordFile"`
	ImageBase   string `yaml:"imageBase"`
	Title       string `yaml:"title"`
}

// SchedulerConfig defines when the pipeline should run. An empty cron
// expression means a single run.
type SchedulerConfig struct {
	CronExpression string `yaml:"cronExpression"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
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

	if len(cfg.Analysis.Categories) == 0 {
		cfg.Analysis.Categories = defaultConfig().Analysis.Categories
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(appIDEnv); v != "" {
		c.WeChat.AppID = v
	}

	if v := os.Getenv(appSecretEnv); v != "" {
		c.WeChat.AppSecret = v
	}

	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Storage.PostgresDSN = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.WeChat.AppID != "" {
		base.WeChat.AppID = override.WeChat.AppID
	}
	if override.WeChat.AppSecret != "" {
		base.WeChat.AppSecret = override.WeChat.AppSecret
	}
	if override.WeChat.BaseURL != "" {
		base.WeChat.BaseURL = override.WeChat.BaseURL
	}
	if override.WeChat.Author != "" {
		base.WeChat.Author = override.WeChat.Author
	}

	if override.Range.StartDay != "" {
		base.Range.StartDay = override.Range.StartDay
	}
	if override.Range.EndDay != "" {
		base.Range.EndDay = override.Range.EndDay
	}

	if override.Source.DayURL != "" {
		base.Source.DayURL = override.Source.DayURL
	}
	if override.Source.ContentSelector != "" {
		base.Source.ContentSelector = override.Source.ContentSelector
	}

	if override.Storage.DataFile != "" {
		base.Storage.DataFile = override.Storage.DataFile
	}
	if override.Storage.PostgresDSN != "" {
		base.Storage.PostgresDSN = override.Storage.PostgresDSN
	}

	if override.Analysis.FontFile != "" {
		base.Analysis.FontFile = override.Analysis.FontFile
	}
	if override.Analysis.ImageDir != "" {
		base.Analysis.ImageDir = override.Analysis.ImageDir
	}
	if len(override.Analysis.Categories) > 0 {
		base.Analysis.Categories = override.Analysis.Categories
	}

	if override.Scheduler.CronExpression != "" {
		base.Scheduler.CronExpression = override.Scheduler.CronExpression
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Workers > 0 {
		base.Workers = override.Workers
	}

	return base
}

func defaultConfig() Config {
	return Config{
		WeChat: WeChatConfig{
			BaseURL: "https://api.weixin.qq.com",
			Author:  "Newscast Daily",
		},
		Range: RangeConfig{
			StartDay: "20250101",
			EndDay:   "current",
		},
		Source: SourceConfig{
			DayURL:          "https://tv.cctv.com/lm/xwlb/day/%s.shtml",
			ContentSelector: "div.content_area",
		},
		Storage: StorageConfig{
			DataFile: "data/newscast.json",
		},
		Analysis: AnalysisConfig{
			FontFile: "fonts/default.ttf",
			ImageDir: "images",
			Categories: []CategoryConfig{
				{Name: "names", KeywordFile: "data/key_name.json", ImageBase: "name_cloud", Title: "Key names"},
				{Name: "places", KeywordFile: "data/key_place.json", ImageBase: "place_cloud", Title: "Key places"},
				{Name: "terms", KeywordFile: "data/key_words.json", ImageBase: "words_cloud", Title: "Key terms"},
			},
		},
		Logging: LoggingConfig{Level: "info"},
	}
}
