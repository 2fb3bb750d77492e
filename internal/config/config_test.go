package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv(appIDEnv, "")
	t.Setenv(appSecretEnv, "")
	t.Setenv(databaseDSNEnv, "")
	t.Setenv(logLevelEnv, "")

	cfg := Load()

	if cfg.Range.StartDay != "20250101" || cfg.Range.EndDay != "current" {
		t.Fatalf("unexpected default range: %+v", cfg.Range)
	}
	if cfg.WeChat.BaseURL != "https://api.weixin.qq.com" {
		t.Fatalf("unexpected default base url: %s", cfg.WeChat.BaseURL)
	}
	if len(cfg.Analysis.Categories) != 3 {
		t.Fatalf("expected 3 default categories, got %d", len(cfg.Analysis.Categories))
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv(appIDEnv, "env-app-id")
	t.Setenv(appSecretEnv, "env-secret")
	t.Setenv(databaseDSNEnv, "postgres://env")
	t.Setenv(logLevelEnv, "debug")

	cfg := Load()

	if cfg.WeChat.AppID != "env-app-id" || cfg.WeChat.AppSecret != "env-secret" {
		t.Fatalf("env identity not applied: %+v", cfg.WeChat)
	}
	if cfg.Storage.PostgresDSN != "postgres://env" {
		t.Fatalf("env DSN not applied: %s", cfg.Storage.PostgresDSN)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("env log level not applied: %s", cfg.Logging.Level)
	}
}

func TestLoadMergesYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
range:
  startDay: "20240601"
  endDay: "20240630"
source:
  dayUrl: "https://example.org/day/%s.html"
workers: 4
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(configPathEnv, path)
	t.Setenv(appIDEnv, "")
	t.Setenv(appSecretEnv, "")
	t.Setenv(databaseDSNEnv, "")
	t.Setenv(logLevelEnv, "")

	cfg := Load()

	if cfg.Range.StartDay != "20240601" || cfg.Range.EndDay != "20240630" {
		t.Fatalf("yaml range not merged: %+v", cfg.Range)
	}
	if cfg.Source.DayURL != "https://example.org/day/%s.html" {
		t.Fatalf("yaml source not merged: %s", cfg.Source.DayURL)
	}
	if cfg.Workers != 4 {
		t.Fatalf("yaml workers not merged: %d", cfg.Workers)
	}
	// Unset keys keep their defaults.
	if cfg.Source.ContentSelector != "div.content_area" {
		t.Fatalf("default selector lost in merge: %s", cfg.Source.ContentSelector)
	}
}
