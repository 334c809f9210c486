package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func testPaths(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()
	t.Setenv("TEXTSNAP_CONFIG_DIR", filepath.Join(tempDir, "config"))
	t.Setenv("TEXTSNAP_DATA_DIR", filepath.Join(tempDir, "data"))
	return tempDir
}

func TestLoadCreatesDefault(t *testing.T) {
	tempDir := testPaths(t)
	configPath := filepath.Join(tempDir, "config", "config.yaml")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.DeviceID == "" {
		t.Error("expected generated device ID")
	}
	if cfg.Detection.Confidence != ConfidenceLow {
		t.Errorf("Confidence = %s, want LOW", cfg.Detection.Confidence)
	}
	if cfg.PollingInterval != 2000 {
		t.Errorf("PollingInterval = %d, want 2000", cfg.PollingInterval)
	}
	if _, err := os.Stat(configPath); err != nil {
		t.Errorf("default config not written: %v", err)
	}
}

func TestLoadRoundTrip(t *testing.T) {
	tempDir := testPaths(t)
	configPath := filepath.Join(tempDir, "config.yaml")

	cfg := DefaultConfig()
	cfg.DeviceID = "test-device"
	cfg.Detection.Language = "fr-FR"
	cfg.Detection.DetectQRCodes = true
	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if loaded.DeviceID != "test-device" {
		t.Errorf("DeviceID = %s", loaded.DeviceID)
	}
	if loaded.Detection.Language != "fr-FR" {
		t.Errorf("Language = %s", loaded.Detection.Language)
	}
	if !loaded.Detection.DetectQRCodes {
		t.Error("DetectQRCodes not persisted")
	}
}

func TestLoadMalformedFallsBackToDefaults(t *testing.T) {
	tempDir := testPaths(t)
	configPath := filepath.Join(tempDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("{{{not yaml"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
	if cfg == nil {
		t.Fatal("expected default config alongside ErrMalformed")
	}
	if cfg.Detection.Confidence != ConfidenceLow {
		t.Errorf("Confidence = %s, want LOW default", cfg.Detection.Confidence)
	}
}

func TestLoadMalformedKeepsEnvOverrides(t *testing.T) {
	tempDir := testPaths(t)
	configPath := filepath.Join(tempDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("{{{not yaml"), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("TEXTSNAP_GATEWAY_URL", "http://ocr.example:7070/v1/recognize")
	t.Setenv("TEXTSNAP_SCREENSHOT_DIR", "/tmp/shots")

	cfg, err := Load(configPath)
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
	if cfg.GatewayURL != "http://ocr.example:7070/v1/recognize" {
		t.Errorf("GatewayURL = %s, env override lost on fallback", cfg.GatewayURL)
	}
	if cfg.ScreenshotDir != "/tmp/shots" {
		t.Errorf("ScreenshotDir = %s, env override lost on fallback", cfg.ScreenshotDir)
	}
}

func TestLoadNormalizesPartialSettings(t *testing.T) {
	tempDir := testPaths(t)
	configPath := filepath.Join(tempDir, "config.yaml")
	partial := "device_id: abc\ndetection:\n  append: true\n"
	if err := os.WriteFile(configPath, []byte(partial), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Detection.Confidence != ConfidenceLow {
		t.Errorf("Confidence = %q, want normalized LOW", cfg.Detection.Confidence)
	}
	if cfg.Detection.Language != LanguageEnglish {
		t.Errorf("Language = %q, want normalized en-US", cfg.Detection.Language)
	}
	if !cfg.Detection.Append {
		t.Error("Append lost during normalization")
	}
}

func TestOverrideFromEnv(t *testing.T) {
	tempDir := testPaths(t)
	configPath := filepath.Join(tempDir, "config.yaml")
	if err := DefaultConfig().Save(configPath); err != nil {
		t.Fatal(err)
	}

	t.Setenv("TEXTSNAP_DEVICE_ID", "env-device")
	t.Setenv("TEXTSNAP_SCREENSHOT_DIR", "/tmp/shots")
	t.Setenv("TEXTSNAP_POLLING_INTERVAL", "500")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.DeviceID != "env-device" {
		t.Errorf("DeviceID = %s", cfg.DeviceID)
	}
	if cfg.ScreenshotDir != "/tmp/shots" {
		t.Errorf("ScreenshotDir = %s", cfg.ScreenshotDir)
	}
	if cfg.PollingInterval != 500 {
		t.Errorf("PollingInterval = %d", cfg.PollingInterval)
	}
}

func TestStoreSave(t *testing.T) {
	tempDir := testPaths(t)
	configPath := filepath.Join(tempDir, "config.yaml")

	cfg := DefaultConfig()
	store := NewStore(configPath, cfg)

	set := cfg.Detection
	set.Append = true
	if err := store.Save(set); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !loaded.Detection.Append {
		t.Error("settings mutation not persisted")
	}
}
