package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/textsnap/textsnap-daemon/pkg/utils"
)

// ErrMalformed marks a config file that could not be parsed. Load recovers
// by returning defaults alongside this error; it is never fatal.
var ErrMalformed = errors.New("malformed config file")

// ConfigPaths holds the platform-specific locations used by the daemon.
type ConfigPaths struct {
	BaseDir      string `yaml:"base_dir"`      // base directory for config files
	ActiveConfig string `yaml:"active_config"` // path to the active config file
	DataDir      string `yaml:"data_dir"`      // application data (history DB)
	DBFile       string `yaml:"db_file"`       // detection history database
	LogDir       string `yaml:"log_dir"`       // log files
}

// StorageConfig holds detection-history storage configuration.
type StorageConfig struct {
	DBPath    string `yaml:"db_path"`
	MaxSize   int64  `yaml:"max_size"`
	KeepItems int    `yaml:"keep_items"`
}

// Config holds all daemon configuration. The Detection block is the live
// Settings value the dispatcher reads and mutates.
type Config struct {
	DeviceID   string `yaml:"device_id"`
	DeviceName string `yaml:"device_name"`
	LogLevel   string `yaml:"log_level"`

	// Directory watched for new screen captures.
	ScreenshotDir string `yaml:"screenshot_dir"`

	// How often (in milliseconds) to check the clipboard for new images.
	PollingInterval int64 `yaml:"polling_interval"`

	// Endpoint of the text/QR recognition service.
	GatewayURL string `yaml:"gateway_url"`

	SystemPaths ConfigPaths   `yaml:"system_paths"`
	Storage     StorageConfig `yaml:"storage"`
	Detection   Settings      `yaml:"detection"`
}

// Interval returns the clipboard polling interval as a duration.
func (c *Config) Interval() time.Duration {
	if c.PollingInterval <= 0 {
		return 2 * time.Second
	}
	return time.Duration(c.PollingInterval) * time.Millisecond
}

// GetConfigPaths returns the platform-specific configuration paths and
// creates the directories if needed.
func GetConfigPaths() (*ConfigPaths, error) {
	baseDir := os.Getenv("TEXTSNAP_CONFIG_DIR")
	if baseDir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}
		switch runtime.GOOS {
		case "windows":
			baseDir = filepath.Join(configDir, "Textsnap")
		case "darwin":
			baseDir = filepath.Join(configDir, "com.textsnap.daemon")
		default:
			baseDir = filepath.Join(configDir, "textsnap")
		}
	}

	dataDir := os.Getenv("TEXTSNAP_DATA_DIR")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		switch runtime.GOOS {
		case "windows":
			dataDir = filepath.Join(homeDir, "AppData", "Local", "Textsnap")
		case "darwin":
			dataDir = filepath.Join(homeDir, "Library", "Application Support", "Textsnap")
		default:
			if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
				dataDir = filepath.Join(xdgDataHome, "textsnap")
			} else {
				dataDir = filepath.Join(homeDir, ".textsnap")
			}
		}
	}

	paths := &ConfigPaths{
		BaseDir:      baseDir,
		ActiveConfig: filepath.Join(baseDir, "config.yaml"),
		DataDir:      dataDir,
		DBFile:       filepath.Join(dataDir, "textsnap.db"),
		LogDir:       filepath.Join(dataDir, "logs"),
	}

	for _, dir := range []string{paths.BaseDir, paths.DataDir, paths.LogDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	return paths, nil
}

// defaultScreenshotDir is where the host OS drops screen captures by default.
func defaultScreenshotDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir, "Desktop")
	case "windows":
		return filepath.Join(homeDir, "Pictures", "Screenshots")
	default:
		return filepath.Join(homeDir, "Pictures")
	}
}

// DefaultConfig returns a new Config with default values.
func DefaultConfig() *Config {
	paths, _ := GetConfigPaths() // fallback paths used on error

	cfg := &Config{
		DeviceID:        uuid.New().String(),
		DeviceName:      utils.GetHostname(),
		LogLevel:        "info",
		ScreenshotDir:   defaultScreenshotDir(),
		PollingInterval: 2000,
		GatewayURL:      "http://localhost:9090/v1/recognize",
		Detection:       DefaultSettings(),
	}
	if paths != nil {
		cfg.SystemPaths = *paths
		cfg.Storage = StorageConfig{
			DBPath:    paths.DBFile,
			MaxSize:   100 * 1024 * 1024, // 100MB
			KeepItems: 50,
		}
	}
	return cfg
}

// Load loads the configuration from the specified file, creating a default
// one if it does not exist. A file that exists but cannot be parsed yields
// defaults and ErrMalformed so the caller can log and keep running.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		paths, err := GetConfigPaths()
		if err != nil {
			return nil, err
		}
		configPath = paths.ActiveConfig
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			if err := cfg.Save(configPath); err != nil {
				return nil, fmt.Errorf("failed to create default config: %w", err)
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		fallback := DefaultConfig()
		overrideFromEnv(fallback)
		return fallback, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	cfg.Detection = cfg.Detection.normalized()
	overrideFromEnv(&cfg)

	return &cfg, nil
}

// Save writes the configuration to the specified file.
func (c *Config) Save(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// overrideFromEnv overrides configuration values from environment variables.
func overrideFromEnv(cfg *Config) {
	if val := os.Getenv("TEXTSNAP_DEVICE_ID"); val != "" {
		cfg.DeviceID = val
	}
	if val := os.Getenv("TEXTSNAP_DEVICE_NAME"); val != "" {
		cfg.DeviceName = val
	}
	if val := os.Getenv("TEXTSNAP_LOG_LEVEL"); val != "" {
		cfg.LogLevel = val
	}
	if val := os.Getenv("TEXTSNAP_SCREENSHOT_DIR"); val != "" {
		cfg.ScreenshotDir = val
	}
	if val := os.Getenv("TEXTSNAP_GATEWAY_URL"); val != "" {
		cfg.GatewayURL = val
	}
	if val := os.Getenv("TEXTSNAP_POLLING_INTERVAL"); val != "" {
		if ms, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.PollingInterval = ms
		}
	}
}

// Store persists the Detection settings back into the config file after
// every mutation.
type Store struct {
	path string
	cfg  *Config
}

// NewStore creates a settings store writing through cfg to configPath.
func NewStore(configPath string, cfg *Config) *Store {
	return &Store{path: configPath, cfg: cfg}
}

// Save records the settings on the owning config and writes it to disk.
func (s *Store) Save(set Settings) error {
	s.cfg.Detection = set
	return s.cfg.Save(s.path)
}
