package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	SourceSerial = "serial"
	SourcePlugin = "plugin"
	SourceNone   = "none"
)

type Serial struct {
	// Port is the device path; empty means discover by vendor id.
	Port      string   `yaml:"port"`
	Baud      int      `yaml:"baud"`
	VendorIDs []string `yaml:"vendor_ids"`
}

type Plugin struct {
	Binary string `yaml:"binary"`
}

type Config struct {
	DataDir string `yaml:"data_dir"`
	// Source selects the sensor transport: serial, plugin, or none.
	Source            string `yaml:"source"`
	Serial            Serial `yaml:"serial"`
	Plugin            Plugin `yaml:"plugin"`
	ReconnectDelaySec int    `yaml:"reconnect_delay_sec"`
	DefaultOwner      string `yaml:"default_owner"`
	Debug             bool   `yaml:"debug"`
}

func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		DataDir:           filepath.Join(home, ".deskwatch"),
		Source:            SourceSerial,
		Serial:            Serial{Baud: 9600, VendorIDs: []string{"2341", "9025"}},
		ReconnectDelaySec: 5,
	}
}

// Load reads the YAML config at path, falling back to defaults when the file
// does not exist. An empty path means defaults only.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	switch cfg.Source {
	case SourceSerial, SourcePlugin, SourceNone:
	default:
		return Config{}, fmt.Errorf("unknown source %q", cfg.Source)
	}
	if cfg.Source == SourcePlugin && cfg.Plugin.Binary == "" {
		return Config{}, fmt.Errorf("source is plugin but plugin.binary is empty")
	}
	return cfg, nil
}

func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, "deskwatch.db")
}

func (c Config) ReconnectDelay() time.Duration {
	if c.ReconnectDelaySec <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.ReconnectDelaySec) * time.Second
}
