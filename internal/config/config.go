package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/tw93/insight/internal/facts"
)

const (
	minProbeTimeoutMillis = 50
	maxProbeTimeoutMillis = 60_000
)

type Config struct {
	Collection CollectionConfig `toml:"collection"`
	Paths      PathsConfig      `toml:"paths"`
	Network    NetworkConfig    `toml:"network"`
	Log        LogConfig        `toml:"log"`
}

type CollectionConfig struct {
	ProbeTimeoutMillis int `toml:"probe_timeout_ms"`
}

type PathsConfig struct {
	ProcRoot      string   `toml:"proc_root"`
	SysRoot       string   `toml:"sys_root"`
	DevRoot       string   `toml:"dev_root"`
	StorageRoot   string   `toml:"storage_root"`
	ExternalRoots []string `toml:"external_roots"`
}

type NetworkConfig struct {
	WirelessInterface string `toml:"wireless_interface"`
}

type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

func DefaultConfig() *Config {
	host := facts.DefaultHostOptions()
	return &Config{
		Collection: CollectionConfig{
			ProbeTimeoutMillis: int(facts.DefaultProbeTimeout / time.Millisecond),
		},
		Paths: PathsConfig{
			ProcRoot:      host.ProcRoot,
			SysRoot:       host.SysRoot,
			DevRoot:       host.DevRoot,
			StorageRoot:   host.StorageRoot,
			ExternalRoots: host.ExternalRoots,
		},
		Network: NetworkConfig{
			WirelessInterface: host.WirelessInterface,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultPath is $XDG_CONFIG_HOME/insight/config.toml, or "" when no config
// directory can be determined.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "insight", "config.toml")
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return NormalizeAndValidate(cfg)
}

// LoadOrDefault is Load, except that a missing file yields the defaults.
func LoadOrDefault(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultConfig(), nil
	}
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

func NormalizeAndValidate(cfg *Config) (*Config, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}

	sanitized := *cfg

	if err := validateRange("collection.probe_timeout_ms", sanitized.Collection.ProbeTimeoutMillis, minProbeTimeoutMillis, maxProbeTimeoutMillis); err != nil {
		return nil, err
	}

	var err error
	for _, p := range []struct {
		name  string
		value *string
	}{
		{"paths.proc_root", &sanitized.Paths.ProcRoot},
		{"paths.sys_root", &sanitized.Paths.SysRoot},
		{"paths.dev_root", &sanitized.Paths.DevRoot},
		{"paths.storage_root", &sanitized.Paths.StorageRoot},
	} {
		if *p.value, err = sanitizePath(p.name, *p.value); err != nil {
			return nil, err
		}
	}

	roots := make([]string, 0, len(sanitized.Paths.ExternalRoots))
	for i, root := range sanitized.Paths.ExternalRoots {
		cleaned, err := sanitizePath(fmt.Sprintf("paths.external_roots[%d]", i), root)
		if err != nil {
			return nil, err
		}
		roots = append(roots, cleaned)
	}
	sanitized.Paths.ExternalRoots = roots

	sanitized.Network.WirelessInterface = strings.TrimSpace(sanitized.Network.WirelessInterface)
	if sanitized.Network.WirelessInterface == "" {
		return nil, fmt.Errorf("network.wireless_interface must not be empty")
	}

	sanitized.Log.Level = strings.ToLower(strings.TrimSpace(sanitized.Log.Level))
	if _, err := ParseLevel(sanitized.Log.Level); err != nil {
		return nil, err
	}
	if file := strings.TrimSpace(sanitized.Log.File); file != "" {
		if sanitized.Log.File, err = sanitizePath("log.file", file); err != nil {
			return nil, err
		}
	}

	return &sanitized, nil
}

// ParseLevel maps debug, info, warn or error to a slog level.
func ParseLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return 0, fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", level)
	}
	return l, nil
}

func (c *Config) ProbeTimeout() time.Duration {
	return time.Duration(c.Collection.ProbeTimeoutMillis) * time.Millisecond
}

func (c *Config) HostOptions() facts.HostOptions {
	return facts.HostOptions{
		ProcRoot:          c.Paths.ProcRoot,
		SysRoot:           c.Paths.SysRoot,
		DevRoot:           c.Paths.DevRoot,
		StorageRoot:       c.Paths.StorageRoot,
		ExternalRoots:     append([]string(nil), c.Paths.ExternalRoots...),
		WirelessInterface: c.Network.WirelessInterface,
	}
}

func sanitizePath(name, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("%s must not be empty", name)
	}
	cleaned := filepath.Clean(trimmed)
	if !filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("%s must be an absolute path, got %q", name, value)
	}
	return cleaned, nil
}

func validateRange(name string, value, min, max int) error {
	if value < min || value > max {
		return fmt.Errorf("%s must be between %d and %d, got %d", name, min, max, value)
	}

	return nil
}
