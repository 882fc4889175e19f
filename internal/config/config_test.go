package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.ProbeTimeout() != 3*time.Second {
		t.Fatalf("ProbeTimeout() = %v, want 3s", cfg.ProbeTimeout())
	}
	if cfg.Paths.SysRoot != "/sys" || cfg.Paths.ProcRoot != "/proc" {
		t.Fatalf("unexpected roots: %q, %q", cfg.Paths.SysRoot, cfg.Paths.ProcRoot)
	}
	if cfg.Network.WirelessInterface != "wlan0" {
		t.Fatalf("unexpected WirelessInterface: %q", cfg.Network.WirelessInterface)
	}
	if _, err := NormalizeAndValidate(cfg); err != nil {
		t.Fatalf("defaults do not validate: %v", err)
	}
}

func TestLoad_OverridesAndKeepsDefaults(t *testing.T) {
	path := writeTempConfig(t, `
[collection]
probe_timeout_ms = 750

[paths]
sys_root = "/tmp/fake-sys/"
external_roots = ["/media", "/srv/usb"]

[network]
wireless_interface = " wlp2s0 "

[log]
level = "DEBUG"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ProbeTimeout() != 750*time.Millisecond {
		t.Fatalf("ProbeTimeout() = %v, want 750ms", cfg.ProbeTimeout())
	}
	if cfg.Paths.SysRoot != "/tmp/fake-sys" {
		t.Fatalf("SysRoot = %q, want /tmp/fake-sys", cfg.Paths.SysRoot)
	}
	if cfg.Paths.ProcRoot != "/proc" {
		t.Fatalf("ProcRoot = %q, want default", cfg.Paths.ProcRoot)
	}
	if !slices.Equal(cfg.Paths.ExternalRoots, []string{"/media", "/srv/usb"}) {
		t.Fatalf("ExternalRoots = %v", cfg.Paths.ExternalRoots)
	}
	if cfg.Network.WirelessInterface != "wlp2s0" {
		t.Fatalf("WirelessInterface = %q, want wlp2s0", cfg.Network.WirelessInterface)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("Log.Level = %q, want debug", cfg.Log.Level)
	}

	opts := cfg.HostOptions()
	if opts.SysRoot != "/tmp/fake-sys" || opts.WirelessInterface != "wlp2s0" || opts.StorageRoot != "/" {
		t.Fatalf("HostOptions() = %+v", opts)
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		wantErr  string
	}{
		{"timeout too small", "[collection]\nprobe_timeout_ms = 10\n", "collection.probe_timeout_ms"},
		{"relative root", "[paths]\nsys_root = \"sys\"\n", "paths.sys_root"},
		{"empty external root", "[paths]\nexternal_roots = [\"\"]\n", "paths.external_roots[0]"},
		{"blank interface", "[network]\nwireless_interface = \"  \"\n", "network.wireless_interface"},
		{"bad level", "[log]\nlevel = \"verbose\"\n", "log.level"},
		{"relative log file", "[log]\nfile = \"insight.log\"\n", "log.file"},
		{"malformed", "[collection\n", "parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeTempConfig(t, tt.contents))
			if err == nil {
				t.Fatal("Load() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Load() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadOrDefault(missing) error = %v", err)
	}
	if cfg.ProbeTimeout() != DefaultConfig().ProbeTimeout() {
		t.Fatalf("LoadOrDefault(missing) = %+v, want defaults", cfg)
	}

	if _, err := LoadOrDefault(""); err != nil {
		t.Fatalf("LoadOrDefault(\"\") error = %v", err)
	}

	if _, err := LoadOrDefault(writeTempConfig(t, "[log]\nlevel = \"loud\"\n")); err == nil {
		t.Fatal("LoadOrDefault(invalid) error = nil, want error")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v, want %v", in, got, err, want)
		}
	}
	if _, err := ParseLevel(""); err == nil {
		t.Error("ParseLevel(\"\") error = nil, want error")
	}
}
