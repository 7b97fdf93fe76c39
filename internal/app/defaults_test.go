package app

import (
	"path/filepath"
	"testing"
)

func TestGetDefaults(t *testing.T) {
	t.Run("uses env vars when set", func(t *testing.T) {
		t.Setenv("MEDIAGRABBER_CONFIG_PATH", "/custom/config.toml")
		t.Setenv("MEDIAGRABBER_HOME", "/custom/mg")

		defaults, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}

		if defaults["config_path"] != "/custom/config.toml" {
			t.Errorf("config_path = %q, want %q", defaults["config_path"], "/custom/config.toml")
		}
		if defaults["base_dir"] != "/custom/mg" {
			t.Errorf("base_dir = %q, want %q", defaults["base_dir"], "/custom/mg")
		}
		if defaults["log_dir"] != "/custom/mg/log" {
			t.Errorf("log_dir = %q, want %q", defaults["log_dir"], "/custom/mg/log")
		}
	})

	t.Run("falls back to xdg directories", func(t *testing.T) {
		configHome := t.TempDir()
		stateHome := t.TempDir()
		t.Setenv("MEDIAGRABBER_CONFIG_PATH", "")
		t.Setenv("MEDIAGRABBER_HOME", "")
		t.Setenv("XDG_CONFIG_HOME", configHome)
		t.Setenv("XDG_STATE_HOME", stateHome)

		defaults, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}

		wantConfig := filepath.Join(configHome, "mediagrabber.toml")
		if defaults["config_path"] != wantConfig {
			t.Errorf("config_path = %q, want %q", defaults["config_path"], wantConfig)
		}

		wantBase := filepath.Join(stateHome, "mediagrabber")
		if defaults["base_dir"] != wantBase {
			t.Errorf("base_dir = %q, want %q", defaults["base_dir"], wantBase)
		}

		wantLog := filepath.Join(wantBase, "log")
		if defaults["log_dir"] != wantLog {
			t.Errorf("log_dir = %q, want %q", defaults["log_dir"], wantLog)
		}
	})
}
