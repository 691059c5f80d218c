package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Legacy.Database != "mwnf3" {
		t.Fatalf("legacy database = %q, want mwnf3", cfg.Legacy.Database)
	}
	if cfg.Import.WriteMode != WriteModeSQL {
		t.Fatalf("write mode = %q, want sql", cfg.Import.WriteMode)
	}
	if cfg.Import.DefaultLanguage != "eng" {
		t.Fatalf("default language = %q, want eng", cfg.Import.DefaultLanguage)
	}
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
legacy:
  host: legacy.internal
  database: mwnf3_archive
import:
  write_mode: api
api:
  base_url: https://inventory.example.org/api
  token: secret
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Legacy.Host != "legacy.internal" {
		t.Fatalf("legacy host = %q", cfg.Legacy.Host)
	}
	if cfg.Legacy.Database != "mwnf3_archive" {
		t.Fatalf("legacy database = %q", cfg.Legacy.Database)
	}
	if cfg.Import.WriteMode != WriteModeAPI {
		t.Fatalf("write mode = %q, want api", cfg.Import.WriteMode)
	}
	// Untouched sections keep their defaults.
	if cfg.Legacy.Port != 3306 {
		t.Fatalf("legacy port = %d, want default 3306", cfg.Legacy.Port)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("LEGACY_DB_HOST", "db.example.org")
	t.Setenv("LEGACY_DB_PORT", "3307")
	t.Setenv("API_TOKEN", "env-token")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Legacy.Host != "db.example.org" {
		t.Fatalf("legacy host = %q", cfg.Legacy.Host)
	}
	if cfg.Legacy.Port != 3307 {
		t.Fatalf("legacy port = %d", cfg.Legacy.Port)
	}
	if cfg.API.Token != "env-token" {
		t.Fatalf("api token = %q", cfg.API.Token)
	}
}

func TestValidateRejectsBadWriteMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Import.WriteMode = "carrier-pigeon"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "write_mode") {
		t.Fatalf("error should name write_mode: %v", err)
	}
}

func TestValidateAPIRequiresBaseURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Import.WriteMode = WriteModeAPI
	cfg.API.BaseURL = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("api write mode without a base URL must not validate")
	}
}

func TestConnectionString(t *testing.T) {
	cfg := DefaultConfig()
	dsn := cfg.Legacy.ConnectionString()

	for _, want := range []string{"root:root@tcp(localhost:3306)/mwnf3", "parseTime=true"} {
		if !strings.Contains(dsn, want) {
			t.Fatalf("dsn %q missing %q", dsn, want)
		}
	}
}
