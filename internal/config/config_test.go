package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const fullYAML = `
server:
  port: 9090

database:
  driver: mysql
  host: 10.0.0.5
  port: 3307
  name: posters
  user: tracker
`

const sqliteYAML = `
database:
  driver: sqlite
  path: /var/lib/tracker/posters.db
`

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvDBURL, "")
	t.Setenv(EnvDBPassword, "")
	os.Unsetenv(EnvDBURL)
	os.Unsetenv(EnvDBPassword)
}

func TestParse_FullConfig(t *testing.T) {
	clearEnv(t)
	cfg, err := Parse([]byte(fullYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Database.Driver != DriverMySQL {
		t.Errorf("Driver = %q, want mysql", cfg.Database.Driver)
	}
	if got := cfg.DSN(); got != "tracker@tcp(10.0.0.5:3307)/posters?parseTime=true" {
		t.Errorf("DSN = %q", got)
	}
}

func TestParse_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("default port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Driver != DriverSQLite {
		t.Errorf("default driver = %q, want sqlite", cfg.Database.Driver)
	}
	if cfg.DSN() != "poster-tracker.db" {
		t.Errorf("default DSN = %q", cfg.DSN())
	}
}

func TestParse_SQLitePath(t *testing.T) {
	clearEnv(t)
	cfg, err := Parse([]byte(sqliteYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DSN() != "/var/lib/tracker/posters.db" {
		t.Errorf("DSN = %q", cfg.DSN())
	}
}

func TestParse_InvalidDriver(t *testing.T) {
	clearEnv(t)
	_, err := Parse([]byte("database:\n  driver: oracle\n"))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "database.driver") {
		t.Errorf("error = %q, want driver mention", err)
	}
}

func TestParse_EnvOverrides(t *testing.T) {
	t.Setenv(EnvDBURL, "tracker:s3cret@tcp(db.internal:3306)/posters?parseTime=true")
	cfg, err := Parse([]byte(sqliteYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := cfg.DSN(); got != "tracker:s3cret@tcp(db.internal:3306)/posters?parseTime=true" {
		t.Errorf("DSN = %q, want env value verbatim", got)
	}
}

func TestParse_EnvPassword(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvDBPassword, "hunter2")
	cfg, err := Parse([]byte(fullYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := cfg.DSN(); got != "tracker:hunter2@tcp(10.0.0.5:3307)/posters?parseTime=true" {
		t.Errorf("DSN = %q", got)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.Database.Driver != DriverSQLite {
		t.Errorf("driver = %q, want sqlite default", cfg.Database.Driver)
	}
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "poster-tracker.yaml")
	if err := os.WriteFile(path, []byte(fullYAML), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Name != "posters" {
		t.Errorf("Database.Name = %q, want posters", cfg.Database.Name)
	}
}

func TestParse_Malformed(t *testing.T) {
	clearEnv(t)
	if _, err := Parse([]byte("::not yaml::")); err == nil {
		t.Fatal("expected parse error")
	}
}
