package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Server.Addr != ":8080" {
		t.Fatalf("Addr = %q", c.Server.Addr)
	}
	if c.Storage.Backend != "file" {
		t.Fatalf("Backend = %q", c.Storage.Backend)
	}
	if c.Focus.DefaultMinutes != 25 {
		t.Fatalf("DefaultMinutes = %d", c.Focus.DefaultMinutes)
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
server:
  addr: ":9000"
  data_dir: /var/lib/tasktrove
storage:
  backend: sqlite
  dsn: /var/lib/tasktrove/tasks.db
auth:
  enabled: true
  jwt_secret: sekrit
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Server.Addr != ":9000" {
		t.Fatalf("Addr = %q", c.Server.Addr)
	}
	if c.Storage.Backend != "sqlite" || c.Storage.DSN == "" {
		t.Fatalf("Storage = %+v", c.Storage)
	}
	if !c.Auth.Enabled || c.Auth.JWTSecret != "sekrit" {
		t.Fatalf("Auth = %+v", c.Auth)
	}
}

func TestValidateRejectsBadBackend(t *testing.T) {
	c := Default()
	c.Storage.Backend = "scrolls"
	if err := c.Validate(); err == nil {
		t.Fatal("want error for unknown backend")
	}

	c = Default()
	c.Storage.Backend = "postgres"
	if err := c.Validate(); err == nil {
		t.Fatal("want error for missing dsn")
	}

	c = Default()
	c.Auth.Enabled = true
	if err := c.Validate(); err == nil {
		t.Fatal("want error for missing jwt secret")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("TASKTROVE_ADDR", ":7070")
	t.Setenv("TASKTROVE_STORAGE", "sqlite")
	t.Setenv("TASKTROVE_DSN", "/tmp/t.db")
	t.Setenv("TASKTROVE_CORS_ORIGINS", "https://a.example, https://b.example")

	c := Default()
	c.ApplyEnv()
	if c.Server.Addr != ":7070" {
		t.Fatalf("Addr = %q", c.Server.Addr)
	}
	if c.Storage.Backend != "sqlite" || c.Storage.DSN != "/tmp/t.db" {
		t.Fatalf("Storage = %+v", c.Storage)
	}
	if len(c.Server.CORSOrigins) != 2 || c.Server.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("CORSOrigins = %v", c.Server.CORSOrigins)
	}
}
