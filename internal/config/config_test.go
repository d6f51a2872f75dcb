package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Port != 5000 || c.OutlierMethod != "cap" || c.CleanedFile != "data_cleaned.csv" {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.Addr() != "0.0.0.0:5000" {
		t.Fatalf("addr = %s", c.Addr())
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("JKNSTAT_PORT", "8081")
	t.Setenv("JKNSTAT_OUTLIER_METHOD", "REMOVE")
	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Port != 8081 {
		t.Fatalf("port = %d, want 8081", c.Port)
	}
	if c.OutlierMethod != "remove" {
		t.Fatalf("outlier_method = %q", c.OutlierMethod)
	}
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	path := filepath.Join(dir, "cfg.yaml")
	c := Default()
	c.DPI = 300
	c.StaticDir = "out"
	if err := Save(c, path); err != nil {
		t.Fatalf("save: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(b), "dpi: 300") {
		t.Fatalf("expected dpi in yaml, got:\n%s", b)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.DPI != 300 || got.StaticDir != "out" {
		t.Fatalf("reload mismatch: %+v", got)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]func(*Global){
		"method": func(c *Global) { c.OutlierMethod = "winsorize" },
		"port":   func(c *Global) { c.Port = 70000 },
		"dpi":    func(c *Global) { c.DPI = 5 },
		"format": func(c *Global) { c.LogFormat = "xml" },
	}
	for name, mutate := range cases {
		c := Default()
		mutate(c)
		if err := Validate(c); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
	if err := Validate(Default()); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}
