package config

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(envMap(map[string]string{
		"PREDIBENCH_DATA":     "series.json",
		"PREDIBENCH_WIDTH":    "640",
		"PREDIBENCH_THEME":    "dark",
		"PREDIBENCH_TICK_MAX": "7",
		"PREDIBENCH_DOMAIN":   "-0.5, 0.5",
		"PREDIBENCH_HEIGHT":   "",
	}))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if cfg.DataFile != "series.json" || cfg.Width != 640 || cfg.Theme != "dark" || cfg.TickMax != 7 {
		t.Fatalf("cfg=%+v", cfg)
	}
	if cfg.Height != Default().Height {
		t.Fatalf("empty variable should keep the default height: %d", cfg.Height)
	}
	if cfg.Domain == nil || cfg.Domain.Min != -0.5 || cfg.Domain.Max != 0.5 {
		t.Fatalf("domain=%+v", cfg.Domain)
	}
	if cfg.ChartTheme().Name != "dark" {
		t.Fatalf("theme=%q", cfg.ChartTheme().Name)
	}
}

func TestApplyEnvErrors(t *testing.T) {
	for _, env := range []map[string]string{
		{"PREDIBENCH_WIDTH": "wide"},
		{"PREDIBENCH_DOMAIN": "1"},
		{"PREDIBENCH_DOMAIN": "0.5,0.5"},
	} {
		cfg := Default()
		if err := cfg.ApplyEnv(envMap(env)); !errors.Is(err, ErrInvalid) {
			t.Fatalf("%v: got %v", env, err)
		}
	}
}

func TestLoadDotEnvAndFlags(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	content := "PREDIBENCH_ANNOTATIONS=notes.yaml\nPREDIBENCH_LOG_LEVEL=debug\n"
	if err := os.WriteFile(envFile, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("PREDIBENCH_LOG_LEVEL", "warn")
	// godotenv sets variables it loads; register cleanup for the one it adds
	t.Setenv("PREDIBENCH_ANNOTATIONS", "")
	os.Unsetenv("PREDIBENCH_ANNOTATIONS")

	cfg, err := Load(envFile, filepath.Join(dir, "missing.env"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AnnotationsFile != "notes.yaml" {
		t.Fatalf("dotenv value not applied: %+v", cfg)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("environment should win over .env: %q", cfg.LogLevel)
	}

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.RegisterFlags(fs)
	if err := fs.Parse([]string{"-width", "1200", "-domain", "0,1", "-theme", "dark"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Width != 1200 || cfg.Theme != "dark" || cfg.Domain == nil || cfg.Domain.Max != 1 {
		t.Fatalf("flags not applied: %+v", cfg)
	}
	if cfg.AnnotationsFile != "notes.yaml" {
		t.Fatalf("unset flag should keep the loaded value")
	}
	if err := fs.Parse([]string{"-domain", "x,y"}); err == nil {
		t.Fatalf("bad domain flag accepted")
	}
}

func TestValidate(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	bad := []func(*Config){
		func(c *Config) { c.Width = 0 },
		func(c *Config) { c.TickMin = 1 },
		func(c *Config) { c.TickMax = c.TickMin - 1 },
		func(c *Config) { c.Theme = "sepia" },
	}
	for i, mut := range bad {
		c := Default()
		mut(&c)
		if err := c.Validate(); !errors.Is(err, ErrInvalid) {
			t.Fatalf("case %d: got %v", i, err)
		}
	}
	tr := Default().TickRange()
	if tr.Min != 4 || tr.Max != 9 {
		t.Fatalf("tick range=%+v", tr)
	}
}

func TestLoadInputs(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "series.json")
	notes := filepath.Join(dir, "notes.yaml")
	if err := os.WriteFile(data, []byte(`{"domain":[0,1],"series":[{"key":"a","points":[{"x":"2024-01-01","y":0.5}]}]}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(notes, []byte("2024-01-01: start\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg := Default()
	if _, _, err := cfg.LoadInputs(); !errors.Is(err, ErrInvalid) {
		t.Fatalf("missing data file: %v", err)
	}
	cfg.DataFile, cfg.AnnotationsFile = data, notes
	ds, ann, err := cfg.LoadInputs()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(ds.Series) != 1 || ds.Domain == nil || ds.Domain.Max != 1 || ann["2024-01-01"].Content != "start" {
		t.Fatalf("ds=%+v ann=%v", ds, ann)
	}
	cfg.Domain, _ = ParseDomain("-1,2")
	ds, _, _ = cfg.LoadInputs()
	if ds.Domain.Min != -1 {
		t.Fatalf("configured domain should win: %+v", ds.Domain)
	}
}
