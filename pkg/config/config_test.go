package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultMatchesOriginalCLIDefaults(t *testing.T) {
	c := Default()
	if c.Precision != 30 || c.CostSingle != 1000 || c.SameAngle {
		t.Fatalf("Default() = %+v, want precision 30, cost_single 1000, same_angle false", c)
	}
}

func TestLoadEnvAppliesPrefixedVars(t *testing.T) {
	t.Setenv("QROTSYNTH_PRECISION", "12")
	t.Setenv("QROTSYNTH_COST_SINGLE", "500")
	t.Setenv("QROTSYNTH_SAME_ANGLE", "true")
	t.Setenv("QROTSYNTH_INPUT", "in.qasm")

	c := Default()
	if err := c.LoadEnv(""); err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if c.Precision != 12 || c.CostSingle != 500 || !c.SameAngle || c.Input != "in.qasm" {
		t.Fatalf("LoadEnv did not apply env vars: %+v", c)
	}
}

func TestLoadEnvMissingDotenvFileIsNotAnError(t *testing.T) {
	c := Default()
	if err := c.LoadEnv(filepath.Join(t.TempDir(), "does-not-exist.env")); err != nil {
		t.Fatalf("LoadEnv should tolerate a missing .env file, got: %v", err)
	}
}

func TestLoadEnvLoadsDotenvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("QROTSYNTH_PRECISION=20\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	c := Default()
	if err := c.LoadEnv(path); err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if c.Precision != 20 {
		t.Fatalf("Precision = %d, want 20 from the .env file", c.Precision)
	}
}

func TestLoadFileMergesOverExistingValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "precision: 16\nverbose: true\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	c := Default()
	c.CostSingle = 999 // should survive, since the file doesn't mention cost_single
	if err := c.LoadFile(path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if c.Precision != 16 {
		t.Fatalf("Precision = %d, want 16", c.Precision)
	}
	if !c.Verbose {
		t.Fatal("Verbose should be true after loading the file")
	}
	if c.CostSingle != 999 {
		t.Fatalf("CostSingle = %d, want 999 (untouched by the file)", c.CostSingle)
	}
}

func TestLoadFileMissingReturnsError(t *testing.T) {
	c := Default()
	if err := c.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error reading a nonexistent config file")
	}
}
