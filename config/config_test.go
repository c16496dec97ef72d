package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `simulation:
  enable_delays: true
  new_agent_mid_day: true
  seed: 42
  delay_min: 1.0
  delay_max: 1.2
  join_bounds:
    max_x: 50
    max_y: 50
scenarios:
  dir: "./cases"
output:
  report_path: "out/report.json"
  csv_path: "out/top.csv"
logging:
  level: "debug"
  console: true
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"enable_delays", cfg.Simulation.EnableDelays, true},
		{"new_agent_mid_day", cfg.Simulation.NewAgentMidDay, true},
		{"seed", cfg.Simulation.Seed, int64(42)},
		{"delay_max", cfg.Simulation.DelayMax, 1.2},
		{"join_bounds.max_x", cfg.Simulation.JoinBounds.MaxX, 50.0},
		{"scenarios.dir", cfg.Scenarios.Dir, "./cases"},
		{"report_path", cfg.Output.ReportPath, "out/report.json"},
		{"csv_path", cfg.Output.CSVPath, "out/top.csv"},
		{"log level", cfg.Logging.Level, "debug"},
		{"log console", cfg.Logging.Console, true},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: got %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Simulation.DelayMin != 1.0 || cfg.Simulation.DelayMax != 1.3 {
		t.Fatalf("delay defaults not applied: %+v", cfg.Simulation)
	}
	if cfg.Simulation.JoinBounds.MaxX != 100 {
		t.Fatalf("join bounds default not applied: %+v", cfg.Simulation.JoinBounds)
	}
	if cfg.Output.ReportPath != "report.json" || cfg.Output.CSVPath != "top_performer.csv" {
		t.Fatalf("output defaults not applied: %+v", cfg.Output)
	}
}

func TestLoadRejectsInvalidDelayRange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `simulation:
  delay_min: 1.5
  delay_max: 1.1
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("x = 1"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected unsupported format error")
	}
}
