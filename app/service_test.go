package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"

	"github.com/coding-with-rohit-914/fastbox/config"
	"github.com/coding-with-rohit-914/fastbox/core/assign"
	"github.com/coding-with-rohit-914/fastbox/core/fleet"
	"github.com/coding-with-rohit-914/fastbox/core/model"
	"github.com/coding-with-rohit-914/fastbox/core/report"
)

func orbPoint(x, y float64) orb.Point { return orb.Point{x, y} }

func scenarioPackages(warehouseID string, n int) []*model.Package {
	pkgs := make([]*model.Package, n)
	for i := range pkgs {
		pkgs[i] = &model.Package{
			ID:          fmt.Sprintf("P%d", i+1),
			WarehouseID: warehouseID,
			Destination: orb.Point{float64(i), float64(i)},
		}
	}
	return pkgs
}

const baseCase = `{
	"warehouses": [
		{"id": "W1", "location": [0, 0]},
		{"id": "W2", "location": [10, 0]},
		{"id": "W3", "location": [0, 10]}
	],
	"agents": [{"id": "A1", "location": [5, 5]}],
	"packages": [{"id": "P1", "warehouse_id": "W1", "destination": [30, 40]}]
}`

func writeScenario(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "case.json")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunBaseCase(t *testing.T) {
	cfg := config.Default()
	svc := New(cfg, nil)
	r, err := svc.Run(writeScenario(t, baseCase))
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	m := r.Agents["A1"]
	if m.PackagesDelivered != 1 {
		t.Fatalf("delivered = %d, want 1", m.PackagesDelivered)
	}
	want := math.Round((math.Sqrt(50)+50)*100) / 100 // 57.07
	if m.TotalDistance != want {
		t.Fatalf("total distance = %f, want %f", m.TotalDistance, want)
	}
	if m.Efficiency != want {
		t.Fatalf("efficiency = %f, want %f", m.Efficiency, want)
	}
	if r.BestAgent == nil || *r.BestAgent != "A1" {
		t.Fatalf("best agent = %v, want A1", r.BestAgent)
	}
}

// resultBytes strips run id and timestamp so two reports on identical
// input can be compared byte for byte.
func resultBytes(t *testing.T, r *report.Report) []byte {
	t.Helper()
	data, err := json.Marshal(struct {
		Agents    map[string]report.AgentMetrics `json:"agents"`
		BestAgent *string                        `json:"best_agent"`
		Summary   report.Summary                 `json:"summary"`
	}{r.Agents, r.BestAgent, r.Summary})
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestRunDeterministicWithoutDelays(t *testing.T) {
	path := writeScenario(t, baseCase)
	run := func() []byte {
		r, err := New(config.Default(), nil).Run(path)
		if err != nil {
			t.Fatal(err)
		}
		return resultBytes(t, r)
	}
	if !bytes.Equal(run(), run()) {
		t.Fatal("two delay-free runs differ")
	}
}

func TestRunDeterministicWithSeed(t *testing.T) {
	path := writeScenario(t, baseCase)
	run := func() []byte {
		cfg := config.Default()
		cfg.Simulation.EnableDelays = true
		cfg.Simulation.Seed = 1234
		r, err := New(cfg, nil).Run(path)
		if err != nil {
			t.Fatal(err)
		}
		return resultBytes(t, r)
	}
	if !bytes.Equal(run(), run()) {
		t.Fatal("two seeded runs differ")
	}
}

func TestRunMidDayJoinCompetesForPackages(t *testing.T) {
	cfg := config.Default()
	cfg.Simulation.NewAgentMidDay = true
	cfg.Simulation.Seed = 99
	svc := New(cfg, nil)
	r, err := svc.Run(writeScenario(t, baseCase))
	if err != nil {
		t.Fatal(err)
	}
	if len(svc.Registry().Agents()) != 2 {
		t.Fatalf("expected 2 agents after join, got %d", len(svc.Registry().Agents()))
	}
	if r.Summary.TotalPackages != 1 {
		t.Fatalf("all packages must still be delivered, got %d", r.Summary.TotalPackages)
	}
}

func TestJoinAfterAssignmentStaysIdle(t *testing.T) {
	reg := fleet.NewRegistry()
	if _, err := reg.AddWarehouse("W1", orbPoint(0, 0)); err != nil {
		t.Fatal(err)
	}
	if _, err := reg.AddAgent("A1", orbPoint(5, 5)); err != nil {
		t.Fatal(err)
	}
	pkgs := scenarioPackages("W1", 3)
	if err := assign.Assign(reg, pkgs); err != nil {
		t.Fatal(err)
	}
	late, err := reg.JoinMidDay(rand.New(rand.NewSource(1)), fleet.DefaultJoinBounds)
	if err != nil {
		t.Fatal(err)
	}
	if len(late.Packages) != 0 {
		t.Fatalf("agent joining after assignment must stay idle, got %d packages", len(late.Packages))
	}
}

func TestRunMalformedScenario(t *testing.T) {
	_, err := New(config.Default(), nil).Run(writeScenario(t, `{"warehouses": 7}`))
	if err == nil {
		t.Fatal("expected load error")
	}
}

func TestVisualizeAfterRun(t *testing.T) {
	svc := New(config.Default(), nil)
	if _, err := svc.Run(writeScenario(t, baseCase)); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := svc.Visualize(&buf, "A1"); err != nil {
		t.Fatalf("visualize: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("empty visualization")
	}
	if err := svc.Visualize(&buf, "ghost"); err == nil {
		t.Fatal("expected unknown agent error")
	}
}
