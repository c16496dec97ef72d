package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/coding-with-rohit-914/fastbox/core/model"
	"github.com/coding-with-rohit-914/fastbox/core/report"
)

func sampleReport(t *testing.T) *report.Report {
	t.Helper()
	agents := []*model.Agent{
		{ID: "A1", Delivered: 2, Distance: 100},
		{ID: "A2", Delivered: 0},
	}
	return report.Build(agents, "run-1", time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleReport(t)); err != nil {
		t.Fatalf("write: %v", err)
	}
	var decoded struct {
		Agents    map[string]report.AgentMetrics `json:"agents"`
		BestAgent *string                        `json:"best_agent"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.BestAgent == nil || *decoded.BestAgent != "A1" {
		t.Fatalf("best_agent = %v", decoded.BestAgent)
	}
	if decoded.Agents["A1"].Efficiency != 50 {
		t.Fatalf("A1 efficiency = %f", decoded.Agents["A1"].Efficiency)
	}
}

func TestWriteJSONNullBestAgent(t *testing.T) {
	r := report.Build([]*model.Agent{{ID: "A1"}}, "run-2", time.Now())
	var buf bytes.Buffer
	if err := WriteJSON(&buf, r); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"best_agent": null`) {
		t.Fatalf("expected explicit null best_agent, got %s", buf.String())
	}
}

func TestWriteTopPerformerCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTopPerformerCSV(&buf, sampleReport(t)); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %d lines", len(lines))
	}
	if lines[0] != "agent_id,packages_delivered,total_distance,efficiency,timestamp" {
		t.Fatalf("unexpected header: %s", lines[0])
	}
	if !strings.HasPrefix(lines[1], "A1,2,100,50,") {
		t.Fatalf("unexpected row: %s", lines[1])
	}
}

func TestWriteTopPerformerCSVNoBest(t *testing.T) {
	r := report.Build([]*model.Agent{{ID: "A1"}}, "run-3", time.Now())
	err := WriteTopPerformerCSV(&bytes.Buffer{}, r)
	if !errors.Is(err, ErrNoBestAgent) {
		t.Fatalf("expected ErrNoBestAgent, got %v", err)
	}
}
