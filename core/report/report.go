// Package report derives per-agent performance metrics from a finished
// simulation.
package report

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/coding-with-rohit-914/fastbox/core/model"
)

// AgentMetrics is the per-agent slice of the final report. Distances
// and efficiency are rounded to two decimals at build time.
type AgentMetrics struct {
	PackagesDelivered int     `json:"packages_delivered"`
	TotalDistance     float64 `json:"total_distance"`
	// Efficiency is total distance per delivered package, lower is
	// better. Zero when the agent delivered nothing.
	Efficiency float64 `json:"efficiency"`
}

// Summary aggregates the fleet as a whole. Mean and stddev cover only
// agents that delivered at least one package.
type Summary struct {
	TotalPackages    int     `json:"total_packages"`
	TotalDistance    float64 `json:"total_distance"`
	MeanEfficiency   float64 `json:"mean_efficiency"`
	StdDevEfficiency float64 `json:"stddev_efficiency"`
}

// Report is the read-only result of one simulation run.
type Report struct {
	RunID       string                  `json:"run_id"`
	GeneratedAt time.Time               `json:"generated_at"`
	Agents      map[string]AgentMetrics `json:"agents"`
	// BestAgent is nil when no agent delivered any package.
	BestAgent *string `json:"best_agent"`
	Summary   Summary `json:"summary"`

	order []string
}

// Order returns agent ids in registration order, for stable printing.
func (r *Report) Order() []string { return r.order }

// Build folds the simulated agents into an immutable report. The best
// agent is the one with the lowest efficiency among agents that
// delivered at least one package; ties resolve to the smaller id.
func Build(agents []*model.Agent, runID string, at time.Time) *Report {
	r := &Report{
		RunID:       runID,
		GeneratedAt: at,
		Agents:      make(map[string]AgentMetrics, len(agents)),
	}

	var efficiencies []float64
	for _, a := range agents {
		m := AgentMetrics{
			PackagesDelivered: a.Delivered,
			TotalDistance:     round2(a.Distance),
		}
		if a.Delivered > 0 {
			m.Efficiency = round2(a.Distance / float64(a.Delivered))
			efficiencies = append(efficiencies, m.Efficiency)
		}
		r.Agents[a.ID] = m
		r.order = append(r.order, a.ID)
		r.Summary.TotalPackages += a.Delivered
		r.Summary.TotalDistance += a.Distance

		if a.Delivered == 0 {
			continue
		}
		if r.BestAgent == nil {
			id := a.ID
			r.BestAgent = &id
			continue
		}
		best := r.Agents[*r.BestAgent]
		if m.Efficiency < best.Efficiency ||
			(m.Efficiency == best.Efficiency && a.ID < *r.BestAgent) {
			id := a.ID
			r.BestAgent = &id
		}
	}

	r.Summary.TotalDistance = round2(r.Summary.TotalDistance)
	if len(efficiencies) > 0 {
		r.Summary.MeanEfficiency = round2(stat.Mean(efficiencies, nil))
		if len(efficiencies) > 1 {
			r.Summary.StdDevEfficiency = round2(stat.StdDev(efficiencies, nil))
		}
	}
	return r
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
