// Package app wires one simulation run end to end.
package app

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/coding-with-rohit-914/fastbox/config"
	"github.com/coding-with-rohit-914/fastbox/core/assign"
	"github.com/coding-with-rohit-914/fastbox/core/fleet"
	"github.com/coding-with-rohit-914/fastbox/core/report"
	"github.com/coding-with-rohit-914/fastbox/core/sim"
	"github.com/coding-with-rohit-914/fastbox/infra/logger"
	"github.com/coding-with-rohit-914/fastbox/render"
	"github.com/coding-with-rohit-914/fastbox/scenario"
)

// Service runs the linear simulation pass:
// load -> optional mid-day join -> assign -> simulate -> report.
type Service struct {
	cfg *config.Config
	log logger.Logger

	sc     *scenario.Scenario
	report *report.Report
}

// New creates a Service. A nil logger falls back to the no-op
// implementation.
func New(cfg *config.Config, log logger.Logger) *Service {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Service{cfg: cfg, log: log}
}

// Run executes the whole pass for the scenario file at path and
// returns the built report. The report is only built after the
// simulation completes; on error no report is produced.
func (s *Service) Run(path string) (*report.Report, error) {
	sc, err := scenario.Load(path)
	if err != nil {
		return nil, err
	}
	s.sc = sc

	seed := s.cfg.Simulation.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	s.log.Debugw("scenario loaded", map[string]any{
		"agents":     len(sc.Registry.Agents()),
		"warehouses": len(sc.Registry.Warehouses()),
		"packages":   len(sc.Packages),
		"seed":       seed,
	})

	// The join runs before assignment, so the new agent competes for
	// packages. Joining after assignment would leave it idle; keep
	// that ordering in mind when changing this flow.
	if s.cfg.Simulation.NewAgentMidDay && len(sc.Packages) > 0 {
		b := s.cfg.Simulation.JoinBounds
		joined, err := sc.Registry.JoinMidDay(rng, fleet.Bounds{
			MinX: b.MinX, MinY: b.MinY, MaxX: b.MaxX, MaxY: b.MaxY,
		})
		if err != nil {
			return nil, fmt.Errorf("mid-day join: %w", err)
		}
		s.log.Warnf("new agent %s joined at (%.2f, %.2f)", joined.ID, joined.Home[0], joined.Home[1])
	}

	if err := assign.Assign(sc.Registry, sc.Packages); err != nil {
		return nil, err
	}

	simulator := sim.New(sc.Registry, rng, sim.Options{
		EnableDelays: s.cfg.Simulation.EnableDelays,
		DelayMin:     s.cfg.Simulation.DelayMin,
		DelayMax:     s.cfg.Simulation.DelayMax,
	}, s.log)
	if err := simulator.Run(); err != nil {
		return nil, err
	}

	s.report = report.Build(sc.Registry.Agents(), uuid.NewString(), time.Now().UTC())
	if s.report.Summary.TotalPackages != len(sc.Packages) {
		s.log.Warnf("delivered %d of %d packages", s.report.Summary.TotalPackages, len(sc.Packages))
	}
	return s.report, nil
}

// Visualize writes the route listing for one agent of the finished
// run.
func (s *Service) Visualize(w io.Writer, agentID string) error {
	if s.sc == nil {
		return fmt.Errorf("visualize: no simulation has run")
	}
	return render.Routes(w, s.sc.Registry, agentID)
}

// Registry exposes the run's fleet, primarily for tests.
func (s *Service) Registry() *fleet.Registry {
	if s.sc == nil {
		return nil
	}
	return s.sc.Registry
}
