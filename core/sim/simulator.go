// Package sim replays assigned routes and accumulates distance.
package sim

import (
	"fmt"
	"math/rand"

	"github.com/paulmach/orb"

	"github.com/coding-with-rohit-914/fastbox/core/fleet"
	"github.com/coding-with-rohit-914/fastbox/core/geo"
	"github.com/coding-with-rohit-914/fastbox/core/model"
	"github.com/coding-with-rohit-914/fastbox/infra/logger"
)

// Options controls the stochastic behaviour of a run.
type Options struct {
	// EnableDelays multiplies every leg by a fresh uniform draw from
	// [DelayMin, DelayMax].
	EnableDelays bool
	DelayMin     float64
	DelayMax     float64
}

// SetDefaults applies the historical delay range.
func (o *Options) SetDefaults() {
	if o.DelayMin == 0 {
		o.DelayMin = 1.0
	}
	if o.DelayMax == 0 {
		o.DelayMax = 1.3
	}
}

// Validate checks the delay range is usable.
func (o Options) Validate() error {
	if o.DelayMax < o.DelayMin {
		return fmt.Errorf("delay_max %f below delay_min %f", o.DelayMax, o.DelayMin)
	}
	if o.DelayMin < 1.0 {
		return fmt.Errorf("delay_min %f below 1.0", o.DelayMin)
	}
	return nil
}

// Simulator walks each agent's assigned packages in order. All
// randomness comes from the injected rng so runs are reproducible
// under a fixed seed.
type Simulator struct {
	reg  *fleet.Registry
	rng  *rand.Rand
	opts Options
	log  logger.Logger
}

// New creates a Simulator. A nil logger falls back to the no-op
// implementation.
func New(reg *fleet.Registry, rng *rand.Rand, opts Options, log logger.Logger) *Simulator {
	opts.SetDefaults()
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Simulator{reg: reg, rng: rng, opts: opts, log: log}
}

// Run simulates every agent in registration order. For each package
// the agent walks two legs: current position to the source warehouse,
// then warehouse to the destination. The delivered count increments
// when the delivery leg completes. Agents with no packages end the day
// with an empty route and zero distance.
func (s *Simulator) Run() error {
	for _, agent := range s.reg.Agents() {
		if err := s.runAgent(agent); err != nil {
			return err
		}
		s.log.Debugw("agent simulated", map[string]any{
			"agent":     agent.ID,
			"delivered": agent.Delivered,
			"distance":  agent.Distance,
		})
	}
	return nil
}

func (s *Simulator) runAgent(agent *model.Agent) error {
	for _, pkg := range agent.Packages {
		wh, ok := s.reg.Warehouse(pkg.WarehouseID)
		if !ok {
			return fmt.Errorf("simulate agent %s: package %s references unknown warehouse %q", agent.ID, pkg.ID, pkg.WarehouseID)
		}
		agent.Walk(s.leg(model.LegToWarehouse, agent.Position, wh.Location))
		agent.Walk(s.leg(model.LegDelivery, agent.Position, pkg.Destination))
		agent.Delivered++
	}
	return nil
}

// leg builds one leg, applying the delay multiplier to the raw
// Euclidean distance. The multiplier is drawn per leg, not per agent
// or per run.
func (s *Simulator) leg(kind model.LegKind, from, to orb.Point) model.Leg {
	d := geo.Distance(from, to)
	if s.opts.EnableDelays {
		d *= s.opts.DelayMin + s.rng.Float64()*(s.opts.DelayMax-s.opts.DelayMin)
	}
	return model.Leg{Kind: kind, From: from, To: to, Distance: d}
}
