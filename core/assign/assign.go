// Package assign maps packages to agents ahead of route simulation.
//
// The engine is a greedy, per-package nearest-agent heuristic: each
// package goes to the agent whose home location is closest to the
// package's source warehouse. It does not attempt global optimization
// or load balancing; the design prioritizes determinism and simplicity
// over optimality, so a single well-placed agent may absorb most of
// the work.
package assign

import (
	"errors"
	"fmt"

	"github.com/coding-with-rohit-914/fastbox/core/fleet"
	"github.com/coding-with-rohit-914/fastbox/core/geo"
	"github.com/coding-with-rohit-914/fastbox/core/model"
)

var (
	// ErrEmptyFleet is returned when no agent is registered.
	ErrEmptyFleet = errors.New("no agents registered")
	// ErrEmptyWarehouses is returned when no warehouse is registered.
	ErrEmptyWarehouses = errors.New("no warehouses registered")
)

// Assign attaches every package to exactly one agent. Packages are
// visited in input order and appended to the chosen agent's queue, so
// each agent serves its share in scenario order rather than grouped by
// warehouse. Ties on distance resolve to the earliest-registered
// agent. Assignment runs once; agents joining afterwards stay idle.
func Assign(reg *fleet.Registry, packages []*model.Package) error {
	agents := reg.Agents()
	if len(agents) == 0 {
		return fmt.Errorf("assign: %w", ErrEmptyFleet)
	}
	if len(reg.Warehouses()) == 0 {
		return fmt.Errorf("assign: %w", ErrEmptyWarehouses)
	}

	for _, pkg := range packages {
		wh, ok := reg.Warehouse(pkg.WarehouseID)
		if !ok {
			return fmt.Errorf("assign: package %s references unknown warehouse %q", pkg.ID, pkg.WarehouseID)
		}
		nearest := nearestAgent(agents, wh)
		nearest.Packages = append(nearest.Packages, pkg)
	}
	return nil
}

// nearestAgent selects the agent whose home is closest to the
// warehouse. Strict less-than keeps the first-registered agent on
// ties.
func nearestAgent(agents []*model.Agent, wh *model.Warehouse) *model.Agent {
	best := agents[0]
	min := geo.Distance(best.Home, wh.Location)
	for _, a := range agents[1:] {
		if d := geo.Distance(a.Home, wh.Location); d < min {
			min = d
			best = a
		}
	}
	return best
}
