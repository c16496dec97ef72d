// Package fleet owns the canonical collections of agents and
// warehouses for one simulation run.
package fleet

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/paulmach/orb"

	"github.com/coding-with-rohit-914/fastbox/core/model"
)

// ErrDuplicateID is returned when two entities share an identifier.
var ErrDuplicateID = errors.New("duplicate identifier")

// Bounds is the box in which mid-day agents spawn.
type Bounds struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// DefaultJoinBounds matches the historical spawn area.
var DefaultJoinBounds = Bounds{MaxX: 100, MaxY: 100}

// Registry holds warehouses and agents keyed by id, preserving
// insertion order so iteration stays deterministic.
type Registry struct {
	agents       []*model.Agent
	agentIDs     map[string]*model.Agent
	warehouses   []*model.Warehouse
	warehouseIDs map[string]*model.Warehouse
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		agentIDs:     make(map[string]*model.Agent),
		warehouseIDs: make(map[string]*model.Warehouse),
	}
}

// AddWarehouse registers a warehouse.
func (r *Registry) AddWarehouse(id string, loc orb.Point) (*model.Warehouse, error) {
	if _, ok := r.warehouseIDs[id]; ok {
		return nil, fmt.Errorf("add warehouse %q: %w", id, ErrDuplicateID)
	}
	w := &model.Warehouse{ID: id, Location: loc}
	r.warehouses = append(r.warehouses, w)
	r.warehouseIDs[id] = w
	return w, nil
}

// AddAgent registers an agent at its home location.
func (r *Registry) AddAgent(id string, home orb.Point) (*model.Agent, error) {
	if _, ok := r.agentIDs[id]; ok {
		return nil, fmt.Errorf("add agent %q: %w", id, ErrDuplicateID)
	}
	a := model.NewAgent(id, home)
	r.agents = append(r.agents, a)
	r.agentIDs[id] = a
	return a, nil
}

// JoinMidDay spawns a new agent at a uniformly random location inside
// bounds. The identifier derives from the current fleet size. Agents
// joining after assignment has run receive no packages; the caller
// controls the ordering.
func (r *Registry) JoinMidDay(rng *rand.Rand, bounds Bounds) (*model.Agent, error) {
	id := fmt.Sprintf("A%d", len(r.agents)+1)
	loc := orb.Point{
		bounds.MinX + rng.Float64()*(bounds.MaxX-bounds.MinX),
		bounds.MinY + rng.Float64()*(bounds.MaxY-bounds.MinY),
	}
	return r.AddAgent(id, loc)
}

// Agents returns the agents in registration order.
func (r *Registry) Agents() []*model.Agent { return r.agents }

// Warehouses returns the warehouses in registration order.
func (r *Registry) Warehouses() []*model.Warehouse { return r.warehouses }

// Agent looks up an agent by id.
func (r *Registry) Agent(id string) (*model.Agent, bool) {
	a, ok := r.agentIDs[id]
	return a, ok
}

// Warehouse looks up a warehouse by id.
func (r *Registry) Warehouse(id string) (*model.Warehouse, bool) {
	w, ok := r.warehouseIDs[id]
	return w, ok
}
