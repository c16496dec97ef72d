// Package model defines the domain entities shared by the simulation
// engine: warehouses, agents, packages and the route legs agents walk.
package model

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Warehouse is a fixed pickup location referenced by packages.
type Warehouse struct {
	ID       string
	Location orb.Point
}

// Package is a single delivery task: pick up at a warehouse, drop off
// at a destination point. Immutable once created.
type Package struct {
	ID          string
	WarehouseID string
	Destination orb.Point
}

// LegKind tags a leg of an agent's route.
type LegKind int

const (
	LegToWarehouse LegKind = iota
	LegDelivery
)

// String returns a human-readable representation of the leg kind.
func (k LegKind) String() string {
	switch k {
	case LegToWarehouse:
		return "to_warehouse"
	case LegDelivery:
		return "delivery"
	default:
		return "unknown"
	}
}

// Leg is one directed movement segment walked during simulation.
// Distance is the effective distance, including any delay multiplier.
type Leg struct {
	Kind     LegKind
	From     orb.Point
	To       orb.Point
	Distance float64
}

// Agent is a delivery actor. Home is the registration location used by
// the assignment engine and never changes; Position tracks the agent
// while its route is simulated.
type Agent struct {
	ID       string
	Home     orb.Point
	Position orb.Point

	// Packages holds the assigned deliveries in assignment order.
	Packages []*Package

	// Accumulated while simulating.
	Distance  float64
	Delivered int
	Route     []Leg
}

// NewAgent returns an agent standing at its home location.
func NewAgent(id string, home orb.Point) *Agent {
	return &Agent{ID: id, Home: home, Position: home}
}

// Walk appends a leg, moves the agent to its endpoint and accumulates
// the effective distance.
func (a *Agent) Walk(leg Leg) {
	a.Route = append(a.Route, leg)
	a.Position = leg.To
	a.Distance += leg.Distance
}

// Validate checks that the agent record is sound.
func (a *Agent) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("agent id must be non-empty")
	}
	return nil
}

// Validate checks that the package references a warehouse.
func (p *Package) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("package id must be non-empty")
	}
	if p.WarehouseID == "" {
		return fmt.Errorf("package %s: warehouse id must be non-empty", p.ID)
	}
	return nil
}
