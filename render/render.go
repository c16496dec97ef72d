// Package render prints human-readable route listings for single
// agents.
package render

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/coding-with-rohit-914/fastbox/core/fleet"
	"github.com/coding-with-rohit-914/fastbox/core/model"
)

// ErrUnknownAgent is returned when a visualization is requested for an
// id that is not in the fleet.
var ErrUnknownAgent = errors.New("unknown agent")

// Routes writes an ordered listing of the agent's legs followed by a
// delivery summary.
func Routes(w io.Writer, reg *fleet.Registry, agentID string) error {
	agent, ok := reg.Agent(agentID)
	if !ok {
		return fmt.Errorf("visualize %q: %w", agentID, ErrUnknownAgent)
	}

	fmt.Fprintf(w, "Route for agent %s\n", agent.ID)
	fmt.Fprintln(w, strings.Repeat("=", 50))
	for i, leg := range agent.Route {
		fmt.Fprintf(w, "%d. %s\n", i+1, legLabel(leg.Kind))
		fmt.Fprintf(w, "   from (%.2f, %.2f) to (%.2f, %.2f)\n", leg.From[0], leg.From[1], leg.To[0], leg.To[1])
		fmt.Fprintf(w, "   distance: %.2f units\n", leg.Distance)
	}
	if len(agent.Route) == 0 {
		fmt.Fprintln(w, "(no legs: agent received no packages)")
	}
	fmt.Fprintln(w, strings.Repeat("-", 50))
	fmt.Fprintf(w, "packages delivered: %d\n", agent.Delivered)
	fmt.Fprintf(w, "total distance:     %.2f\n", agent.Distance)
	return nil
}

func legLabel(k model.LegKind) string {
	if k == model.LegToWarehouse {
		return "travel to warehouse"
	}
	return "deliver package"
}
