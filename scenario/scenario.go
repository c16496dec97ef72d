// Package scenario loads and normalizes simulation input files.
//
// Scenario files are JSON documents with warehouses, agents and
// packages. Historically each collection appears either as an array of
// objects or as a map of id to value, and coordinates appear either as
// [x, y] pairs or as separate fields. Everything is normalized into
// insertion-ordered collections here so the engine never sees the
// format variation. Map-shaped collections carry no reliable order, so
// their entries are sorted by id.
package scenario

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/paulmach/orb"

	"github.com/coding-with-rohit-914/fastbox/core/fleet"
	"github.com/coding-with-rohit-914/fastbox/core/model"
)

// ErrMalformedInput is returned for unreadable files, invalid JSON and
// records with missing or inconsistent fields.
var ErrMalformedInput = errors.New("malformed scenario input")

var validate = validator.New()

// Scenario is the normalized input of one simulation run.
type Scenario struct {
	Registry *fleet.Registry
	Packages []*model.Package
}

type document struct {
	Warehouses json.RawMessage `json:"warehouses"`
	Agents     json.RawMessage `json:"agents"`
	Packages   json.RawMessage `json:"packages"`
}

// point accepts both [x, y] and {"x": ..., "y": ...}.
type point struct {
	coords orb.Point
	set    bool
}

func (p *point) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var pair []float64
		if err := json.Unmarshal(data, &pair); err != nil {
			return err
		}
		if len(pair) != 2 {
			return fmt.Errorf("coordinate pair has %d elements, want 2", len(pair))
		}
		p.coords = orb.Point{pair[0], pair[1]}
		p.set = true
		return nil
	}
	var obj struct {
		X *float64 `json:"x"`
		Y *float64 `json:"y"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	if obj.X == nil || obj.Y == nil {
		return fmt.Errorf("coordinate object needs both x and y")
	}
	p.coords = orb.Point{*obj.X, *obj.Y}
	p.set = true
	return nil
}

// placeEntry is a warehouse or agent record in array form.
type placeEntry struct {
	ID       string   `json:"id" validate:"required"`
	Location *point   `json:"location"`
	X        *float64 `json:"x"`
	Y        *float64 `json:"y"`
}

func (e placeEntry) point() (orb.Point, error) {
	if e.Location != nil && e.Location.set {
		return e.Location.coords, nil
	}
	if e.X != nil && e.Y != nil {
		return orb.Point{*e.X, *e.Y}, nil
	}
	return orb.Point{}, fmt.Errorf("entry %q has no location", e.ID)
}

type packageEntry struct {
	ID          string   `json:"id" validate:"required"`
	WarehouseID string   `json:"warehouse_id"`
	Warehouse   string   `json:"warehouse"`
	Destination *point   `json:"destination"`
	DestX       *float64 `json:"dest_x"`
	DestY       *float64 `json:"dest_y"`
}

func (e packageEntry) warehouse() string {
	if e.WarehouseID != "" {
		return e.WarehouseID
	}
	return e.Warehouse
}

func (e packageEntry) destination() (orb.Point, error) {
	if e.Destination != nil && e.Destination.set {
		return e.Destination.coords, nil
	}
	if e.DestX != nil && e.DestY != nil {
		return orb.Point{*e.DestX, *e.DestY}, nil
	}
	return orb.Point{}, fmt.Errorf("package %q has no destination", e.ID)
}

// Load reads and parses the scenario file at path.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrMalformedInput, path, err)
	}
	return Parse(data)
}

// Parse normalizes a scenario document into a registry and an ordered
// package list.
func Parse(data []byte) (*Scenario, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", ErrMalformedInput, err)
	}

	warehouses, err := parsePlaces(doc.Warehouses, "warehouses")
	if err != nil {
		return nil, err
	}
	agents, err := parsePlaces(doc.Agents, "agents")
	if err != nil {
		return nil, err
	}
	packages, err := parsePackages(doc.Packages)
	if err != nil {
		return nil, err
	}

	reg := fleet.NewRegistry()
	for _, w := range warehouses {
		loc, err := w.point()
		if err != nil {
			return nil, fmt.Errorf("%w: warehouses: %v", ErrMalformedInput, err)
		}
		if _, err := reg.AddWarehouse(w.ID, loc); err != nil {
			return nil, err
		}
	}
	for _, a := range agents {
		loc, err := a.point()
		if err != nil {
			return nil, fmt.Errorf("%w: agents: %v", ErrMalformedInput, err)
		}
		if _, err := reg.AddAgent(a.ID, loc); err != nil {
			return nil, err
		}
	}

	sc := &Scenario{Registry: reg}
	seen := make(map[string]struct{}, len(packages))
	for _, p := range packages {
		if err := validate.Struct(p); err != nil {
			return nil, fmt.Errorf("%w: packages: %v", ErrMalformedInput, err)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("add package %q: %w", p.ID, fleet.ErrDuplicateID)
		}
		seen[p.ID] = struct{}{}
		wh := p.warehouse()
		if wh == "" {
			return nil, fmt.Errorf("%w: package %q has no warehouse reference", ErrMalformedInput, p.ID)
		}
		if _, ok := reg.Warehouse(wh); !ok {
			return nil, fmt.Errorf("%w: package %q references unknown warehouse %q", ErrMalformedInput, p.ID, wh)
		}
		dest, err := p.destination()
		if err != nil {
			return nil, fmt.Errorf("%w: packages: %v", ErrMalformedInput, err)
		}
		sc.Packages = append(sc.Packages, &model.Package{ID: p.ID, WarehouseID: wh, Destination: dest})
	}
	return sc, nil
}

// parsePlaces accepts an array of records or a map of id to record or
// coordinate pair.
func parsePlaces(raw json.RawMessage, section string) ([]placeEntry, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	switch trimmed[0] {
	case '[':
		var entries []placeEntry
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedInput, section, err)
		}
		for _, e := range entries {
			if err := validate.Struct(e); err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrMalformedInput, section, err)
			}
		}
		return entries, nil
	case '{':
		var m map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &m); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedInput, section, err)
		}
		ids := make([]string, 0, len(m))
		for id := range m {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		entries := make([]placeEntry, 0, len(ids))
		for _, id := range ids {
			var pt point
			if err := json.Unmarshal(m[id], &pt); err != nil {
				return nil, fmt.Errorf("%w: %s %q: %v", ErrMalformedInput, section, id, err)
			}
			loc := pt
			entries = append(entries, placeEntry{ID: id, Location: &loc})
		}
		return entries, nil
	default:
		return nil, fmt.Errorf("%w: %s must be an array or an object", ErrMalformedInput, section)
	}
}

func parsePackages(raw json.RawMessage) ([]packageEntry, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	switch trimmed[0] {
	case '[':
		var entries []packageEntry
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, fmt.Errorf("%w: packages: %v", ErrMalformedInput, err)
		}
		return entries, nil
	case '{':
		var m map[string]packageEntry
		if err := json.Unmarshal(trimmed, &m); err != nil {
			return nil, fmt.Errorf("%w: packages: %v", ErrMalformedInput, err)
		}
		ids := make([]string, 0, len(m))
		for id := range m {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		entries := make([]packageEntry, 0, len(ids))
		for _, id := range ids {
			e := m[id]
			if e.ID == "" {
				e.ID = id
			}
			entries = append(entries, e)
		}
		return entries, nil
	default:
		return nil, fmt.Errorf("%w: packages must be an array or an object", ErrMalformedInput)
	}
}
