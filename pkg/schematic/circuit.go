// Package schematic holds the editor-facing circuit document: the
// component/wire element pools, id allocation, and the persisted JSON
// document codec (spec §6). Electrical connectivity is never decided
// here — pkg/netlist derives it spatially from these element pools.
package schematic

import (
	"fmt"
	"sort"

	"rfcore/pkg/component"
)

// Circuit is a mapping from component id to component and from wire id to
// wire. Ids are unique within their own namespace (components and wires
// live in separate namespaces).
type Circuit struct {
	Components map[string]*component.Component
	Wires      map[string]*component.Wire
}

// New returns an empty circuit.
func New() *Circuit {
	return &Circuit{
		Components: make(map[string]*component.Component),
		Wires:      make(map[string]*component.Wire),
	}
}

// AddComponent inserts or replaces a component.
func (c *Circuit) AddComponent(comp *component.Component) error {
	if err := comp.Validate(); err != nil {
		return err
	}
	c.Components[comp.ID] = comp
	return nil
}

// AddWire inserts or replaces a wire.
func (c *Circuit) AddWire(w *component.Wire) {
	c.Wires[w.ID] = w
}

// RemoveComponent deletes a component by id; a no-op if absent.
func (c *Circuit) RemoveComponent(id string) { delete(c.Components, id) }

// RemoveWire deletes a wire by id; a no-op if absent.
func (c *Circuit) RemoveWire(id string) { delete(c.Wires, id) }

// ComponentIDs returns every component id in a deterministic (sorted)
// order, so callers iterating the circuit get reproducible results
// (spec Testable Property 2: netlist determinism under input order).
func (c *Circuit) ComponentIDs() []string {
	ids := make([]string, 0, len(c.Components))
	for id := range c.Components {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// WireIDs returns every wire id in sorted order.
func (c *Circuit) WireIDs() []string {
	ids := make([]string, 0, len(c.Wires))
	for id := range c.Wires {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ComponentsByKind returns the components of a given kind, sorted by id.
func (c *Circuit) ComponentsByKind(k component.Kind) []*component.Component {
	var out []*component.Component
	for _, id := range c.ComponentIDs() {
		comp := c.Components[id]
		if comp.Kind == k {
			out = append(out, comp)
		}
	}
	return out
}

// Clone returns a copy of the circuit with fresh Component and Wire
// structs. The copy is shallow below that level: parameter structs, slider
// ranges and INTEGRATED element pools are shared with the original.
func (c *Circuit) Clone() *Circuit {
	out := New()
	for id, comp := range c.Components {
		cp := *comp
		out.Components[id] = &cp
	}
	for id, w := range c.Wires {
		cp := *w
		out.Wires[id] = &cp
	}
	return out
}

// ValidateIDs checks the uniqueness invariant: component ids and wire ids
// each live in their own namespace. The format of an id is not checked.
func (c *Circuit) ValidateIDs() error {
	seen := make(map[string]bool, len(c.Components))
	for id := range c.Components {
		if seen[id] {
			return fmt.Errorf("schematic: duplicate component id %q", id)
		}
		seen[id] = true
	}
	seenW := make(map[string]bool, len(c.Wires))
	for id := range c.Wires {
		if seenW[id] {
			return fmt.Errorf("schematic: duplicate wire id %q", id)
		}
		seenW[id] = true
	}
	return nil
}
