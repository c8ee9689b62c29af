// Package netlist derives electrical connectivity from the geometric
// schematic: which terminals sit on the same node, which node is ground,
// and which node each port is anchored to. It never inspects a
// component's electrical parameters, only its terminal positions.
package netlist

import (
	"sort"

	"rfcore/internal/consts"
	"rfcore/pkg/component"
	"rfcore/pkg/schematic"
)

// groundNode is the fixed node id assigned to ground after merging; every
// other node is relabelled to a consecutive id 1..n during netlisting.
const groundNode = 0

// Netlist is the spatial-netlister output (spec §3).
type Netlist struct {
	// Terminals maps a terminal key ("componentID:terminal") to its node id.
	Terminals map[string]int
	// Ground is the designated ground node id.
	Ground int
	// Ports is the port-node array in ascending port-number order (Ports[0]
	// is the lowest-numbered port); gaps in the numbering are not filled.
	Ports []int
	// NodeIDs is the set of distinct node ids present, sorted ascending.
	NodeIDs []int
}

// nodeKeyOf returns the terminal key for a component's terminal, used as a
// loop/map label.
func nodeKeyOf(compID, terminal string) string {
	return component.TerminalKey(compID, terminal)
}

// BuildNetlist runs the full 7-step spatial netlisting algorithm (spec
// §4.3) over a circuit's component and wire pools.
func BuildNetlist(c *schematic.Circuit) (*Netlist, error) {
	wireIDs := c.WireIDs()
	wires := make([]*component.Wire, len(wireIDs))
	for i, id := range wireIDs {
		wires[i] = c.Wires[id]
	}

	// Step 1: union wires by geometric adjacency.
	uf := newUnionFind(len(wires))
	for i := range wires {
		for j := i + 1; j < len(wires); j++ {
			if wiresAdjacent(wires[i], wires[j]) {
				uf.union(i, j)
			}
		}
	}
	netOf := make([]int, len(wires)) // wire index -> net id (0..numNets-1)
	nets := uf.components()
	for netID, members := range nets {
		for _, wi := range members {
			netOf[wi] = netID
		}
	}

	terminals := make(map[string]int)
	nextNode := len(nets) // node ids [0, len(nets)) are reserved for wire nets

	// Step 2: seed terminal -> node from the first wire net whose segment
	// lies within tau of the terminal. Component/terminal iteration order
	// is the sorted component id order, so ties resolve deterministically
	// (spec Testable Property 2).
	compIDs := c.ComponentIDs()
	for _, cid := range compIDs {
		comp := c.Components[cid]
		for _, tname := range comp.Terminals() {
			pos, ok := comp.TerminalPosition(tname)
			if !ok {
				continue
			}
			key := nodeKeyOf(cid, tname)
			node, found := -1, false
			for wi, w := range wires {
				if distToSegmentOfWire(pos, w) < consts.AdjacencyTolerance {
					node = netOf[wi]
					found = true
					break
				}
			}
			if found {
				terminals[key] = node
			} else {
				// Step 3: dangling terminal, fresh node id.
				terminals[key] = nextNode
				nextNode++
			}
		}
	}

	// Step 4: terminal-terminal direct contacts (no wire) get merged.
	keys := make([]string, 0, len(terminals))
	for k := range terminals {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parent := make(map[int]int) // node-merge union-find, keyed by node id
	find := func(x int) int {
		for {
			p, ok := parent[x]
			if !ok || p == x {
				parent[x] = x
				return x
			}
			parent[x] = parent[p]
			x = p
		}
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[rb] = ra
		}
	}

	positions := make(map[string]component.Point, len(keys))
	for _, k := range keys {
		cid, tname := splitTerminalKey(k)
		comp := c.Components[cid]
		p, _ := comp.TerminalPosition(tname)
		positions[k] = p
	}
	for i := 0; i < len(keys); i++ {
		for j := i + 1; j < len(keys); j++ {
			if terminals[keys[i]] == terminals[keys[j]] {
				continue
			}
			if pointsCoincide(positions[keys[i]], positions[keys[j]]) {
				union(terminals[keys[i]], terminals[keys[j]])
			}
		}
	}
	for k, n := range terminals {
		terminals[k] = find(n)
	}

	// Step 5: identify and merge ground nodes.
	var groundNodes []int
	for _, cid := range compIDs {
		comp := c.Components[cid]
		if comp.Kind == component.KindGround {
			key := nodeKeyOf(cid, "start")
			if n, ok := terminals[key]; ok {
				groundNodes = append(groundNodes, n)
			}
		}
	}
	if len(groundNodes) == 0 {
		return nil, &TopologyError{Subkind: NoGround, Detail: "no GND component present"}
	}
	canonicalGround := groundNodes[0]
	for _, n := range groundNodes[1:] {
		union(canonicalGround, find(n))
	}
	for k, n := range terminals {
		terminals[k] = find(n)
	}
	canonicalGround = find(canonicalGround)

	// Relabel so the ground node is exactly groundNode (0), and every other
	// node gets the next consecutive id from 1, in sorted terminal-key order.
	relabel := map[int]int{canonicalGround: groundNode}
	nextLabel := 1
	for _, k := range sortedKeys(terminals) {
		n := terminals[k]
		if _, ok := relabel[n]; !ok {
			relabel[n] = nextLabel
			nextLabel++
		}
		terminals[k] = relabel[n]
	}

	// Step 6: identify ports.
	var ports []*component.Component
	for _, cid := range compIDs {
		comp := c.Components[cid]
		if comp.Kind == component.KindPort {
			ports = append(ports, comp)
		}
	}
	if len(ports) == 0 {
		return nil, &TopologyError{Subkind: NoPort, Detail: "no PORT component present"}
	}
	if len(ports) > consts.MaxPorts {
		return nil, &TopologyError{Subkind: TooManyPorts, Detail: "more than the maximum supported port count"}
	}
	sort.Slice(ports, func(i, j int) bool { return ports[i].Port.Number < ports[j].Port.Number })

	seenPortNum := make(map[int]bool)
	portNodes := make([]int, len(ports))
	for i, p := range ports {
		if seenPortNum[p.Port.Number] {
			return nil, &TopologyError{Subkind: DuplicatePortNumber, Port: p.Port.Number, Detail: "port number declared more than once"}
		}
		seenPortNum[p.Port.Number] = true
		key := nodeKeyOf(p.ID, "start")
		node, ok := terminals[key]
		if !ok {
			return nil, &TopologyError{Subkind: PortNotConnected, Port: p.Port.Number, Detail: "port terminal has no node"}
		}
		if node == groundNode {
			return nil, &TopologyError{Subkind: PortNotConnected, Port: p.Port.Number, Detail: "port terminal connects directly to ground"}
		}
		portNodes[i] = node
	}

	// Ground-connectivity check: a GND component is present (step 5 already
	// guarantees that), but it may still be electrically isolated if its
	// terminal never unions with a wire net or another component's
	// terminal. Detect that by requiring some terminal other than a GND
	// component's own to land on groundNode.
	gndComponents := make(map[string]bool)
	for _, cid := range compIDs {
		if c.Components[cid].Kind == component.KindGround {
			gndComponents[cid] = true
		}
	}
	groundConnected := false
	for k, n := range terminals {
		if n != groundNode {
			continue
		}
		cid, _ := splitTerminalKey(k)
		if !gndComponents[cid] {
			groundConnected = true
			break
		}
	}
	if !groundConnected {
		return nil, &TopologyError{Subkind: GroundNotConnected, Detail: "GND component is not connected to the rest of the circuit"}
	}

	nodeSet := make(map[int]bool)
	for _, n := range terminals {
		nodeSet[n] = true
	}

	nodeIDs := make([]int, 0, len(nodeSet))
	for n := range nodeSet {
		nodeIDs = append(nodeIDs, n)
	}
	sort.Ints(nodeIDs)

	return &Netlist{
		Terminals: terminals,
		Ground:    groundNode,
		Ports:     portNodes,
		NodeIDs:   nodeIDs,
	}, nil
}

func sortedKeys(m map[string]int) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func splitTerminalKey(key string) (compID, terminal string) {
	for i := len(key) - 1; i >= 0; i-- {
		if key[i] == ':' {
			return key[:i], key[i+1:]
		}
	}
	return key, ""
}

func distToSegmentOfWire(p component.Point, w *component.Wire) float64 {
	a := component.Point{X: w.StartX, Y: w.StartY}
	b := component.Point{X: w.EndX, Y: w.EndY}
	return distToSegment(p, a, b)
}

func pointsCoincide(a, b component.Point) bool {
	return withinTolerance(a, b)
}
