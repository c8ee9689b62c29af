package schematic

import (
	"fmt"
	"strconv"
	"strings"
)

// NextID returns the smallest missing positive integer suffix for the
// given prefix across existingIDs formatted "prefix_N" (spec Testable
// Property 1: gap-filled id allocation). If existingIDs has
// {prefix_1..prefix_m} minus {prefix_k}, the next id is prefix_k.
func NextID(prefix string, existingIDs []string) string {
	used := make(map[int]bool)
	want := prefix + "_"
	for _, id := range existingIDs {
		if !strings.HasPrefix(id, want) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(id, want))
		if err != nil || n <= 0 {
			continue
		}
		used[n] = true
	}
	for n := 1; ; n++ {
		if !used[n] {
			return fmt.Sprintf("%s_%d", prefix, n)
		}
	}
}

// NextComponentID allocates the next id for a component kind prefix
// (e.g. "R", "L", "PORT") within this circuit.
func (c *Circuit) NextComponentID(prefix string) string {
	return NextID(prefix, c.ComponentIDs())
}

// NextWireID allocates the next wire id (prefix is conventionally "wire").
func (c *Circuit) NextWireID(prefix string) string {
	return NextID(prefix, c.WireIDs())
}
