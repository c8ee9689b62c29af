package component

import "fmt"

// GetParam reads a single tunable parameter by name (the same names the
// document schema uses: "resistance", "inductance", "capacitance").
func GetParam(c *Component, name string) (float64, error) {
	switch {
	case c.Kind == KindResistor && name == "resistance":
		return c.Resistor.Resistance, nil
	case c.Kind == KindInductor && name == "inductance":
		return c.Inductor.Inductance, nil
	case c.Kind == KindCapacitor && name == "capacitance":
		return c.Capacitor.Capacitance, nil
	default:
		return 0, fmt.Errorf("component %s: no tunable parameter %q on kind %s", c.ID, name, c.Kind)
	}
}

// SetParam writes a single tunable parameter by name, used by the
// matching-range engine's sweep-then-restore loop.
func SetParam(c *Component, name string, value float64) error {
	switch {
	case c.Kind == KindResistor && name == "resistance":
		c.Resistor.Resistance = value
	case c.Kind == KindInductor && name == "inductance":
		c.Inductor.Inductance = value
	case c.Kind == KindCapacitor && name == "capacitance":
		c.Capacitor.Capacitance = value
	default:
		return fmt.Errorf("component %s: no tunable parameter %q on kind %s", c.ID, name, c.Kind)
	}
	return nil
}
