package schematic

import (
	"encoding/json"
	"fmt"
	"os"

	"rfcore/pkg/component"
)

// document mirrors the persisted circuit JSON schema (spec §6). Struct
// tags drive the codec, following bfix-antgen's lib/config.go convention
// of a plain tagged struct tree loaded with os.ReadFile+json.Unmarshal.
type document struct {
	Version    string             `json:"version"`
	Components []documentElement  `json:"components"`
	Wires      []documentWire     `json:"wires"`
}

type documentElement struct {
	ID          string                 `json:"id"`
	Type        string                 `json:"type"`
	X           float64                `json:"x"`
	Y           float64                `json:"y"`
	Rotation    int                    `json:"rotation"`
	Params      map[string]any         `json:"params"`
	Connections map[string]string      `json:"connections,omitempty"`
	SliderRange map[string]rangeDoc    `json:"sliderRange,omitempty"`
	Impedance   *impedanceConfigDoc    `json:"impedanceConfig,omitempty"`
}

type rangeDoc struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type impedanceConfigDoc struct {
	InputTerminal  string `json:"inputTerminal"`
	GroundTerminal string `json:"groundTerminal"`
}

type documentWire struct {
	ID             string  `json:"id"`
	StartX         float64 `json:"startX"`
	StartY         float64 `json:"startY"`
	EndX           float64 `json:"endX"`
	EndY           float64 `json:"endY"`
	StartComponent string  `json:"startComponent,omitempty"`
	StartTerminal  string  `json:"startTerminal,omitempty"`
	EndComponent   string  `json:"endComponent,omitempty"`
	EndTerminal    string  `json:"endTerminal,omitempty"`
}

const documentVersion = "1.0"

// LoadDocument reads and decodes a persisted circuit document from path.
func LoadDocument(path string) (*Circuit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schematic: reading %s: %v", path, err)
	}
	return DecodeDocument(data)
}

// DecodeDocument parses the JSON circuit document schema into a Circuit.
func DecodeDocument(data []byte) (*Circuit, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("schematic: decoding document: %v", err)
	}

	c := New()
	for _, de := range doc.Components {
		comp, err := decodeComponent(de)
		if err != nil {
			return nil, err
		}
		if err := c.AddComponent(comp); err != nil {
			return nil, err
		}
	}
	for _, dw := range doc.Wires {
		c.AddWire(&component.Wire{
			ID:             dw.ID,
			StartX:         dw.StartX,
			StartY:         dw.StartY,
			EndX:           dw.EndX,
			EndY:           dw.EndY,
			StartComponent: dw.StartComponent,
			StartTerminal:  dw.StartTerminal,
			EndComponent:   dw.EndComponent,
			EndTerminal:    dw.EndTerminal,
		})
	}
	return c, nil
}

func decodeComponent(de documentElement) (*component.Component, error) {
	comp := &component.Component{
		ID:       de.ID,
		Kind:     component.Kind(de.Type),
		X:        de.X,
		Y:        de.Y,
		Rotation: de.Rotation,
	}
	if len(de.SliderRange) > 0 {
		comp.SliderRange = make(map[string]component.Range, len(de.SliderRange))
		for k, r := range de.SliderRange {
			comp.SliderRange[k] = component.Range{Min: r.Min, Max: r.Max}
		}
	}
	if de.Impedance != nil {
		comp.ImpedanceConfig = &component.ImpedanceConfig{
			InputTerminal:  de.Impedance.InputTerminal,
			GroundTerminal: de.Impedance.GroundTerminal,
		}
	}

	num := func(key string) float64 {
		if v, ok := de.Params[key]; ok {
			if f, ok := v.(float64); ok {
				return f
			}
		}
		return 0
	}

	switch comp.Kind {
	case component.KindResistor:
		comp.Resistor = &component.ResistorParams{Resistance: num("resistance")}
	case component.KindInductor:
		comp.Inductor = &component.InductorParams{Inductance: num("inductance")}
	case component.KindCapacitor:
		comp.Capacitor = &component.CapacitorParams{Capacitance: num("capacitance")}
	case component.KindPort:
		comp.Port = &component.PortParams{
			Number:    int(num("portNumber")),
			Impedance: num("impedance"),
		}
	case component.KindTL:
		comp.TL = &component.TLParams{
			Z0:       num("z0"),
			Z0Imag:   num("z0Imag"),
			Length:   num("length"),
			Velocity: num("velocity"),
			LossDB:   num("loss"),
		}
	case component.KindGround:
		// no parameters
	case component.KindIntegrated, component.KindCustom:
		return nil, fmt.Errorf("schematic: component %s: kind %s is not representable in the flat document schema (use the library API to construct it)", de.ID, de.Type)
	default:
		return nil, fmt.Errorf("schematic: component %s: unknown type %q", de.ID, de.Type)
	}
	return comp, nil
}

// EncodeDocument serializes a Circuit back into the persisted JSON schema.
func EncodeDocument(c *Circuit) ([]byte, error) {
	doc := document{Version: documentVersion}
	for _, id := range c.ComponentIDs() {
		comp := c.Components[id]
		de, err := encodeComponent(comp)
		if err != nil {
			return nil, err
		}
		doc.Components = append(doc.Components, de)
	}
	for _, id := range c.WireIDs() {
		w := c.Wires[id]
		doc.Wires = append(doc.Wires, documentWire{
			ID: w.ID, StartX: w.StartX, StartY: w.StartY, EndX: w.EndX, EndY: w.EndY,
			StartComponent: w.StartComponent, StartTerminal: w.StartTerminal,
			EndComponent: w.EndComponent, EndTerminal: w.EndTerminal,
		})
	}
	return json.MarshalIndent(doc, "", "  ")
}

func encodeComponent(comp *component.Component) (documentElement, error) {
	de := documentElement{
		ID: comp.ID, Type: string(comp.Kind), X: comp.X, Y: comp.Y, Rotation: comp.Rotation,
		Params: make(map[string]any),
	}
	switch comp.Kind {
	case component.KindResistor:
		de.Params["resistance"] = comp.Resistor.Resistance
	case component.KindInductor:
		de.Params["inductance"] = comp.Inductor.Inductance
	case component.KindCapacitor:
		de.Params["capacitance"] = comp.Capacitor.Capacitance
	case component.KindPort:
		de.Params["portNumber"] = comp.Port.Number
		de.Params["impedance"] = comp.Port.Impedance
	case component.KindTL:
		de.Params["z0"] = comp.TL.Z0
		de.Params["z0Imag"] = comp.TL.Z0Imag
		de.Params["length"] = comp.TL.Length
		de.Params["velocity"] = comp.TL.Velocity
		de.Params["loss"] = comp.TL.LossDB
	case component.KindGround:
		// no parameters
	default:
		return documentElement{}, fmt.Errorf("schematic: component %s: kind %s is not representable in the flat document schema", comp.ID, comp.Kind)
	}
	if len(comp.SliderRange) > 0 {
		de.SliderRange = make(map[string]rangeDoc, len(comp.SliderRange))
		for k, r := range comp.SliderRange {
			de.SliderRange[k] = rangeDoc{Min: r.Min, Max: r.Max}
		}
	}
	if comp.ImpedanceConfig != nil {
		de.Impedance = &impedanceConfigDoc{
			InputTerminal:  comp.ImpedanceConfig.InputTerminal,
			GroundTerminal: comp.ImpedanceConfig.GroundTerminal,
		}
	}
	return de, nil
}

// SaveDocument encodes and writes a circuit document to path.
func SaveDocument(c *Circuit, path string) error {
	data, err := EncodeDocument(c)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("schematic: writing %s: %v", path, err)
	}
	return nil
}
