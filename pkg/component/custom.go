package component

import (
	"fmt"

	lua "github.com/Shopify/go-lua"

	"rfcore/pkg/complexmath"
)

// customImpedance evaluates a CUSTOM component's user-supplied Lua script
// to obtain its 1-port impedance at frequency f. The script receives
// "freq" plus every declared parameter as Lua globals, and must call the
// registered setImpedance(re, im) callback exactly once. This mirrors the
// script-as-generator pattern used for antenna-geometry generators (params
// pushed as globals, a registered Go callback collects the result) rather
// than treating the script's return value as the payload.
func customImpedance(c *Component, f float64) (complexmath.Complex, error) {
	p := c.Custom
	if p == nil || p.Script == "" {
		return complexmath.Complex{}, fmt.Errorf("component %s: CUSTOM has no script", c.ID)
	}

	state := lua.NewState()
	lua.OpenLibraries(state)

	state.PushNumber(f)
	state.SetGlobal("freq")
	for name, val := range p.Params {
		state.PushNumber(val)
		state.SetGlobal(name)
	}

	var result complexmath.Complex
	got := false
	state.Register("setImpedance", func(s *lua.State) int {
		re, _ := s.ToNumber(1)
		im, _ := s.ToNumber(2)
		result = complexmath.C(re, im)
		got = true
		return 0
	})

	if err := lua.DoString(state, p.Script); err != nil {
		return complexmath.Complex{}, fmt.Errorf("component %s: custom script error: %v", c.ID, err)
	}
	if !got {
		return complexmath.Complex{}, fmt.Errorf("component %s: custom script never called setImpedance", c.ID)
	}
	return result, nil
}
