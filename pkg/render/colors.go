package render

import (
	"encoding/json"
	"fmt"
)

// Color is an RGB triple with components in [0, 1]. It marshals to a CSS hex
// string so browser clients can use it directly.
type Color struct {
	R, G, B float64
}

// Hex returns the color as "#rrggbb".
func (c Color) Hex() string {
	to255 := func(v float64) int {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		return int(v*255 + 0.5)
	}
	return fmt.Sprintf("#%02x%02x%02x", to255(c.R), to255(c.G), to255(c.B))
}

// MarshalJSON implements json.Marshaler.
func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Hex())
}

// Palette maps robot state to segment colors. Motors-off entries are the
// darkened variants of the motors-on ones, so a disabled arm reads as
// desaturated rather than missing.
type Palette struct {
	Base Color

	LowerOn  Color
	LowerOff Color
	UpperOn  Color
	UpperOff Color

	ToolBodyOn  Color
	ToolBodyOff Color
	ToolTipOn   Color
	ToolTipOff  Color

	Grid     Color
	GridMain Color
	AxisX    Color
	AxisY    Color
	AxisZ    Color
	Target   Color
}

// DefaultPalette is the standard viewer color table.
func DefaultPalette() Palette {
	return Palette{
		Base: Color{0.3, 0.3, 0.3},

		LowerOn:  Color{0.8, 0.2, 0.2},
		LowerOff: Color{0.4, 0.1, 0.1},
		UpperOn:  Color{0.2, 0.8, 0.2},
		UpperOff: Color{0.1, 0.4, 0.1},

		ToolBodyOn:  Color{1.0, 1.0, 0.0},
		ToolBodyOff: Color{0.5, 0.5, 0.0},
		ToolTipOn:   Color{1.0, 0.0, 0.0},
		ToolTipOff:  Color{0.3, 0.3, 0.3},

		Grid:     Color{0.4, 0.4, 0.4},
		GridMain: Color{0.6, 0.6, 0.6},
		AxisX:    Color{1.0, 0.0, 0.0},
		AxisY:    Color{0.0, 1.0, 0.0},
		AxisZ:    Color{0.0, 0.0, 1.0},
		Target:   Color{0.0, 1.0, 1.0},
	}
}

// Lower returns the lower-arm color for the given motor state.
func (p Palette) Lower(motorsOn bool) Color {
	if motorsOn {
		return p.LowerOn
	}
	return p.LowerOff
}

// Upper returns the upper-arm color for the given motor state.
func (p Palette) Upper(motorsOn bool) Color {
	if motorsOn {
		return p.UpperOn
	}
	return p.UpperOff
}

// ToolBody returns the effector body color for the given tool state.
func (p Palette) ToolBody(toolOn bool) Color {
	if toolOn {
		return p.ToolBodyOn
	}
	return p.ToolBodyOff
}

// ToolTip returns the effector tip color for the given tool state.
func (p Palette) ToolTip(toolOn bool) Color {
	if toolOn {
		return p.ToolTipOn
	}
	return p.ToolTipOff
}
