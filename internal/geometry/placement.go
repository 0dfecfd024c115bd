package geometry

// Built-in panel dimensions in logical pixels. The vertical offset
// biases the panel above true center.
const (
	DefaultPanelWidth          = 420.0
	DefaultPanelHeight         = 300.0
	DefaultPanelVerticalOffset = -300.0
)

// PanelSpec holds the panel window dimensions used for placement.
type PanelSpec struct {
	Width          float64
	Height         float64
	VerticalOffset float64
}

// DefaultPanelSpec returns the built-in panel dimensions.
func DefaultPanelSpec() PanelSpec {
	return PanelSpec{
		Width:          DefaultPanelWidth,
		Height:         DefaultPanelHeight,
		VerticalOffset: DefaultPanelVerticalOffset,
	}
}

// Place computes the panel's top-left corner on a monitor: the panel is
// centered in the monitor's logical rectangle, then shifted vertically
// by the spec's offset. Pure function; identical inputs always produce
// identical output.
func Place(mon Monitor, spec PanelSpec) Point {
	logical := mon.Logical()
	return Point{
		X: logical.X + (logical.Width-spec.Width)/2,
		Y: logical.Y + (logical.Height-spec.Height)/2 + spec.VerticalOffset,
	}
}
