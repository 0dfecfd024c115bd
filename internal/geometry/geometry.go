package geometry

import "math"

// Point is a position in logical pixels.
type Point struct {
	X float64
	Y float64
}

// Rect describes a rectangular region in logical pixels.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Monitor describes a physical display. Position and size are device
// pixels; ScaleFactor converts them to logical units and must be
// strictly positive.
type Monitor struct {
	ID          int
	Name        string
	X           int
	Y           int
	Width       int
	Height      int
	ScaleFactor float64
	Primary     bool
}

// Logical returns the monitor rectangle in logical pixels.
func (m Monitor) Logical() Rect {
	return Rect{
		X:      float64(m.X) / m.ScaleFactor,
		Y:      float64(m.Y) / m.ScaleFactor,
		Width:  float64(m.Width) / m.ScaleFactor,
		Height: float64(m.Height) / m.ScaleFactor,
	}
}

// ToPhysical converts a logical value to device pixels for the given
// scale factor, rounding to the nearest pixel.
func ToPhysical(v, scaleFactor float64) int {
	return int(math.Round(v * scaleFactor))
}

// ToLogical converts a device-pixel value to logical pixels.
func ToLogical(v int, scaleFactor float64) float64 {
	return float64(v) / scaleFactor
}
