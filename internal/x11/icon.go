package x11

import (
	"image"
	"image/color"

	"github.com/BurntSushi/xgbutil/ewmh"
	"golang.org/x/image/draw"
)

// iconSizes are the variants advertised through _NET_WM_ICON. Window
// managers pick whichever fits their taskbar or switcher.
var iconSizes = []int{16, 32, 48}

// SetIcon renders the pin icon at the standard sizes and publishes it on
// the window via _NET_WM_ICON.
func (p *PanelWindow) SetIcon() error {
	master := renderIcon(64)

	icons := make([]ewmh.WmIcon, 0, len(iconSizes))
	for _, size := range iconSizes {
		scaled := image.NewRGBA(image.Rect(0, 0, size, size))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), master, master.Bounds(), draw.Over, nil)
		icons = append(icons, ewmh.WmIcon{
			Width:  uint(size),
			Height: uint(size),
			Data:   argbData(scaled),
		})
	}

	return ewmh.WmIconSet(p.conn.XUtil, p.win.Id, icons)
}

// renderIcon draws the master icon, a map pin on a slate square, so no
// asset files need to ship with the binary.
func renderIcon(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))

	bg := color.RGBA{R: 0x1e, G: 0x1e, B: 0x2e, A: 0xff}
	pin := color.RGBA{R: 0xf3, G: 0x8b, B: 0xa8, A: 0xff}
	dot := color.RGBA{R: 0x1e, G: 0x1e, B: 0x2e, A: 0xff}

	s := float64(size)
	cx := s / 2
	headY := s * 0.38
	headR := s * 0.26
	dotR := headR * 0.42
	tipY := s * 0.88

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			fx := float64(x) + 0.5
			fy := float64(y) + 0.5

			dx := fx - cx
			dy := fy - headY

			inHead := dx*dx+dy*dy <= headR*headR
			inDot := dx*dx+dy*dy <= dotR*dotR

			// The stem tapers from the head width down to a point.
			inStem := false
			if fy >= headY && fy <= tipY {
				half := headR * 0.72 * (tipY - fy) / (tipY - headY)
				inStem = dx >= -half && dx <= half
			}

			switch {
			case inDot:
				img.SetRGBA(x, y, dot)
			case inHead || inStem:
				img.SetRGBA(x, y, pin)
			default:
				img.SetRGBA(x, y, bg)
			}
		}
	}

	return img
}

// argbData packs an RGBA image into the ARGB cardinal layout _NET_WM_ICON
// expects, one pixel per element in row-major order.
func argbData(img *image.RGBA) []uint {
	bounds := img.Bounds()
	data := make([]uint, 0, bounds.Dx()*bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.RGBAAt(x, y)
			data = append(data, uint(c.A)<<24|uint(c.R)<<16|uint(c.G)<<8|uint(c.B))
		}
	}
	return data
}
