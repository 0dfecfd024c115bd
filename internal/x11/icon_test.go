package x11

import (
	"image"
	"image/color"
	"testing"
)

func TestRenderIcon_Dimensions(t *testing.T) {
	img := renderIcon(64)
	if got := img.Bounds(); got.Dx() != 64 || got.Dy() != 64 {
		t.Errorf("expected 64x64 icon, got %dx%d", got.Dx(), got.Dy())
	}
}

func TestRenderIcon_PinCoversCenter(t *testing.T) {
	img := renderIcon(64)

	// The pin head ring sits around the center dot; a corner pixel is
	// background, a pixel on the head ring is not.
	corner := img.RGBAAt(1, 1)
	ring := img.RGBAAt(32, 10)
	if corner == ring {
		t.Error("expected head ring color to differ from background")
	}
}

func TestARGBData_PacksChannels(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 0x11, G: 0x22, B: 0x33, A: 0xff})
	img.SetRGBA(1, 0, color.RGBA{R: 0xaa, G: 0xbb, B: 0xcc, A: 0x80})

	data := argbData(img)
	if len(data) != 2 {
		t.Fatalf("expected 2 pixels, got %d", len(data))
	}
	if data[0] != 0xff112233 {
		t.Errorf("expected 0xff112233, got %#x", data[0])
	}
	if data[1] != 0x80aabbcc {
		t.Errorf("expected 0x80aabbcc, got %#x", data[1])
	}
}
