package x11

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/BurntSushi/xgbutil/xprop"
)

// baselineDPI is the X11 reference DPI; Xft.dpi values are relative to it.
const baselineDPI = 96.0

// ScaleFactor returns the display scale factor derived from the Xft.dpi
// entry in the root window's RESOURCE_MANAGER property (scale = dpi / 96),
// falling back to 1.0 when the property is missing or unparseable. The
// result is cached for the lifetime of the connection.
//
// X11 has no per-monitor scale, so the same factor applies to every
// monitor on the connection.
func (c *Connection) ScaleFactor() float64 {
	if c.scale > 0 {
		return c.scale
	}

	c.scale = 1.0
	reply, err := xprop.GetProperty(c.XUtil, c.Root, "RESOURCE_MANAGER")
	if err != nil || reply == nil {
		return c.scale
	}
	if dpi, ok := parseXftDPI(string(reply.Value)); ok {
		c.scale = dpi / baselineDPI
	}
	return c.scale
}

// OverrideScaleFactor pins the scale factor, bypassing Xft.dpi detection.
// Values <= 0 are ignored.
func (c *Connection) OverrideScaleFactor(scale float64) {
	if scale > 0 {
		c.scale = scale
	}
}

// parseXftDPI extracts the Xft.dpi value from an X resource database dump.
// Entries look like "Xft.dpi:\t192".
func parseXftDPI(resources string) (float64, bool) {
	scanner := bufio.NewScanner(strings.NewReader(resources))
	for scanner.Scan() {
		name, value, found := strings.Cut(scanner.Text(), ":")
		if !found || strings.TrimSpace(name) != "Xft.dpi" {
			continue
		}
		dpi, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || dpi <= 0 {
			return 0, false
		}
		return dpi, true
	}
	return 0, false
}
