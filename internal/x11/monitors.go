package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"

	"github.com/pindeck/pindeck/internal/geometry"
)

// Monitors retrieves all active monitors using XRandR
func (c *Connection) Monitors() ([]geometry.Monitor, error) {
	// Initialize RandR if not already done
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	// Get screen resources
	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	primary := c.primaryOutput()
	scale := c.ScaleFactor()

	var monitors []geometry.Monitor

	// Query each CRTC for active monitors
	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		// Skip disabled CRTCs
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		// Get output name
		outputName := fmt.Sprintf("Monitor%d", i)
		if outputInfo, err := randr.GetOutputInfo(c.XUtil.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			outputName = string(outputInfo.Name)
		}

		isPrimary := false
		for _, output := range crtcInfo.Outputs {
			if primary != 0 && output == primary {
				isPrimary = true
				break
			}
		}

		monitors = append(monitors, geometry.Monitor{
			ID:          i,
			Name:        outputName,
			X:           int(crtcInfo.X),
			Y:           int(crtcInfo.Y),
			Width:       int(crtcInfo.Width),
			Height:      int(crtcInfo.Height),
			ScaleFactor: scale,
			Primary:     isPrimary,
		})
	}

	return monitors, nil
}

// primaryOutput returns the RandR primary output, or 0 when none is configured.
func (c *Connection) primaryOutput() randr.Output {
	reply, err := randr.GetOutputPrimary(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return 0
	}
	return reply.Output
}

// PrimaryMonitor resolves the primary display. When the server reports no
// primary output, the monitor at the origin is preferred, then the first
// active monitor. A nil monitor with a nil error means no active monitor
// exists; callers treat that as "skip placement", not as a failure.
func (c *Connection) PrimaryMonitor() (*geometry.Monitor, error) {
	monitors, err := c.Monitors()
	if err != nil {
		return nil, err
	}
	if len(monitors) == 0 {
		return nil, nil
	}

	for i := range monitors {
		if monitors[i].Primary {
			return &monitors[i], nil
		}
	}
	for i := range monitors {
		if monitors[i].X == 0 && monitors[i].Y == 0 {
			return &monitors[i], nil
		}
	}
	return &monitors[0], nil
}
