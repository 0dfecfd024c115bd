package x11

import (
	"fmt"
	"os"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/motif"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// panelBackground is the window background pixel (dark slate).
const panelBackground = 0x1e1e2e

// PanelOptions describes the panel window to create. Coordinates and
// dimensions are physical pixels.
type PanelOptions struct {
	Title       string
	Class       string
	X, Y        int
	Width       int
	Height      int
	AlwaysOnTop bool
}

// PanelWindow is a small borderless utility window owned by this process,
// as opposed to the foreign client windows a window manager deals in.
// Geometry changes therefore go through plain ConfigureWindow requests;
// only state changes on a mapped window need window manager messages.
type PanelWindow struct {
	conn   *Connection
	win    *xwindow.Window
	mapped bool
}

// CreatePanelWindow creates an unmapped panel window with its WM hints
// (name, class, utility type, above state, no decorations) applied up
// front so the window manager sees them on first map.
func CreatePanelWindow(c *Connection, opts PanelOptions) (*PanelWindow, error) {
	win, err := xwindow.Generate(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate window id: %w", err)
	}

	if opts.Width < 1 {
		opts.Width = 1
	}
	if opts.Height < 1 {
		opts.Height = 1
	}

	err = win.CreateChecked(c.Root, opts.X, opts.Y, opts.Width, opts.Height,
		xproto.CwBackPixel|xproto.CwEventMask,
		panelBackground, xproto.EventMaskStructureNotify)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	p := &PanelWindow{conn: c, win: win}

	// Hint failures degrade presentation only; the window still works.
	ewmh.WmNameSet(c.XUtil, win.Id, opts.Title)
	icccm.WmClassSet(c.XUtil, win.Id, &icccm.WmClass{Instance: opts.Class, Class: opts.Class})
	ewmh.WmWindowTypeSet(c.XUtil, win.Id, []string{"_NET_WM_WINDOW_TYPE_UTILITY"})
	ewmh.WmPidSet(c.XUtil, win.Id, uint(os.Getpid()))
	// Zero decoration bits with the decorations flag set means borderless.
	motif.WmHintsSet(c.XUtil, win.Id, &motif.Hints{Flags: motif.HintDecorations, Decoration: 0})
	if opts.AlwaysOnTop {
		ewmh.WmStateSet(c.XUtil, win.Id, []string{"_NET_WM_STATE_ABOVE"})
	}

	return p, nil
}

// Id returns the X window identifier.
func (p *PanelWindow) Id() xproto.Window {
	return p.win.Id
}

// Map makes the window visible.
func (p *PanelWindow) Map() {
	p.win.Map()
	p.mapped = true
}

// Unmap hides the window without destroying it.
func (p *PanelWindow) Unmap() {
	p.win.Unmap()
	p.mapped = false
}

// Mapped reports whether the window is currently mapped.
func (p *PanelWindow) Mapped() bool {
	return p.mapped
}

// Destroy releases the window.
func (p *PanelWindow) Destroy() {
	p.win.Destroy()
}

// Move repositions the window without changing its size.
func (p *PanelWindow) Move(x, y int) error {
	p.win.Move(x, y)
	return nil
}

// Resize changes the window size in place.
func (p *PanelWindow) Resize(width, height int) error {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	p.win.Resize(width, height)
	return nil
}

// MoveResize moves and resizes the window in a single configure request.
func (p *PanelWindow) MoveResize(x, y, width, height int) error {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	p.win.MoveResize(x, y, width, height)
	return nil
}

// SetAlwaysOnTop toggles the EWMH above state. A mapped window's state must
// change through a window manager request; before mapping the state
// property is rewritten directly.
func (p *PanelWindow) SetAlwaysOnTop(onTop bool) error {
	if !p.mapped {
		states := []string{}
		if onTop {
			states = append(states, "_NET_WM_STATE_ABOVE")
		}
		return ewmh.WmStateSet(p.conn.XUtil, p.win.Id, states)
	}

	action := 0 // _NET_WM_STATE_REMOVE
	if onTop {
		action = 1 // _NET_WM_STATE_ADD
	}
	return ewmh.WmStateReq(p.conn.XUtil, p.win.Id, action, "_NET_WM_STATE_ABOVE")
}

// Geometry returns the window's rectangle in root coordinates, physical
// pixels. Reparenting window managers offset the window inside a frame, so
// the position comes from a coordinate translation rather than the
// geometry reply.
func (p *PanelWindow) Geometry() (x, y, width, height int, err error) {
	geom, err := xproto.GetGeometry(p.conn.XUtil.Conn(), xproto.Drawable(p.win.Id)).Reply()
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("failed to get window geometry: %w", err)
	}

	translate, err := xproto.TranslateCoordinates(p.conn.XUtil.Conn(), p.win.Id, p.conn.Root, 0, 0).Reply()
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("failed to translate window coordinates: %w", err)
	}

	return int(translate.DstX), int(translate.DstY), int(geom.Width), int(geom.Height), nil
}

// OnCloseRequest registers fn to run when the window manager delivers a
// WM_DELETE_WINDOW message. Opting into the protocol replaces the default
// of the client being killed, so the panel can hide instead.
func (p *PanelWindow) OnCloseRequest(fn func()) error {
	xu, id := p.conn.XUtil, p.win.Id

	if err := icccm.WmProtocolsSet(xu, id, []string{"WM_DELETE_WINDOW"}); err != nil {
		return fmt.Errorf("failed to set WM_PROTOCOLS: %w", err)
	}
	deleteAtom, err := xprop.Atm(xu, "WM_DELETE_WINDOW")
	if err != nil {
		return fmt.Errorf("failed to intern WM_DELETE_WINDOW: %w", err)
	}

	xevent.ClientMessageFun(func(xu *xgbutil.XUtil, ev xevent.ClientMessageEvent) {
		if len(ev.Data.Data32) > 0 && xproto.Atom(ev.Data.Data32[0]) == deleteAtom {
			fn()
		}
	}).Connect(xu, id)

	return nil
}

// Activate raises and focuses the window using _NET_ACTIVE_WINDOW.
// The message is built manually because the xgbutil ewmh helper panics
// on this library version (uint vs int type assertion).
func (p *PanelWindow) Activate() error {
	atomReply, err := xproto.InternAtom(p.conn.XUtil.Conn(), false,
		uint16(len("_NET_ACTIVE_WINDOW")), "_NET_ACTIVE_WINDOW").Reply()
	if err != nil {
		return fmt.Errorf("failed to intern _NET_ACTIVE_WINDOW: %w", err)
	}

	const sourceIndication = 2 // pager/direct action
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: p.win.Id,
		Type:   atomReply.Atom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{sourceIndication, 0, 0, 0, 0}),
	}

	return xproto.SendEventChecked(
		p.conn.XUtil.Conn(),
		false,
		p.conn.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}
