package hotkeys

import (
	"fmt"
	"log"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/pindeck/pindeck/internal/host"
)

// PanelToggler flips the panel's visibility.
type PanelToggler interface {
	TogglePanel() error
}

// x11Accessor is an optional interface for hosts that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Handler manages global keyboard shortcuts
type Handler struct {
	xu    *xgbutil.XUtil
	root  xproto.Window
	panel PanelToggler
}

var ignoreModsOnce sync.Once

// NewHandler creates a new hotkey handler. On hosts without X11
// internals the handler is inert and Register reports unsupported.
func NewHandler(hst host.Host, panel PanelToggler) *Handler {
	var xu *xgbutil.XUtil
	var root xproto.Window
	if accessor, ok := hst.(x11Accessor); ok {
		xu = accessor.XUtil()
		root = accessor.RootWindow()
	}

	if xu != nil {
		ignoreModsOnce.Do(func() {
			configureIgnoreMods(xu)
		})
	}

	return &Handler{
		xu:    xu,
		root:  root,
		panel: panel,
	}
}

// Supported reports whether global hotkeys work on this host.
func (h *Handler) Supported() bool {
	return h.xu != nil
}

// Register registers the panel toggle hotkey.
func (h *Handler) Register(keySequence string) error {
	return h.RegisterFunc(keySequence, func() {
		log.Println("Panel toggle hotkey triggered")
		if err := h.panel.TogglePanel(); err != nil {
			log.Printf("Panel toggle failed: %v", err)
		}
	})
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	if h.xu == nil {
		return fmt.Errorf("global hotkeys are not supported on this host")
	}
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	unique := make(map[uint16]struct{})
	add := func(mask uint16) {
		unique[mask] = struct{}{}
	}

	add(0)
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		add(mask)
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}

	xevent.IgnoreMods = ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
