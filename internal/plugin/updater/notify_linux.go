//go:build linux

package updater

import "github.com/godbus/dbus/v5"

// sendNotification posts a desktop notification through
// org.freedesktop.Notifications on the session bus. The shared bus
// connection is not ours to close.
func sendNotification(summary, body string) error {
	conn, err := dbus.SessionBus()
	if err != nil {
		return err
	}

	obj := conn.Object("org.freedesktop.Notifications", "/org/freedesktop/Notifications")
	call := obj.Call("org.freedesktop.Notifications.Notify", 0,
		"pindeck", // app name
		uint32(0), // not replacing an earlier notification
		"",        // no icon
		summary,
		body,
		[]string{},                // no actions
		map[string]dbus.Variant{}, // no hints
		int32(10000),              // expire after 10s
	)
	return call.Err
}
