//go:build !linux

package updater

// sendNotification is a no-op where no notification bus exists; updates
// still show up in logs and status output.
func sendNotification(summary, body string) error {
	return nil
}
