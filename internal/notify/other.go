//go:build !darwin && !linux

package notify

// Unsupported platforms get the no-op Desktop.
func newPlatformDesktop() Desktop {
	return noopDesktop{}
}
