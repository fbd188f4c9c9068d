//go:build darwin

package notify

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// darwinDesktop shows notifications with osascript.
type darwinDesktop struct{}

func newPlatformDesktop() Desktop {
	return darwinDesktop{}
}

// IsSupported returns true if osascript is available.
func (darwinDesktop) IsSupported() bool {
	_, err := exec.LookPath("osascript")
	return err == nil
}

// Send implements Desktop.
func (darwinDesktop) Send(ctx context.Context, n Notification) error {
	cmd := exec.CommandContext(ctx, "osascript", "-e", appleScript(n))
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("osascript failed: %w", err)
	}
	return nil
}

func appleScript(n Notification) string {
	script := fmt.Sprintf(`display notification "%s" with title "%s"`,
		escapeAppleScript(n.Message), escapeAppleScript(n.Title))
	if n.Sound {
		script += ` sound name "default"`
	}
	return script
}

// escapeAppleScript escapes special characters for AppleScript strings.
func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	return s
}
