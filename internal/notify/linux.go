//go:build linux

package notify

import (
	"context"
	"fmt"
	"os/exec"
)

// linuxDesktop shows notifications with notify-send.
type linuxDesktop struct{}

func newPlatformDesktop() Desktop {
	return linuxDesktop{}
}

// IsSupported returns true if notify-send is available.
func (linuxDesktop) IsSupported() bool {
	_, err := exec.LookPath("notify-send")
	return err == nil
}

// Send implements Desktop. Sound depends on the notification daemon; a
// sound request only raises the urgency hint.
func (linuxDesktop) Send(ctx context.Context, n Notification) error {
	cmd := exec.CommandContext(ctx, "notify-send", notifySendArgs(n)...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("notify-send failed: %w", err)
	}
	return nil
}

func notifySendArgs(n Notification) []string {
	args := []string{"--app-name=" + AppName}
	if n.Sound {
		args = append(args, "--urgency=normal")
	} else {
		args = append(args, "--urgency=low")
	}
	return append(args, n.Title, n.Message)
}
