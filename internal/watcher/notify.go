package watcher

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// Notify raises a desktop notification for a watch alert, mapping the
// alert level onto the platform's urgency mechanism where one exists.
// Platforms without a notifier, and notifier failures, fall back to a
// line on stderr so no alert is ever dropped silently.
func Notify(alert Alert) error {
	switch runtime.GOOS {
	case "darwin":
		return notifyMacOS(alert)
	case "linux":
		return notifyLinux(alert)
	default:
		return notifyFallback(alert)
	}
}

// notifyMacOS raises the alert through osascript. Critical alerts get an
// audible sound; the rest stay silent banners.
func notifyMacOS(alert Alert) error {
	script := fmt.Sprintf(
		`display notification %q with title "repoatlas watch" subtitle %q`,
		alert.Message, alert.Title,
	)
	if alert.Level == "critical" {
		script += ` sound name "Basso"`
	}
	if err := exec.Command("osascript", "-e", script).Run(); err != nil {
		return notifyFallback(alert)
	}
	return nil
}

// notifyLinux raises the alert through notify-send, translating the alert
// level into the freedesktop urgency hint.
func notifyLinux(alert Alert) error {
	if _, err := exec.LookPath("notify-send"); err != nil {
		return notifyFallback(alert)
	}

	urgency := "low"
	switch alert.Level {
	case "critical":
		urgency = "critical"
	case "warning":
		urgency = "normal"
	}

	title := fmt.Sprintf("repoatlas watch: %s", alert.Title)
	if err := exec.Command("notify-send", "-u", urgency, title, alert.Message).Run(); err != nil {
		return notifyFallback(alert)
	}
	return nil
}

// notifyFallback writes the alert to stderr.
func notifyFallback(alert Alert) error {
	_, err := fmt.Fprintf(os.Stderr, "repoatlas watch [%s] %s: %s\n", alert.Level, alert.Title, alert.Message)
	return err
}
