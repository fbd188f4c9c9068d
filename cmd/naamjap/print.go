package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
)

var (
	bold    = color.New(color.Bold)
	faint   = color.New(color.Faint)
	success = color.New(color.FgGreen)
	warning = color.New(color.FgYellow)
	accent  = color.New(color.FgHiYellow, color.Bold)
)

// newTable returns a table with the separator used across commands.
func newTable() *uitable.Table {
	tbl := uitable.New()
	tbl.Separator = "  "
	return tbl
}

func printTable(w io.Writer, tbl *uitable.Table) {
	_, _ = fmt.Fprintln(w, tbl)
}

// printOK prints a green check line.
func printOK(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintln(w, success.Sprint("✓ ")+fmt.Sprintf(format, args...))
}

// printWarn prints a yellow warning line.
func printWarn(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintln(w, warning.Sprint("⚠ ")+fmt.Sprintf(format, args...))
}

// progressBar renders count/target as a fixed-width bar.
func progressBar(count, target, width int) string {
	if width <= 0 {
		return ""
	}
	filled := 0
	if target > 0 {
		filled = min(width, count*width/target)
	}
	return accent.Sprint(strings.Repeat("█", filled)) + faint.Sprint(strings.Repeat("░", width-filled))
}

// formatAge returns a human-readable age string.
func formatAge(t, now time.Time) string {
	d := now.Sub(t)

	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	case d < 24*time.Hour:
		hours := int(d.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case d < 7*24*time.Hour:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	default:
		weeks := int(d.Hours() / 24 / 7)
		if weeks == 1 {
			return "1 week ago"
		}
		return fmt.Sprintf("%d weeks ago", weeks)
	}
}
