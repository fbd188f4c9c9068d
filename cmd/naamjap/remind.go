package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"naamjap/internal/reminder"

	"github.com/spf13/cobra"
)

func addRemind(topLevel *cobra.Command, c *cli) {
	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Schedule chanting reminders.",
		Long: `Reminders fire either every N minutes inside the selected time
windows, or at fixed times of day. Changing the schedule replaces every
reminder installed before. Reminders are delivered while the TUI or
'naamjap notify-daemon' is running.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(
		newRemindStatusCmd(c),
		newRemindWindowsCmd(),
		newRemindIntervalCmd(c),
		newRemindCustomCmd(c),
		newRemindTimeCmd(c, "add-time", "Add a custom reminder time and reschedule.", reminder.AddCustomTime),
		newRemindTimeCmd(c, "remove-time", "Remove a custom reminder time and reschedule.", reminder.RemoveCustomTime),
		newRemindStopCmd(c),
	)
	topLevel.AddCommand(cmd, newNotifyDaemonCmd(c))
}

func newRemindStatusCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the reminder configuration and installed reminders.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := c.load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			st, err := e.scheduler.Status(ctx)
			if err != nil {
				return err
			}
			triggers, err := e.triggers.List(ctx)
			if err != nil {
				return err
			}

			enabled := faint.Sprint("off")
			if st.Enabled {
				enabled = success.Sprint("on")
			}
			tbl := newTable()
			tbl.AddRow(bold.Sprint("Reminders"), enabled)
			tbl.AddRow(bold.Sprint("Mode"), st.Settings.Mode)
			tbl.AddRow(bold.Sprint("Interval"), fmt.Sprintf("every %d min", st.Settings.Interval.IntervalMinutes))
			tbl.AddRow(bold.Sprint("Windows"), formatWindows(st.Settings.Interval.Windows))
			tbl.AddRow(bold.Sprint("Custom times"), formatTimes(st.Settings.Custom.Times))
			tbl.AddRow(bold.Sprint("Sound"), strconv.FormatBool(st.Settings.SoundEnabled))
			tbl.AddRow(bold.Sprint("Installed"), strconv.Itoa(len(st.Scheduled.All())))
			if !e.cfg.Notifications.Enabled {
				tbl.AddRow(bold.Sprint("Permission"), warning.Sprint("denied by config (notifications.enabled)"))
			}
			out := cmd.OutOrStdout()
			printTable(out, tbl)

			if len(triggers) > 0 {
				_, _ = fmt.Fprintln(out)
				next := newTable()
				next.AddRow(bold.Sprint("Next"), bold.Sprint("ID"))
				for _, t := range triggers {
					next.AddRow(t.When.Local().Format("2006-01-02 15:04"), faint.Sprint(t.ID))
				}
				printTable(out, next)
			}
			return nil
		},
	}
}

func newRemindWindowsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "windows",
		Short: "List the time windows interval reminders can use.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			defaults := map[reminder.WindowID]bool{}
			for _, id := range reminder.DefaultWindowIDs() {
				defaults[id] = true
			}
			tbl := newTable()
			tbl.AddRow(bold.Sprint("ID"), bold.Sprint("Window"), "")
			for _, w := range reminder.Windows() {
				mark := ""
				if defaults[w.ID] {
					mark = faint.Sprint("default")
				}
				tbl.AddRow(string(w.ID), w.Label, mark)
			}
			printTable(cmd.OutOrStdout(), tbl)
		},
	}
}

func newRemindIntervalCmd(c *cli) *cobra.Command {
	var (
		every   int
		windows []string
		noSound bool
	)
	cmd := &cobra.Command{
		Use:   "interval",
		Short: "Remind every N minutes inside the selected windows.",
		Example: `
naamjap remind interval --every 30
naamjap remind interval --every 60 --windows 6-9,18-21
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := c.load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			settings, err := e.scheduler.Settings(ctx)
			if err != nil {
				return err
			}

			mode := settings.Interval
			if cmd.Flags().Changed("every") || mode.IntervalMinutes <= 0 {
				mode.IntervalMinutes = every
			}
			if cmd.Flags().Changed("windows") {
				mode.Windows = nil
				for _, w := range windows {
					mode.Windows = append(mode.Windows, reminder.WindowID(strings.TrimSpace(w)))
				}
			} else if len(mode.Windows) == 0 {
				mode.Windows = reminder.DefaultWindowIDs()
			}

			return applyReminders(ctx, cmd.OutOrStdout(), e, reminder.Config{Mode: mode, SoundEnabled: soundSetting(cmd, settings, noSound)})
		},
	}
	cmd.Flags().IntVar(&every, "every", reminder.DefaultIntervalMinutes,
		fmt.Sprintf("Minutes between reminders (offered: %s).", joinInts(reminder.IntervalOptions)))
	cmd.Flags().StringSliceVar(&windows, "windows", nil, "Window IDs, see 'naamjap remind windows'.")
	cmd.Flags().BoolVar(&noSound, "no-sound", false, "Deliver reminders silently.")
	return cmd
}

func newRemindCustomCmd(c *cli) *cobra.Command {
	noSound := false
	cmd := &cobra.Command{
		Use:   "custom [HH:MM...]",
		Short: "Remind at fixed times of day.",
		Long: `With times given, they replace the saved custom times. Without
arguments the saved custom times are scheduled again.`,
		Example: `
naamjap remind custom 05:30 12:00 20:45
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var times []reminder.TimeOfDay
			for _, arg := range args {
				t, err := reminder.ParseTimeOfDay(arg)
				if err != nil {
					return err
				}
				times = reminder.AddCustomTime(times, t)
			}
			cmd.SilenceUsage = true
			e, err := c.load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			settings, err := e.scheduler.Settings(ctx)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				times = settings.Custom.Times
			}
			cfg := reminder.Config{
				Mode:         reminder.CustomMode{Times: times},
				SoundEnabled: soundSetting(cmd, settings, noSound),
			}
			return applyReminders(ctx, cmd.OutOrStdout(), e, cfg)
		},
	}
	cmd.Flags().BoolVar(&noSound, "no-sound", false, "Deliver reminders silently.")
	return cmd
}

// newRemindTimeCmd edits the saved custom times with edit and reschedules
// in custom mode.
func newRemindTimeCmd(c *cli, use, short string, edit func([]reminder.TimeOfDay, reminder.TimeOfDay) []reminder.TimeOfDay) *cobra.Command {
	return &cobra.Command{
		Use:   use + " HH:MM",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := reminder.ParseTimeOfDay(args[0])
			if err != nil {
				return err
			}
			cmd.SilenceUsage = true
			e, err := c.load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			settings, err := e.scheduler.Settings(ctx)
			if err != nil {
				return err
			}
			cfg := reminder.Config{
				Mode:         reminder.CustomMode{Times: edit(settings.Custom.Times, t)},
				SoundEnabled: settings.SoundEnabled,
			}
			return applyReminders(ctx, cmd.OutOrStdout(), e, cfg)
		},
	}
}

func newRemindStopCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Cancel every reminder. The schedule is kept for later.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := c.load()
			if err != nil {
				return err
			}
			if err := e.scheduler.Stop(cmd.Context()); err != nil {
				return err
			}
			printOK(cmd.OutOrStdout(), "Reminders stopped")
			return nil
		},
	}
}

func newNotifyDaemonCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "notify-daemon",
		Short: "Deliver due reminders until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := c.load()
			if err != nil {
				return err
			}
			interval := e.cfg.Notifications.PollInterval()
			e.logger.Info("notify daemon started", "interval", interval)
			err = e.dispatcher.Run(cmd.Context(), interval, e.clock)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}

// applyReminders schedules cfg and reports the outcome. A partial install
// is reported but keeps what was installed.
func applyReminders(ctx context.Context, out io.Writer, e *env, cfg reminder.Config) error {
	set, err := e.scheduler.Apply(ctx, cfg)
	var installErr *reminder.InstallError
	switch {
	case errors.As(err, &installErr):
		printWarn(out, "%d reminders scheduled, %d failed", installErr.Installed, len(installErr.Failed))
		return err
	case errors.Is(err, reminder.ErrPermissionDenied):
		return fmt.Errorf("%w: set notifications.enabled in the config file", err)
	case err != nil:
		return err
	}
	printOK(out, "%d reminders scheduled (%s)", len(set.All()), cfg.Mode.Name())
	return nil
}

// soundSetting keeps the saved sound preference unless --no-sound was given.
func soundSetting(cmd *cobra.Command, settings reminder.Settings, noSound bool) bool {
	if cmd.Flags().Changed("no-sound") {
		return !noSound
	}
	return settings.SoundEnabled
}

func formatWindows(ids []reminder.WindowID) string {
	if len(ids) == 0 {
		return faint.Sprint("none")
	}
	labels := make([]string, 0, len(ids))
	for _, w := range reminder.ResolveWindows(ids) {
		labels = append(labels, w.Label)
	}
	return strings.Join(labels, ", ")
}

func formatTimes(times []reminder.TimeOfDay) string {
	if len(times) == 0 {
		return faint.Sprint("none")
	}
	parts := make([]string, len(times))
	for i, t := range times {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}
