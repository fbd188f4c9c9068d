package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"naamjap/internal/focus"
	"naamjap/internal/session"

	"github.com/spf13/cobra"
)

func addFocus(topLevel *cobra.Command, c *cli) {
	topLevel.AddCommand(newFocusCmd(c), newMoodCmd(c))
}

func newFocusCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "focus",
		Short: "Show the focus timer.",
		Long: `The focus timer counts down beside the chant counter. It keeps
running between invocations and in the interactive counter.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := c.load()
			if err != nil {
				return err
			}
			st, err := e.focus.State(cmd.Context())
			if err != nil {
				return err
			}
			printFocus(cmd.OutOrStdout(), st, e.clock.Now())
			return nil
		},
	}
	cmd.AddCommand(newFocusStartCmd(c), newFocusToggleCmd(c))
	return cmd
}

func newFocusStartCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "start [MINUTES]",
		Short: "Start a fresh countdown (default 10 minutes).",
		Example: `
naamjap focus start
naamjap focus start 15
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := focus.DefaultDuration
			if len(args) > 0 {
				minutes, err := strconv.Atoi(args[0])
				if err != nil || minutes <= 0 {
					return fmt.Errorf("invalid minutes %q", args[0])
				}
				d = time.Duration(minutes) * time.Minute
			}
			cmd.SilenceUsage = true
			e, err := c.load()
			if err != nil {
				return err
			}
			st, err := e.focus.Start(cmd.Context(), d)
			if err != nil {
				return err
			}
			printFocus(cmd.OutOrStdout(), st, e.clock.Now())
			return nil
		},
	}
}

func newFocusToggleCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle",
		Short: "Pause a running timer or resume a paused one.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := c.load()
			if err != nil {
				return err
			}
			st, err := e.focus.Toggle(cmd.Context())
			if err != nil {
				return err
			}
			printFocus(cmd.OutOrStdout(), st, e.clock.Now())
			return nil
		},
	}
}

func printFocus(w io.Writer, st focus.State, now time.Time) {
	state := "paused"
	switch {
	case st.Running:
		state = success.Sprint("running")
	case st.RemainingAt(now) == 0:
		state = faint.Sprint("done")
	}
	_, _ = fmt.Fprintf(w, "%s  %s / %s  %s\n",
		bold.Sprint("Focus"), st.Format(now), focus.State{Remaining: st.Duration}.Format(now), state)
}

func newMoodCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "mood [NAME]",
		Short: "Show or set the mood recorded with completed malas.",
		Long: fmt.Sprintf(`Every completed mala is stamped with the current mood.
Moods: %s.`, strings.Join(session.Moods, ", ")),
		Example: `
naamjap mood
naamjap mood gratitude
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := c.load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				mood, err := e.machine.Mood(cmd.Context())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(out, "%s  %s\n", bold.Sprint("Mood"), mood)
				_, _ = fmt.Fprintln(out, faint.Sprint("  Choose from "+strings.Join(session.Moods, ", ")))
				return nil
			}
			mood, err := e.machine.SetMood(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printOK(out, "Mood set to %s", mood)
			return nil
		},
	}
}
