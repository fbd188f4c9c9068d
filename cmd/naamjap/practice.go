package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"naamjap/internal/datekey"
	"naamjap/internal/session"
	"naamjap/internal/stats"

	"github.com/spf13/cobra"
)

func addPractice(topLevel *cobra.Command, c *cli) {
	topLevel.AddCommand(
		newTapCmd(c),
		newStatusCmd(c),
		newTargetCmd(c),
		newResetCmd(c),
	)
}

func newTapCmd(c *cli) *cobra.Command {
	count := 1
	cmd := &cobra.Command{
		Use:   "tap",
		Short: "Count chants for the active mantra.",
		Example: `
naamjap tap
naamjap tap -n 27
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			if count < 1 {
				return fmt.Errorf("count must be at least 1, got %d", count)
			}
			e, err := c.load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			// Rolls over a completion left by an interrupted run.
			st, err := e.machine.State(ctx)
			if err != nil {
				return err
			}
			for i := 0; i < count; i++ {
				res, err := e.machine.Increment(ctx)
				if errors.Is(err, session.ErrMantraRequired) {
					return fmt.Errorf("%w: run 'naamjap mantra use NAME'", err)
				}
				if err != nil {
					return err
				}
				st = res.State
				if !res.Completed {
					continue
				}
				printOK(out, "Mala complete: %s (%d)", res.Entry.Mantra, res.Entry.Count)
				// There is no acknowledgment window outside the TUI.
				if st, err = e.machine.FinishCycle(ctx); err != nil {
					return err
				}
			}

			_, _ = fmt.Fprintf(out, "%s  %d / %d  %s\n",
				bold.Sprint(st.ActiveMantra), st.Count, st.Target, progressBar(st.Count, st.Target, 20))
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of chants to add.")
	return cmd
}

func newStatusCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the counter and today's practice.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := c.load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			st, err := e.machine.State(ctx)
			if err != nil {
				return err
			}
			summary, err := e.reports.Summary(ctx, e.clock.Now())
			if err != nil {
				return err
			}

			mantra := st.ActiveMantra
			if mantra == "" {
				mantra = faint.Sprint("none selected")
			}
			tbl := newTable()
			tbl.AddRow(bold.Sprint("Mantra"), mantra)
			tbl.AddRow(bold.Sprint("Count"), fmt.Sprintf("%d / %d  %s", st.Count, st.Target, progressBar(st.Count, st.Target, 20)))
			tbl.AddRow(bold.Sprint("Phase"), session.PhaseOf(st).String())
			tbl.AddRow(bold.Sprint("Today"), fmt.Sprintf("%d / %d", summary.Today, summary.TodayTarget))
			tbl.AddRow(bold.Sprint("Malas"), strconv.Itoa(summary.MalaCount))
			tbl.AddRow(bold.Sprint("Streak"), formatStreaks(summary.Streaks))
			if summary.LastCompleted != nil {
				tbl.AddRow(bold.Sprint("Last mala"), fmt.Sprintf("%s, %s",
					summary.LastMantra, formatAge(*summary.LastCompleted, e.clock.Now())))
			}
			printTable(cmd.OutOrStdout(), tbl)
			return nil
		},
	}
}

func formatStreaks(s stats.Streaks) string {
	return fmt.Sprintf("%d days (best %d)", s.Current, s.Longest)
}

func newTargetCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "target CHANTS",
		Short: "Set the chants per mala used on days without a goal.",
		Example: `
naamjap target 108
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid target %q", args[0])
			}
			cmd.SilenceUsage = true
			e, err := c.load()
			if err != nil {
				return err
			}
			if err := e.machine.SetDefaultTarget(cmd.Context(), target); err != nil {
				return err
			}
			printOK(cmd.OutOrStdout(), "Target set to %d", target)
			return nil
		},
	}
}

func newResetCmd(c *cli) *cobra.Command {
	force := false
	cmd := &cobra.Command{
		Use:   "reset [DATE]",
		Short: "Remove everything recorded on a day (default today).",
		Long: `Reset removes the chants, sessions and malas recorded on DATE
(YYYY-MM-DD). Resetting today also zeroes the live counter. Resetting the
same day twice changes nothing the second time.`,
		Example: `
naamjap reset
naamjap reset 2025-01-08 --force
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := c.load()
			if err != nil {
				return err
			}
			key := datekey.Key(e.clock.Now())
			if len(args) > 0 {
				if !datekey.Valid(args[0]) {
					return fmt.Errorf("invalid date %q: use YYYY-MM-DD", args[0])
				}
				key = args[0]
			}
			out := cmd.OutOrStdout()

			if !force {
				ok, err := confirm(cmd.InOrStdin(), out, fmt.Sprintf("Reset all practice recorded on %s?", key))
				if err != nil {
					return err
				}
				if !ok {
					_, _ = fmt.Fprintln(out, "Reset cancelled.")
					return nil
				}
			}

			res, err := e.machine.ResetDate(cmd.Context(), key)
			if err != nil {
				return err
			}
			printOK(out, "Reset %s: %d chants, %d sessions removed", res.DateKey, res.RemovedCount, res.RemovedEntries)
			if res.CounterCleared {
				_, _ = fmt.Fprintln(out, faint.Sprint("  Counter cleared."))
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt.")
	return cmd
}

// confirm asks a yes/no question on out and reads the answer from in.
func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	_, _ = fmt.Fprintf(out, "%s [y/N] ", question)
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("reading input: %w", err)
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}
