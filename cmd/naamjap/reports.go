package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"naamjap/internal/fsutil"
	"naamjap/internal/reports"

	"github.com/spf13/cobra"
)

func addReports(topLevel *cobra.Command, c *cli) {
	topLevel.AddCommand(newStatsCmd(c), newHistoryCmd(c), newExportCmd(c))
}

func newStatsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "stats [week|month|year]",
		Short: "Chart chants per day, month or year.",
		Example: `
naamjap stats
naamjap stats month
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			period := reports.PeriodWeek
			if len(args) > 0 {
				p, err := reports.ParsePeriod(args[0])
				if err != nil {
					return err
				}
				period = p
			}
			cmd.SilenceUsage = true
			e, err := c.load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			now := e.clock.Now()

			r, err := e.reports.Generate(ctx, period, now)
			if err != nil {
				return err
			}
			s, err := e.reports.Summary(ctx, now)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "%s\n\n", bold.Sprint(r.RangeLabel))

			peak := r.Max()
			tbl := newTable()
			for _, bar := range r.Bars {
				label := bar.Label
				if label == "" {
					label = bar.Key
				}
				n := bar.Value * 30 / peak
				if bar.Value > 0 && n == 0 {
					n = 1
				}
				tbl.AddRow(faint.Sprint(label), accent.Sprint(strings.Repeat("▇", n)), strconv.Itoa(bar.Value))
			}
			tbl.RightAlign(0)
			printTable(out, tbl)

			_, _ = fmt.Fprintln(out)
			summary := newTable()
			summary.AddRow(bold.Sprint("Total"), strconv.Itoa(r.Total))
			summary.AddRow(bold.Sprint("Average"), strconv.Itoa(r.Average))
			summary.AddRow(bold.Sprint("Streak"), formatStreaks(s.Streaks))
			summary.AddRow(bold.Sprint("Malas"), strconv.Itoa(s.MalaCount))
			printTable(out, summary)
			return nil
		},
	}
}

func newHistoryCmd(c *cli) *cobra.Command {
	limit := 20
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List completed and archived sessions, newest first.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := c.load()
			if err != nil {
				return err
			}
			entries, err := e.machine.History(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				_, _ = fmt.Fprintln(out, "No sessions yet.")
				return nil
			}
			if limit > 0 && len(entries) > limit {
				entries = entries[:limit]
			}

			tbl := newTable()
			tbl.MaxColWidth = 40
			tbl.AddRow(bold.Sprint("When"), bold.Sprint("Mantra"), bold.Sprint("Chants"), bold.Sprint("Mood"), "")
			for _, en := range entries {
				mark := success.Sprint("✓")
				if en.Archived {
					mark = faint.Sprint("archived")
				}
				tbl.AddRow(en.CompletedAt.Local().Format("2006-01-02 15:04"), en.Mantra,
					fmt.Sprintf("%d/%d", en.Count, en.Target), en.Mood, mark)
			}
			printTable(out, tbl)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Maximum sessions to show, 0 for all.")
	return cmd
}

func newExportCmd(c *cli) *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "export [summary|week|month|year]",
		Short: "Generate a practice report as Markdown or JSON.",
		Example: `
# Overall summary in Markdown
naamjap export

# Monthly chart as JSON written to a file
naamjap export month --format json --output month.json
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case "markdown", "md":
				format = "markdown"
			case "json":
			default:
				return fmt.Errorf("invalid format %q: use 'markdown' or 'json'", format)
			}

			kind := "summary"
			if len(args) > 0 {
				kind = args[0]
			}
			var period reports.Period
			if kind != "summary" {
				p, err := reports.ParsePeriod(kind)
				if err != nil {
					return err
				}
				period = p
			}

			cmd.SilenceUsage = true
			e, err := c.load()
			if err != nil {
				return err
			}
			data, err := renderReport(cmd, e, period, format)
			if err != nil {
				return err
			}

			if format == "json" {
				data = append(data, '\n')
			}
			if output == "" {
				_, _ = fmt.Fprint(cmd.OutOrStdout(), string(data))
				return nil
			}
			if dir := filepath.Dir(output); dir != "." {
				if err := os.MkdirAll(dir, 0700); err != nil {
					return fmt.Errorf("creating output directory: %w", err)
				}
			}
			if err := fsutil.WriteFileAtomic(output, data, 0600); err != nil {
				return fmt.Errorf("writing report: %w", err)
			}
			printOK(cmd.OutOrStdout(), "Report written to %s", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "markdown", "Output format: markdown or json.")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout.")
	return cmd
}

// renderReport builds the summary when period is empty, otherwise the
// period chart.
func renderReport(cmd *cobra.Command, e *env, period reports.Period, format string) ([]byte, error) {
	ctx := cmd.Context()
	now := e.clock.Now()

	if period == "" {
		s, err := e.reports.Summary(ctx, now)
		if err != nil {
			return nil, fmt.Errorf("generating summary: %w", err)
		}
		if format == "json" {
			return reports.FormatSummaryJSON(s)
		}
		return []byte(reports.FormatSummaryMarkdown(s)), nil
	}

	r, err := e.reports.Generate(ctx, period, now)
	if err != nil {
		return nil, fmt.Errorf("generating %s report: %w", period, err)
	}
	if format == "json" {
		return reports.FormatPeriodJSON(r)
	}
	return []byte(reports.FormatPeriodMarkdown(r)), nil
}
