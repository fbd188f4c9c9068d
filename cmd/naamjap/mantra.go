package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"naamjap/internal/goals"

	"github.com/spf13/cobra"
)

func addMantra(topLevel *cobra.Command, c *cli) {
	cmd := &cobra.Command{
		Use:   "mantra",
		Short: "List, add and select mantras.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List saved mantras; the active one is marked.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := c.load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			names, err := e.machine.Mantras(ctx)
			if err != nil {
				return err
			}
			st, err := e.machine.State(ctx)
			if err != nil {
				return err
			}

			tbl := newTable()
			for _, name := range names {
				mark := " "
				if name == st.ActiveMantra {
					mark = accent.Sprint("•")
				}
				tbl.AddRow(mark, name)
			}
			printTable(cmd.OutOrStdout(), tbl)
			return nil
		},
	}

	add := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a mantra to the front of the list and select it.",
		Example: `
naamjap mantra add Sita Ram
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := c.load()
			if err != nil {
				return err
			}
			name := strings.Join(args, " ")
			if _, err := e.machine.AddMantra(cmd.Context(), name); err != nil {
				return err
			}
			printOK(cmd.OutOrStdout(), "Added and selected %s", name)
			return nil
		},
	}

	use := &cobra.Command{
		Use:   "use NAME",
		Short: "Select a mantra. Unfinished progress is archived to history.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := c.load()
			if err != nil {
				return err
			}
			st, err := e.machine.SwitchMantra(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			printOK(cmd.OutOrStdout(), "Chanting %s (target %d)", st.ActiveMantra, st.Target)
			return nil
		},
	}

	cmd.AddCommand(list, add, use)
	topLevel.AddCommand(cmd)
}

func addGoal(topLevel *cobra.Command, c *cli) {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Manage per-weekday chant targets.",
		Long: `Weekday goals override the default target on that day of the week.
Weekdays are given as sun..sat, full names, or 0 (Sunday) to 6.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Show the target for every weekday.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := c.load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			g, err := e.machine.DailyGoals(ctx)
			if err != nil {
				return err
			}
			def, err := e.repo.DefaultTarget(ctx)
			if err != nil {
				return err
			}
			if def <= 0 {
				def = e.cfg.Practice.DefaultTarget
			}
			if def <= 0 {
				def = goals.DefaultTarget
			}

			tbl := newTable()
			tbl.AddRow(bold.Sprint("Day"), bold.Sprint("Target"))
			for _, wd := range weekdayOrder {
				if t, ok := g[wd]; ok {
					tbl.AddRow(weekdayName(wd), accent.Sprint(t))
				} else {
					tbl.AddRow(weekdayName(wd), faint.Sprintf("%d (default)", def))
				}
			}
			printTable(cmd.OutOrStdout(), tbl)
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set WEEKDAY CHANTS",
		Short: "Set the target for a weekday.",
		Example: `
naamjap goal set sat 216
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			wd, err := goals.ParseWeekday(args[0])
			if err != nil {
				return err
			}
			target, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid target %q", args[1])
			}
			if target <= 0 {
				return fmt.Errorf("target must be positive; use 'naamjap goal clear' to remove a goal")
			}
			cmd.SilenceUsage = true
			e, err := c.load()
			if err != nil {
				return err
			}
			if _, err := e.machine.SetDailyGoal(cmd.Context(), wd, target); err != nil {
				return err
			}
			printOK(cmd.OutOrStdout(), "%s target set to %d", weekdayName(wd), target)
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear WEEKDAY",
		Short: "Remove a weekday goal so the default target applies.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wd, err := goals.ParseWeekday(args[0])
			if err != nil {
				return err
			}
			cmd.SilenceUsage = true
			e, err := c.load()
			if err != nil {
				return err
			}
			if _, err := e.machine.SetDailyGoal(cmd.Context(), wd, 0); err != nil {
				return err
			}
			printOK(cmd.OutOrStdout(), "%s goal cleared", weekdayName(wd))
			return nil
		},
	}

	cmd.AddCommand(list, set, clearCmd)
	topLevel.AddCommand(cmd)
}

// weekdayOrder lists weekdays Monday first, matching the weekly report.
var weekdayOrder = []int{1, 2, 3, 4, 5, 6, 0}

func weekdayName(wd int) string {
	return time.Weekday(wd).String()
}
