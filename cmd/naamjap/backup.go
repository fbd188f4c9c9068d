package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func addBackup(topLevel *cobra.Command, c *cli) {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Create a backup of all practice data.",
		Long: `Creates a timestamped snapshot of the counter, ledger, history,
goals, mantras and reminder settings under <data_dir>/backups. Installed
reminders are not part of a backup; 'naamjap restore' schedules them again.`,
		Example: `
naamjap backup
naamjap backup list
naamjap backup prune --keep 5
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := c.load()
			if err != nil {
				return err
			}

			name, err := e.backups.Create(cmd.Context())
			if err != nil {
				return fmt.Errorf("creating backup: %w", err)
			}
			info, err := e.backups.GetBackup(name)
			if err != nil {
				return fmt.Errorf("reading backup info: %w", err)
			}

			out := cmd.OutOrStdout()
			printOK(out, "Backup created: %s", name)
			_, _ = fmt.Fprintf(out, "  Days: %d, Sessions: %d, Malas: %d\n",
				info.Stats["days"], info.Stats["sessions"], info.Stats["malas"])
			_, _ = fmt.Fprintf(out, "  Location: %s\n", info.Path)
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List available backups, newest first.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := c.load()
			if err != nil {
				return err
			}
			backups, err := e.backups.List()
			if err != nil {
				return fmt.Errorf("listing backups: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(backups) == 0 {
				_, _ = fmt.Fprintln(out, "No backups available.")
				_, _ = fmt.Fprintln(out, "Run 'naamjap backup' to create one.")
				return nil
			}

			now := e.clock.Now()
			tbl := newTable()
			tbl.AddRow(bold.Sprint("Name"), bold.Sprint("Age"), bold.Sprint("Days"), bold.Sprint("Sessions"), bold.Sprint("Malas"))
			for _, b := range backups {
				tbl.AddRow(b.Name, faint.Sprint(formatAge(b.CreatedAt, now)), b.Stats["days"], b.Stats["sessions"], b.Stats["malas"])
			}
			printTable(out, tbl)
			return nil
		},
	}

	keep := 10
	prune := &cobra.Command{
		Use:   "prune",
		Short: "Delete old backups, keeping the most recent ones.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := c.load()
			if err != nil {
				return err
			}
			deleted, err := e.backups.Prune(keep)
			if err != nil {
				return fmt.Errorf("pruning backups: %w", err)
			}
			printOK(cmd.OutOrStdout(), "Deleted %d backups, kept up to %d", deleted, keep)
			return nil
		},
	}
	prune.Flags().IntVar(&keep, "keep", 10, "Number of backups to keep.")

	cmd.AddCommand(list, prune)
	topLevel.AddCommand(cmd)
}
