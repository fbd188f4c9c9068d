package main

import (
	"errors"
	"fmt"

	"naamjap/internal/backup"

	"github.com/spf13/cobra"
)

func addRestore(topLevel *cobra.Command, c *cli) {
	var latest, force bool
	cmd := &cobra.Command{
		Use:   "restore [BACKUP_NAME]",
		Short: "Restore data from a backup.",
		Long: `Replaces all practice data with a backup. A safety backup is
created first. If reminders were on in the restored data they are
scheduled again.`,
		Example: `
# Restore from a specific backup
naamjap restore 2025-12-15_143022_000

# Restore from the most recent backup
naamjap restore --latest

# Restore without confirmation prompt
naamjap restore --force 2025-12-15_143022_000
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if latest == (len(args) > 0) {
				return errors.New("give either a backup name or --latest; run 'naamjap backup list' to see backups")
			}
			cmd.SilenceUsage = true
			e, err := c.load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			var name string
			if latest {
				backups, err := e.backups.List()
				if err != nil {
					return fmt.Errorf("listing backups: %w", err)
				}
				if len(backups) == 0 {
					return backup.ErrNoBackups
				}
				name = backups[0].Name
			} else {
				name = args[0]
			}

			info, err := e.backups.GetBackup(name)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, "Restoring from backup: %s\n", info.Name)
			_, _ = fmt.Fprintf(out, "  Created: %s\n", info.CreatedAt.Format("2006-01-02 15:04:05"))
			_, _ = fmt.Fprintf(out, "  Days: %d, Sessions: %d, Malas: %d\n\n",
				info.Stats["days"], info.Stats["sessions"], info.Stats["malas"])

			if !force {
				printWarn(out, "This will overwrite your current data.")
				ok, err := confirm(cmd.InOrStdin(), out, "Continue?")
				if err != nil {
					return err
				}
				if !ok {
					_, _ = fmt.Fprintln(out, "Restore cancelled.")
					return nil
				}
			}

			printOK(out, "Creating safety backup first...")
			if err := e.backups.Restore(ctx, name); err != nil {
				return fmt.Errorf("restoring backup: %w", err)
			}
			printOK(out, "Restored successfully from %s", name)

			return reapplyReminders(cmd, e)
		},
	}
	cmd.Flags().BoolVar(&latest, "latest", false, "Restore from the most recent backup.")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt.")
	topLevel.AddCommand(cmd)
}

// reapplyReminders schedules the restored reminder settings when the
// restored data had reminders on.
func reapplyReminders(cmd *cobra.Command, e *env) error {
	ctx := cmd.Context()
	st, err := e.scheduler.Status(ctx)
	if err != nil {
		return err
	}
	if !st.Enabled || !e.cfg.Notifications.Enabled {
		return nil
	}
	return applyReminders(ctx, cmd.OutOrStdout(), e, st.Settings.Config())
}
