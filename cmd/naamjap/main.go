// Package main is the entry point for the naamjap application.
// It loads configuration, opens storage and either starts the TUI or runs
// one of the subcommands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"naamjap/internal/ui"

	"github.com/spf13/cobra"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(openEnv).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// cli carries global flags and the lazily opened environment shared by
// every subcommand.
type cli struct {
	opts globalOptions
	open opener
	env  *env
}

// load opens the environment on first use.
func (c *cli) load() (*env, error) {
	if c.env != nil {
		return c.env, nil
	}
	e, err := c.open(&c.opts)
	if err != nil {
		return nil, err
	}
	c.env = e
	return e, nil
}

func newRootCmd(open opener) *cobra.Command {
	c := &cli{open: open}

	cmd := &cobra.Command{
		Use:   "naamjap",
		Short: "A mantra chanting counter for your terminal.",
		Long: `naamjap counts chants toward a mala, tracks daily practice and
streaks, and reminds you to chant through desktop notifications.

Run without arguments to start the interactive counter.`,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runTUI(cmd)
		},
	}

	cmd.PersistentFlags().BoolVarP(&c.opts.verbose, "verbose", "v", false, "Log debug output to stderr.")
	cmd.PersistentFlags().StringVar(&c.opts.dataDir, "data-dir", "", "Override the data directory.")

	addTUI(cmd, c)
	addPractice(cmd, c)
	addMantra(cmd, c)
	addFocus(cmd, c)
	addGoal(cmd, c)
	addReports(cmd, c)
	addRemind(cmd, c)
	addBackup(cmd, c)
	addRestore(cmd, c)
	addVersion(cmd)
	return cmd
}

func addTUI(topLevel *cobra.Command, c *cli) {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Start the interactive counter (default).",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runTUI(cmd)
		},
	}
	topLevel.AddCommand(cmd)
}

func (c *cli) runTUI(cmd *cobra.Command) error {
	cmd.SilenceUsage = true
	e, err := c.load()
	if err != nil {
		return err
	}

	styles := ui.NewStylesFromTheme(&e.cfg.Theme)
	appCfg := &ui.AppConfig{
		Keys:                  &e.cfg.Keys,
		ConfirmReset:          e.cfg.UX.ConfirmReset,
		ShowOnboarding:        e.cfg.UX.ShowOnboarding,
		NarrowLayoutThreshold: e.cfg.UX.NarrowLayoutThreshold,
	}
	deps := ui.Deps{
		Machine: e.machine,
		Repo:    e.repo,
		Reports: e.reports,
		Focus:   e.focus,
		Clock:   e.clock,
		Logger:  e.logger,
	}
	if e.cfg.Notifications.Enabled {
		deps.Dispatcher = e.dispatcher
		appCfg.PollInterval = e.cfg.Notifications.PollInterval()
	}

	if err := ui.Run(cmd.Context(), deps, styles, appCfg); err != nil {
		return fmt.Errorf("running app: %w", err)
	}
	return nil
}
