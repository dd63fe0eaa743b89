package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/renamepro/cmd/renamepro/commands"
	"github.com/walteh/renamepro/cmd/renamepro/opts"
	"github.com/walteh/renamepro/pkg/config"
	"github.com/walteh/renamepro/pkg/history"
	"github.com/walteh/renamepro/pkg/journal"
	"github.com/walteh/renamepro/pkg/rename"
	"github.com/walteh/renamepro/pkg/report"
	"github.com/walteh/renamepro/pkg/revision"
	"gitlab.com/tozd/go/errors"
)

var (
	// Flags
	configFile string
	debug      bool
)

// newRootOpts creates a new RootOpts with initialized dependencies
func newRootOpts(cmd *cobra.Command) (*opts.RootOpts, error) {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx, configFile)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}

	ledger := history.New(cfg.MaxHistory)

	return &opts.RootOpts{
		Config:     cfg,
		ConfigPath: configFile,
		Ledger:     ledger,
		Executor:   rename.NewExecutor(ledger),
		Detector:   revision.NewDetector(cfg.Revisions),
		Reporter:   report.New(cmd.OutOrStdout(), *zerolog.Ctx(ctx)),
		Journal:    journal.NewWriter(cfg.LogDirectory),
	}, nil
}

// setupLogging configures zerolog based on flags
func setupLogging() {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log
}

// NewRootCmd builds the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "renamepro",
		Short: "Batch rename and move job files with undo/redo",
		Long: `renamepro moves loose design files into canonically named, correctly
located artifacts. It parses job metadata out of the job folder name, infers
the next revision from files already on disk, and executes the batch as one
undoable session.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
		},
	}

	root.PersistentFlags().StringVarP(&configFile, "config", "c", ".renamepro.yaml", "config file path")
	root.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")

	build := opts.Builder(newRootOpts)

	root.AddCommand(commands.NewRenameCmd(build))
	root.AddCommand(commands.NewParseCmd(build))
	root.AddCommand(commands.NewRevisionsCmd(build))
	root.AddCommand(commands.NewSuggestCmd(build))

	return root
}
