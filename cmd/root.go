package cmd

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"rewind/internal/config"
	"rewind/internal/locks"
	"rewind/internal/logs"
	"rewind/internal/service"
	"rewind/internal/store"
	"rewind/internal/ui"
)

var (
	verbose     bool
	timelineDir string

	timelineSvc *service.TimelineService
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "rewind",
	Short: "Rewind is a timeline-based system state manager.",
	Long: `Rewind tracks named branches of system state, each holding an ordered
history of snapshots, plus a global stack of stashes. It supports creating
and switching branches, taking snapshots, restoring to earlier snapshots
with an automatic safety checkpoint, and stashing ephemeral save-points.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logs.SetVerbose(verbose)
		if err := logs.InitLogger(); err != nil {
			return err
		}
		if err := config.InitializeGlobalConfig(); err != nil {
			return err
		}
		if err := config.InitializeLocalConfig(); err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logs.Close()
	},
}

// Execute is called by main.go to run the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&timelineDir, "dir", "", "Timeline storage directory (default: $REWIND_DIR or ~/.rewind)")

	rootCmd.AddCommand(
		newListCmd(),
		newBranchCmd(),
		newSwitchCmd(),
		newSnapshotCmd(),
		newRestoreCmd(),
		newStashCmd(),
		newInfoCmd(),
		newConfigCmd(),
	)

	rootCmd.SetUsageTemplate(ui.ColorHeadings(rootCmd.UsageTemplate()))
}

// getService lazily builds the timeline service against the resolved
// storage directory. Resolution has to wait until flags are parsed.
func getService() *service.TimelineService {
	if timelineSvc == nil {
		dir := config.TimelineDir(timelineDir)
		logs.Debug("Using timeline directory %s", dir)
		timelineSvc = service.New(store.New(afero.NewOsFs(), dir))
	}
	return timelineSvc
}

// lockTimeline serializes mutating commands: the in-process mutex guards
// threads, the lock file guards concurrent rewind processes.
func lockTimeline() (func(), error) {
	locks.LockTimeline()

	fl := locks.NewFileLock(config.TimelineDir(timelineDir))
	if err := fl.Acquire(); err != nil {
		locks.UnlockTimeline()
		return nil, err
	}
	return func() {
		if err := fl.Release(); err != nil {
			logs.Warn("Failed to release lock file: %v", err)
		}
		locks.UnlockTimeline()
	}, nil
}
