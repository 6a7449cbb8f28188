package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"rewind/internal/config"
	"rewind/internal/logs"
	"rewind/internal/ui"
)

func newRestoreCmd() *cobra.Command {
	var (
		force    bool
		unsafe   bool
		infoOnly bool
	)

	cmd := &cobra.Command{
		Use:   "restore <snapshot-id>",
		Short: "Restore the system to a previous snapshot.",
		Long: `Restore records the intent to roll back to the given snapshot on the
current branch. Unless --unsafe is given, an automatic safety snapshot is
taken first so the restore itself can be undone.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := getService()
			snapshotID := args[0]

			if infoOnly {
				snap, err := svc.SnapshotInfo(snapshotID)
				if err != nil {
					logs.Error("Failed to look up snapshot '%s': %v", snapshotID, err)
					return err
				}
				if snap == nil {
					return fmt.Errorf("snapshot '%s' does not exist", snapshotID)
				}
				fmt.Println(ui.RenderSnapshotInfo(snap))
				return nil
			}

			if !force && !config.ForceEnabled() {
				ok, err := ui.Confirm(fmt.Sprintf("Restore to snapshot %s?", snapshotID), false)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Println("Restore cancelled.")
					return nil
				}
			}

			unlock, err := lockTimeline()
			if err != nil {
				return err
			}
			defer unlock()

			ok, err := svc.RestoreSnapshot(snapshotID, !unsafe)
			if err != nil {
				logs.Error("Failed to restore snapshot '%s': %v", snapshotID, err)
				return err
			}
			if !ok {
				return fmt.Errorf("snapshot '%s' does not exist", snapshotID)
			}
			fmt.Printf("Restored to snapshot '%s'\n", snapshotID)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip the confirmation prompt")
	cmd.Flags().BoolVar(&unsafe, "unsafe", false, "Skip the automatic safety snapshot")
	cmd.Flags().BoolVar(&infoOnly, "info", false, "Show snapshot details instead of restoring")
	return cmd
}
