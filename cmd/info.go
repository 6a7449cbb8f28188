package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"rewind/internal/logs"
	"rewind/internal/ui"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info [snapshot-id]",
		Short: "Show details for a snapshot, or a timeline summary.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := getService()

			if len(args) == 1 {
				snap, err := svc.SnapshotInfo(args[0])
				if err != nil {
					logs.Error("Failed to look up snapshot '%s': %v", args[0], err)
					return err
				}
				if snap == nil {
					return fmt.Errorf("snapshot '%s' does not exist", args[0])
				}
				fmt.Println(ui.RenderSnapshotInfo(snap))
				return nil
			}

			branches, err := svc.ListBranches()
			if err != nil {
				logs.Error("Failed to load timeline: %v", err)
				return err
			}
			stashes, err := svc.ListStashes()
			if err != nil {
				return err
			}

			snapshots := 0
			for _, b := range branches {
				snapshots += b.Snapshots
			}
			fmt.Printf("Current branch: %s\n", svc.CurrentBranch())
			fmt.Printf("Branches:  %d\n", len(branches))
			fmt.Printf("Snapshots: %d\n", snapshots)
			fmt.Printf("Stashes:   %d\n", len(stashes))
			return nil
		},
	}
}
