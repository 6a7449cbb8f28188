package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"rewind/internal/logs"
	"rewind/internal/ui"
)

func newListCmd() *cobra.Command {
	var (
		showSnapshots bool
		showStashes   bool
		branch        string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List branches, snapshots, or stashes.",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := getService()

			switch {
			case showStashes:
				stashes, err := svc.ListStashes()
				if err != nil {
					logs.Error("Failed to list stashes: %v", err)
					return err
				}
				fmt.Println(ui.RenderStashes(stashes))

			case showSnapshots:
				name := branch
				if name == "" {
					name = svc.CurrentBranch()
				}
				snapshots, err := svc.ListSnapshots(name)
				if err != nil {
					logs.Error("Failed to list snapshots: %v", err)
					return err
				}
				fmt.Println(ui.RenderSnapshots(name, snapshots))

			default:
				branches, err := svc.ListBranches()
				if err != nil {
					logs.Error("Failed to list branches: %v", err)
					return err
				}
				fmt.Println(ui.RenderBranches(branches))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&showSnapshots, "snapshots", "s", false, "List snapshots instead of branches")
	cmd.Flags().BoolVar(&showStashes, "stashes", false, "List stashes instead of branches")
	cmd.Flags().StringVarP(&branch, "branch", "b", "", "Branch to list snapshots from")
	return cmd
}
