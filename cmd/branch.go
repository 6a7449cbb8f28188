package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"rewind/internal/logs"
	"rewind/internal/ui"
)

func newBranchCmd() *cobra.Command {
	var (
		description string
		fromBranch  string
		switchTo    bool
	)

	cmd := &cobra.Command{
		Use:   "branch [name]",
		Short: "Create a new branch, or list branches when no name is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := getService()

			if len(args) == 0 {
				branches, err := svc.ListBranches()
				if err != nil {
					logs.Error("Failed to list branches: %v", err)
					return err
				}
				fmt.Println(ui.RenderBranches(branches))
				return nil
			}

			unlock, err := lockTimeline()
			if err != nil {
				return err
			}
			defer unlock()

			name := args[0]
			created, err := svc.CreateBranch(name, description, fromBranch)
			if err != nil {
				logs.Error("Failed to create branch '%s': %v", name, err)
				return err
			}
			if !created {
				return fmt.Errorf("branch '%s' already exists", name)
			}
			fmt.Printf("Created branch '%s'\n", name)

			if switchTo {
				ok, err := svc.SwitchBranch(name)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("failed to switch to branch '%s'", name)
				}
				fmt.Printf("Switched to branch '%s'\n", name)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Description for the new branch")
	cmd.Flags().StringVar(&fromBranch, "from", "", "Create the branch from another branch (default: current)")
	cmd.Flags().BoolVar(&switchTo, "switch", false, "Switch to the new branch after creating it")
	return cmd
}
