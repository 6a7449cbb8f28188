package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"rewind/internal/logs"
)

func newSwitchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "switch <branch>",
		Short: "Switch to a different branch.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			unlock, err := lockTimeline()
			if err != nil {
				return err
			}
			defer unlock()

			name := args[0]
			ok, err := getService().SwitchBranch(name)
			if err != nil {
				logs.Error("Failed to switch to branch '%s': %v", name, err)
				return err
			}
			if !ok {
				return fmt.Errorf("branch '%s' does not exist", name)
			}
			fmt.Printf("Switched to branch '%s'\n", name)
			return nil
		},
	}
}
