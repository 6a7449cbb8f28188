package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"rewind/internal/logs"
)

func newSnapshotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot <message>",
		Short: "Create a snapshot of the current state on the current branch.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			unlock, err := lockTimeline()
			if err != nil {
				return err
			}
			defer unlock()

			message := args[0]
			id, err := getService().CreateSnapshot(message, false)
			if err != nil {
				logs.Error("Failed to create snapshot: %v", err)
				return err
			}
			fmt.Printf("Created snapshot '%s': %s\n", id, message)
			return nil
		},
	}
}
