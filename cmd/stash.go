package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"rewind/internal/logs"
	"rewind/internal/ui"
)

func newStashCmd() *cobra.Command {
	var (
		list  bool
		apply bool
		pop   bool
		drop  bool
	)

	cmd := &cobra.Command{
		Use:   "stash [message | stash-id]",
		Short: "Create, list, apply, or drop stashes.",
		Long: `Without flags, stash pushes a new save-point onto the global stash
stack (the argument is its message). With --apply, --pop, or --drop the
argument is a stash id; when omitted, the most recent stash is targeted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := getService()

			arg := ""
			if len(args) == 1 {
				arg = args[0]
			}

			if list {
				stashes, err := svc.ListStashes()
				if err != nil {
					logs.Error("Failed to list stashes: %v", err)
					return err
				}
				fmt.Println(ui.RenderStashes(stashes))
				return nil
			}

			unlock, err := lockTimeline()
			if err != nil {
				return err
			}
			defer unlock()

			switch {
			case apply || pop:
				ok, err := svc.ApplyStash(arg, pop)
				if err != nil {
					logs.Error("Failed to apply stash: %v", err)
					return err
				}
				if !ok {
					if arg != "" {
						return fmt.Errorf("stash '%s' does not exist", arg)
					}
					return fmt.Errorf("no stashes to apply")
				}
				fmt.Println("Applied stash.")

			case drop:
				ok, err := svc.DropStash(arg)
				if err != nil {
					logs.Error("Failed to drop stash: %v", err)
					return err
				}
				if !ok {
					if arg != "" {
						return fmt.Errorf("stash '%s' does not exist", arg)
					}
					return fmt.Errorf("no stashes to drop")
				}
				fmt.Println("Dropped stash.")

			default:
				id, err := svc.CreateStash(arg)
				if err != nil {
					logs.Error("Failed to create stash: %v", err)
					return err
				}
				fmt.Printf("Created stash '%s'\n", id)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&list, "list", "l", false, "List all stashes")
	cmd.Flags().BoolVar(&apply, "apply", false, "Apply a stash without removing it")
	cmd.Flags().BoolVar(&pop, "pop", false, "Apply a stash and remove it from the stack")
	cmd.Flags().BoolVar(&drop, "drop", false, "Remove a stash without applying it")
	return cmd
}
