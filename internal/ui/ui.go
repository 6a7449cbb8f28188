package ui

import (
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"rewind/internal/model"
)

var (
	heading   = color.New(color.FgCyan, color.Bold).SprintFunc()
	current   = color.New(color.FgGreen, color.Bold).SprintFunc()
	dim       = color.New(color.Faint).SprintFunc()
	attention = color.New(color.FgYellow).SprintFunc()
)

// ColorHeadings colorizes the section headings of a cobra usage template.
func ColorHeadings(tpl string) string {
	for _, h := range []string{
		"Usage:", "Aliases:", "Examples:", "Available Commands:",
		"Flags:", "Global Flags:", "Additional help topics:",
	} {
		tpl = strings.ReplaceAll(tpl, h, heading(h))
	}
	return tpl
}

// Confirm asks a yes/no question on the terminal.
func Confirm(message string, defaultYes bool) (bool, error) {
	var answer bool
	prompt := &survey.Confirm{Message: message, Default: defaultYes}
	if err := survey.AskOne(prompt, &answer); err != nil {
		return false, err
	}
	return answer, nil
}

// RenderBranches formats the branch list; the current branch is marked
// with an asterisk.
func RenderBranches(branches []model.BranchSummary) string {
	if len(branches) == 0 {
		return "No branches found."
	}

	table := uitable.New()
	table.MaxColWidth = 50
	table.AddRow("", heading("BRANCH"), heading("SNAPSHOTS"), heading("CREATED"), heading("DESCRIPTION"))
	for _, b := range branches {
		marker := " "
		name := b.Name
		if b.Current {
			marker = current("*")
			name = current(b.Name)
		}
		table.AddRow(marker, name, fmt.Sprintf("%d", b.Snapshots), dim(b.Created), b.Description)
	}
	return table.String()
}

// RenderSnapshots formats a branch history, oldest first.
func RenderSnapshots(branch string, snapshots []model.Snapshot) string {
	if len(snapshots) == 0 {
		return fmt.Sprintf("No snapshots found in branch '%s'.", branch)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", heading(fmt.Sprintf("Snapshots in branch '%s':", branch)))
	for _, snap := range snapshots {
		markers := ""
		if snap.Auto {
			markers += dim(" (auto)")
		}
		switch snap.Kind() {
		case model.KindRestore:
			markers += attention(" [RESTORE]")
		case model.KindStashApply:
			markers += attention(" [STASH]")
		}
		fmt.Fprintf(&b, "  %s%s\n", snap.ID, markers)
		fmt.Fprintf(&b, "    Message: %s\n", snap.Message)
		fmt.Fprintf(&b, "    Time:    %s\n", dim(snap.Timestamp))
		if snap.Kind() == model.KindRestore {
			fmt.Fprintf(&b, "    Restored from: %s\n", snap.RestoredFrom)
		}
	}
	return b.String()
}

// RenderStashes formats the stash stack, oldest first.
func RenderStashes(stashes []model.Stash) string {
	if len(stashes) == 0 {
		return "No stashes found."
	}

	table := uitable.New()
	table.MaxColWidth = 50
	table.AddRow(heading("STASH"), heading("BRANCH"), heading("CREATED"), heading("MESSAGE"))
	for _, s := range stashes {
		table.AddRow(s.ID, s.Branch, dim(s.Timestamp), s.Message)
	}
	return table.String()
}

// RenderSnapshotInfo formats the detail view of a single snapshot.
func RenderSnapshotInfo(snap *model.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", heading(fmt.Sprintf("Snapshot %s", snap.ID)))
	fmt.Fprintf(&b, "  Branch:  %s\n", snap.Branch)
	fmt.Fprintf(&b, "  Message: %s\n", snap.Message)
	fmt.Fprintf(&b, "  Time:    %s\n", snap.Timestamp)
	fmt.Fprintf(&b, "  Auto:    %v\n", snap.Auto)
	switch snap.Kind() {
	case model.KindRestore:
		fmt.Fprintf(&b, "  Restored from: %s (branch '%s')\n", snap.RestoredFrom, snap.SourceBranch)
		if snap.PreRestoreSnapshot != "" {
			fmt.Fprintf(&b, "  Safety snapshot: %s\n", snap.PreRestoreSnapshot)
		}
	case model.KindStashApply:
		fmt.Fprintf(&b, "  Stash applied: %s\n", snap.StashApplied)
	}
	return b.String()
}
