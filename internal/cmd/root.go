// Package cmd implements the cotag command-line interface.
package cmd

import (
	"github.com/spf13/cobra"
)

// Version is the build version, stamped by the release process.
var Version = "dev"

// Command group IDs for help output.
const (
	// GroupWork holds the day-to-day tagging commands.
	GroupWork = "work"

	// GroupConfig holds configuration and introspection commands.
	GroupConfig = "config"
)

var rootCmd = &cobra.Command{
	Use:   "cotag",
	Short: "Tag commit co-authors from the terminal",
	Long: `cotag tags commit co-authors the way GitHub understands them.

Type usernames into an interactive token field; each one resolves against
an identity provider (GitHub, or your repository's own history) to a name
and email. Confirmed co-authors are written as Co-Authored-By trailers,
either printed for pasting or amended straight onto HEAD.

Examples:
  cotag tag                 # pick co-authors, print the trailers
  cotag tag --amend         # pick co-authors, amend them onto HEAD
  cotag show HEAD~2         # list the co-authors of a commit`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupWork, Title: "Work Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// requireSubcommand is the RunE for commands that only group subcommands.
func requireSubcommand(cmd *cobra.Command, args []string) error {
	return cmd.Help()
}
