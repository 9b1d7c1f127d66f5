package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mlowery/cotag/internal/git"
	"github.com/mlowery/cotag/internal/style"
)

var showCmd = &cobra.Command{
	Use:     "show [ref]",
	GroupID: GroupWork,
	Short:   "List the co-authors of a commit",
	Long: `List the Co-Authored-By trailers of a commit (HEAD by default).

Examples:
  cotag show
  cotag show HEAD~2
  cotag show v1.4.0`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	ref := "HEAD"
	if len(args) == 1 {
		ref = args[0]
	}

	repo, err := git.TopLevel("")
	if err != nil {
		return err
	}
	message, err := git.MessageOf(repo, ref)
	if err != nil {
		return err
	}

	coAuthors := git.ParseCoAuthors(message)
	if len(coAuthors) == 0 {
		fmt.Printf("%s has no co-authors.\n", ref)
		return nil
	}

	fmt.Printf("Co-authors of %s:\n", style.Bold.Render(ref))
	for _, s := range coAuthors {
		fmt.Printf("  %s\n", s)
	}
	return nil
}
