package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mlowery/cotag/internal/lookup"
)

var providersCmd = &cobra.Command{
	Use:     "providers",
	GroupID: GroupConfig,
	Short:   "List available identity providers",
	Long: `List the identity providers available in this environment.

The default provider is marked with an asterisk (*). The local provider
only appears when cotag runs inside a git repository.`,
	Args: cobra.NoArgs,
	RunE: runProviders,
}

func init() {
	rootCmd.AddCommand(providersCmd)
}

func runProviders(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := registerProviders(cfg, true); err != nil {
		return err
	}

	names := lookup.GetRegistry().List()
	sort.Strings(names)

	for _, name := range names {
		marker := "  "
		if name == cfg.Provider {
			marker = "* "
		}
		fmt.Printf("%s%s\n", marker, name)
	}
	return nil
}
