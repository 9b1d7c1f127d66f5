package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mlowery/cotag/internal/config"
	"github.com/mlowery/cotag/internal/style"
)

var configCmd = &cobra.Command{
	Use:     "config",
	GroupID: GroupConfig,
	Short:   "Manage cotag configuration",
	Long: `Manage cotag's configuration file.

Examples:
  cotag config path         # print the config file location
  cotag config init         # write a config file with the defaults`,
	RunE: requireSubcommand,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	RunE:  runConfigPath,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the defaults",
	Long: `Write the default configuration to the standard location so it can
be edited. Refuses to overwrite an existing file.`,
	RunE: runConfigInit,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	path, err := config.Path()
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path, err := config.Path()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists at %s", path)
	}
	if err := config.Save(path, config.Default()); err != nil {
		return err
	}
	fmt.Printf("%s Wrote %s\n", style.SuccessPrefix, path)
	return nil
}
