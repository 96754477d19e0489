package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hexlane/commitlog/pkg/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a sample configuration file",
	Long: `Write a configuration file with default values.

Examples:
  # Write to the default location
  commitlog init

  # Write to a custom path
  commitlog init --config ./commitlog.yaml`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		path = config.GetDefaultConfigPath()
	}

	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
	}

	cfg := config.GetDefaultConfig()
	if err := config.SaveConfig(cfg, path); err != nil {
		return err
	}

	fmt.Printf("Configuration written to %s\n", path)
	return nil
}
