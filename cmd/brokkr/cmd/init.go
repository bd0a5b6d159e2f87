package cmd

import (
	"github.com/spf13/cobra"

	"github.com/brokkr-io/brokkr/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Bootstrap a configuration file",
	Long: `Init writes a configuration file with a freshly generated API key.
An existing configuration is left untouched.

Example:
  brokkr init --config ./brokkr.yaml --data-dir ./data`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		dataDir, _ := cmd.Flags().GetString("data-dir")
		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}

		if config.ConfigExists(configPath) {
			cmd.Printf("Configuration already exists at %s\n", configPath)
			return nil
		}

		cfg, err := config.BootstrapConfig(configPath, dataDir)
		if err != nil {
			return err
		}

		cmd.Printf("Wrote %s\n", configPath)
		cmd.Printf("API key: %s\n", cfg.APIKey)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().String("config", "", "Path for the new config file")
}
