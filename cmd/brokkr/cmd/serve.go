package cmd

import (
	"github.com/spf13/cobra"

	"github.com/brokkr-io/brokkr/pkg/api"
	"github.com/brokkr-io/brokkr/pkg/config"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start the brokkr REST API server.

Configuration is read from --config when given; flags override file values.

Examples:
  brokkr serve --api-key=mysecretkey --port=8080
  brokkr serve --config ~/.config/brokkr/config.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.DefaultConfig()

		if configPath, _ := cmd.Flags().GetString("config"); configPath != "" {
			loaded, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
		}

		if cmd.Flags().Changed("port") {
			cfg.Port, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("bind") {
			cfg.Bind, _ = cmd.Flags().GetString("bind")
		}
		if cmd.Flags().Changed("api-key") {
			cfg.APIKey, _ = cmd.Flags().GetString("api-key")
		}
		if cmd.Flags().Changed("data-dir") {
			cfg.DataDir, _ = cmd.Flags().GetString("data-dir")
		}

		if cfg.APIKey == "" || cfg.APIKey == "auto" {
			return errMissingAPIKey
		}

		kv, err := openStoreAt(cmd, cfg.DataDir, cfg.FsyncInterval)
		if err != nil {
			return err
		}
		defer kv.Close()

		return api.StartServer(kv, api.ServerConfig{
			Port:    cfg.Port,
			Bind:    cfg.Bind,
			APIKey:  cfg.APIKey,
			DataDir: cfg.DataDir,
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().String("bind", "127.0.0.1", "Address to bind to")
	serveCmd.Flags().String("api-key", "", "API key for authentication")
	serveCmd.Flags().String("config", "", "Path to a YAML config file")
}
