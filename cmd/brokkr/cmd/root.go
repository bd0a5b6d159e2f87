package cmd

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/brokkr-io/brokkr/pkg/store"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "brokkr",
	Short: "Brokkr - MessagePack codec and record store",
	Long: `Brokkr packs Go values into MessagePack-compatible bytes and keeps
packed records in an append-only log with an in-memory key index.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("data-dir", "d", "./data", "Data directory for the store")
}

var errMissingAPIKey = errors.New("an API key is required; pass --api-key or run 'brokkr init' first")

// openStore opens the record store under the command's data directory.
func openStore(cmd *cobra.Command) (*store.KVStore, error) {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	return openStoreAt(cmd, dataDir, 0)
}

func openStoreAt(cmd *cobra.Command, dataDir string, fsyncInterval time.Duration) (*store.KVStore, error) {
	kv, err := store.NewKVStore(store.KVStoreConfig{
		DataDir:       dataDir,
		FsyncInterval: fsyncInterval,
	})
	if err != nil {
		return nil, err
	}

	recovery, err := kv.Open()
	if err != nil {
		return nil, err
	}
	if recovery.RecordsTruncated {
		cmd.Printf("Recovered from corruption: log truncated to %d bytes\n", recovery.FileSizeAfter)
	}
	return kv, nil
}
