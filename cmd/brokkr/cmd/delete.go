package cmd

import (
	"github.com/spf13/cobra"
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "Delete a key",
	Long: `Delete a key from the record store by appending a tombstone.

Example:
  brokkr delete mykey`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kv, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer kv.Close()

		if err := kv.Delete([]byte(args[0])); err != nil {
			return err
		}

		cmd.Printf("Deleted key '%s'\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
