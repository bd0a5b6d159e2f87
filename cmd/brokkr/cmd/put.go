package cmd

import (
	"github.com/spf13/cobra"
)

// putCmd represents the put command
var putCmd = &cobra.Command{
	Use:   "put <key> <value>",
	Short: "Put a key-value pair",
	Long: `Put a key-value pair into the record store.

Example:
  brokkr put mykey myvalue`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kv, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer kv.Close()

		if err := kv.Put([]byte(args[0]), []byte(args[1])); err != nil {
			return err
		}

		cmd.Printf("Stored key '%s'\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(putCmd)
}
