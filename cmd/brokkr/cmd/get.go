package cmd

import (
	"github.com/spf13/cobra"
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get the value for a key",
	Long: `Get the latest value for a key from the record store.

Example:
  brokkr get mykey`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kv, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer kv.Close()

		value, err := kv.Get([]byte(args[0]))
		if err != nil {
			return err
		}

		cmd.Println(string(value))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}
