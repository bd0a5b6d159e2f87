package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/brokkr-io/brokkr/pkg/msgpack"
	"github.com/brokkr-io/brokkr/pkg/source"
	"github.com/brokkr-io/brokkr/pkg/store"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Transcode a packed file to JSON",
	Long: `Inspect memory-maps a file and prints its contents as JSON.

With --log the file is treated as a record log: each frame's key is printed
alongside its transcoded value. Otherwise the whole file is decoded as a
single packed value.

Examples:
  brokkr inspect payload.bin
  brokkr inspect inventory.log --log`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asLog, _ := cmd.Flags().GetBool("log")
		if asLog {
			return inspectLog(cmd, args[0])
		}
		return inspectValue(cmd, args[0])
	},
}

func inspectValue(cmd *cobra.Command, path string) error {
	span, err := source.OpenSpan(path)
	if err != nil {
		return err
	}
	defer span.Close()

	value, err := msgpack.UnpackValue(span.Bytes())
	if err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}

	return printJSON(cmd, value)
}

func inspectLog(cmd *cobra.Command, path string) error {
	reader, err := store.NewLogReader(store.LogReaderConfig{FilePath: path})
	if err != nil {
		return err
	}
	defer reader.Close()

	for {
		rec, err := reader.ReadNext()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		value, err := msgpack.UnpackValue(rec.Value)
		if err != nil {
			// Not every record value is packed data; show it raw.
			value = string(rec.Value)
		}
		entry := map[string]any{"key": string(rec.Key), "value": value}
		if err := printJSON(cmd, entry); err != nil {
			return err
		}
	}
}

func printJSON(cmd *cobra.Command, value any) error {
	out, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(out))
	return nil
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().Bool("log", false, "Treat the file as a record log")
}
