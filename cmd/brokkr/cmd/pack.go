package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/brokkr-io/brokkr/pkg/msgpack"
	"github.com/brokkr-io/brokkr/pkg/source"
	"github.com/brokkr-io/brokkr/pkg/store"
)

// packCmd represents the pack command
var packCmd = &cobra.Command{
	Use:   "pack <csv-file> <out-log>",
	Short: "Pack CSV rows into a record log",
	Long: `Pack encodes every row of a CSV file and appends it to a record
log. Each row becomes one record: the key is the row number (or the value
of --key-column when given) and the value is the packed row.

Example:
  brokkr pack inventory.csv inventory.log --header --key-column sku`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		hasHeader, _ := cmd.Flags().GetBool("header")
		keyColumn, _ := cmd.Flags().GetString("key-column")

		docs, err := source.ReadCSVFile(args[0], hasHeader)
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		keyIndex := -1
		if keyColumn != "" {
			if !hasHeader {
				return fmt.Errorf("--key-column requires --header")
			}
			header, err := readHeader(args[0])
			if err != nil {
				return err
			}
			for i, name := range header {
				if name == keyColumn {
					keyIndex = i
					break
				}
			}
			if keyIndex < 0 {
				return fmt.Errorf("column %q not found in header", keyColumn)
			}
		}

		writer, err := store.NewLogWriter(store.LogWriterConfig{
			FilePath: filepath.Clean(args[1]),
		})
		if err != nil {
			return err
		}
		defer writer.Close()

		for i, doc := range docs {
			packed, err := msgpack.Pack(doc)
			if err != nil {
				return fmt.Errorf("packing row %d: %w", i+1, err)
			}

			key := fmt.Sprintf("%d", i+1)
			if keyIndex >= 0 && keyIndex < len(doc.Fields) {
				key = doc.Fields[keyIndex]
			}

			if _, err := writer.Put([]byte(key), packed); err != nil {
				return fmt.Errorf("appending row %d: %w", i+1, err)
			}
		}

		cmd.Printf("Packed %d rows into %s\n", len(docs), args[1])
		return nil
	},
}

func readHeader(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader, err := source.NewCSVReader(f, true)
	if err != nil {
		return nil, err
	}
	return reader.Header(), nil
}

func init() {
	rootCmd.AddCommand(packCmd)
	packCmd.Flags().Bool("header", false, "Treat the first CSV row as a header")
	packCmd.Flags().String("key-column", "", "Column whose value keys each record")
}
