package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/dataglance/internal/dataset"
	"github.com/KaramelBytes/dataglance/internal/utils"
	"github.com/spf13/cobra"
)

const defaultExportName = "processed_data"

var (
	expOutput string
	expXLSX   bool
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Load a dataset and write it back out as processed_data.csv (or .xlsx)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadFile(args[0])
		if err != nil {
			return err
		}
		out := expOutput
		asXLSX := expXLSX || strings.EqualFold(filepath.Ext(out), ".xlsx")
		if out == "" {
			out = defaultExportName + ".csv"
			if asXLSX {
				out = defaultExportName + ".xlsx"
			}
		}
		write := dataset.WriteCSV
		if asXLSX {
			write = dataset.WriteXLSX
		}
		if err := utils.WriteFileWith(out, func(w io.Writer) error { return write(w, t) }); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		rows, cols := t.Shape()
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d rows x %d columns to %s\n", rows, cols, out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&expOutput, "output", "o", "", "output path (default processed_data.csv)")
	exportCmd.Flags().BoolVar(&expXLSX, "xlsx", false, "write an XLSX workbook instead of CSV")
}
