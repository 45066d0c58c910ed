package cmd

import (
	"bytes"
	"fmt"
	"io"

	"github.com/KaramelBytes/dataglance/internal/analysis"
	"github.com/KaramelBytes/dataglance/internal/dataset"
	"github.com/KaramelBytes/dataglance/internal/utils"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	descFormat     string
	descPreview    int
	descCorr       bool
	descOutputPath string
)

// describeResult is the JSON form of one described file.
type describeResult struct {
	File           string                  `json:"file"`
	Shape          [2]int                  `json:"shape"`
	Classification dataset.Classification  `json:"classification"`
	Preview        [][]string              `json:"preview,omitempty"`
	Summary        *analysis.SummaryReport `json:"summary"`
	Correlations   []analysis.PairCorr     `json:"correlations,omitempty"`
}

var describeCmd = &cobra.Command{
	Use:   "describe <files...>",
	Short: "Print shape, column classification and summary statistics of CSV/XLSX files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch descFormat {
		case "table", "markdown", "json":
		default:
			return fmt.Errorf("unsupported --format: %s (use table|markdown|json)", descFormat)
		}
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		preview := descPreview
		if !cmd.Flags().Changed("preview") && cfg != nil {
			preview = cfg.PreviewRows
		}

		var out bytes.Buffer
		var results []describeResult
		for i, path := range files {
			t, err := loadFile(path)
			if err != nil {
				return err
			}
			res := describeTable(t, preview)
			if descFormat == "json" {
				results = append(results, res)
				continue
			}
			if i > 0 {
				fmt.Fprintln(&out)
			}
			if descFormat == "markdown" {
				writeMarkdown(&out, t, res)
			} else {
				writeTables(&out, t, res)
			}
		}
		if descFormat == "json" {
			var payload interface{} = results
			if len(results) == 1 {
				payload = results[0]
			}
			b, err := utils.PrettyJSON(payload)
			if err != nil {
				return err
			}
			out.Write(b)
			out.WriteByte('\n')
		}

		// Decide where to write: --output path or stdout
		if descOutputPath != "" {
			if err := utils.SafeWriteFile(descOutputPath, out.Bytes()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote summary to %s\n", descOutputPath)
			return nil
		}
		_, err = out.WriteTo(cmd.OutOrStdout())
		return err
	},
}

func describeTable(t *dataset.Table, preview int) describeResult {
	rows, cols := t.Shape()
	res := describeResult{
		File:           t.Name(),
		Shape:          [2]int{rows, cols},
		Classification: dataset.Classify(t),
		Summary:        analysis.Describe(t),
	}
	if preview > 0 {
		res.Preview = t.Head(preview)
	}
	if descCorr {
		res.Correlations = analysis.Correlations(t).Pairs()
	}
	return res
}

func writeMarkdown(w io.Writer, t *dataset.Table, res describeResult) {
	fmt.Fprint(w, res.Summary.Markdown())
	fmt.Fprintf(w, "\n[COLUMNS]\nnumeric: %v\nnon-numeric: %v\n", res.Classification.Numeric, res.Classification.NonNumeric)
	if descCorr {
		fmt.Fprint(w, "\n"+analysis.Correlations(t).Markdown(0))
	}
}

func writeTables(w io.Writer, t *dataset.Table, res describeResult) {
	fmt.Fprintf(w, "File: %s\nShape: (%d, %d)\n", res.File, res.Shape[0], res.Shape[1])
	fmt.Fprintf(w, "Numeric: %v\nNon-numeric: %v\n", res.Classification.Numeric, res.Classification.NonNumeric)

	header := make(table.Row, 0, res.Shape[1]+1)
	for _, name := range t.ColumnNames() {
		header = append(header, name)
	}

	if len(res.Preview) > 0 {
		fmt.Fprintln(w, "\nPreview:")
		tw := table.NewWriter()
		tw.SetOutputMirror(w)
		tw.SetStyle(table.StyleLight)
		tw.AppendHeader(header)
		for _, rec := range res.Preview {
			row := make(table.Row, len(rec))
			for i, v := range rec {
				row[i] = v
			}
			tw.AppendRow(row)
		}
		tw.Render()
	}

	fmt.Fprintln(w, "\nSummary statistics:")
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(append(table.Row{""}, header...))
	for _, st := range res.Summary.Stats {
		row := table.Row{string(st)}
		for _, c := range res.Summary.Columns {
			row = append(row, c.Get(st).String())
		}
		tw.AppendRow(row)
	}
	tw.Render()

	if len(res.Correlations) > 0 {
		fmt.Fprintln(w, "\nCorrelations:")
		tw := table.NewWriter()
		tw.SetOutputMirror(w)
		tw.SetStyle(table.StyleLight)
		tw.AppendHeader(table.Row{"a", "b", "r"})
		for _, p := range res.Correlations {
			tw.AppendRow(table.Row{p.A, p.B, analysis.Number(p.R).String()})
		}
		tw.Render()
	}
}

func init() {
	rootCmd.AddCommand(describeCmd)
	describeCmd.Flags().StringVarP(&descFormat, "format", "f", "table", "output format: table|markdown|json")
	describeCmd.Flags().IntVar(&descPreview, "preview", 5, "number of preview rows (default from config preview_rows)")
	describeCmd.Flags().BoolVar(&descCorr, "correlations", false, "include Pearson correlation pairs among numeric columns")
	describeCmd.Flags().StringVarP(&descOutputPath, "output", "o", "", "optional path to write the summary instead of stdout")
}
