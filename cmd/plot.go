package cmd

import (
	"errors"
	"fmt"

	"github.com/KaramelBytes/dataglance/internal/dataset"
	"github.com/KaramelBytes/dataglance/internal/render"
	"github.com/KaramelBytes/dataglance/internal/utils"
	"github.com/spf13/cobra"
)

var (
	plotKind   string
	plotX      string
	plotY      string
	plotColumn string
	plotOutput string
	plotWidth  int
	plotHeight int
)

var plotCmd = &cobra.Command{
	Use:   "plot <file>",
	Short: "Render a scatter plot, correlation heatmap or bar chart to PNG",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadFile(args[0])
		if err != nil {
			return err
		}
		opt := render.Options{Width: plotWidth, Height: plotHeight}
		if cfg != nil {
			if !cmd.Flags().Changed("width") {
				opt.Width = cfg.ChartWidth
			}
			if !cmd.Flags().Changed("height") {
				opt.Height = cfg.ChartHeight
			}
		}

		x, y, column := plotX, plotY, plotColumn
		cls := dataset.Classify(t)
		if n := len(cls.Numeric); n > 0 {
			if x == "" {
				x = cls.Numeric[0]
			}
			if y == "" {
				y = cls.Numeric[min(1, n-1)]
			}
		}
		if column == "" && len(cls.NonNumeric) > 0 {
			column = cls.NonNumeric[0]
		}

		var img *render.Image
		switch plotKind {
		case render.ChartScatter:
			img, err = render.Scatter(t, x, y, opt)
		case render.ChartHeatmap:
			img, err = render.CorrelationHeatmap(t, opt)
		case render.ChartBar:
			img, err = render.CategoricalBarChart(t, column, opt)
		default:
			return fmt.Errorf("unsupported --kind: %s (use scatter|heatmap|bar)", plotKind)
		}
		if errors.Is(err, render.ErrUnavailable) {
			// informational, not a failure
			fmt.Fprintf(cmd.OutOrStdout(), "⚠ %v\n", err)
			return nil
		}
		if err != nil {
			return err
		}

		out := plotOutput
		if out == "" {
			out = plotKind + ".png"
		}
		if err := utils.SafeWriteFile(out, img.PNG); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s (%dx%d) to %s\n", img.Title, img.Width, img.Height, out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(plotCmd)
	plotCmd.Flags().StringVarP(&plotKind, "kind", "k", "", "chart kind: scatter|heatmap|bar")
	plotCmd.Flags().StringVar(&plotX, "x", "", "scatter: numeric column for the X axis")
	plotCmd.Flags().StringVar(&plotY, "y", "", "scatter: numeric column for the Y axis")
	plotCmd.Flags().StringVar(&plotColumn, "column", "", "bar: categorical column")
	plotCmd.Flags().StringVarP(&plotOutput, "output", "o", "", "output PNG path (default <kind>.png)")
	plotCmd.Flags().IntVar(&plotWidth, "width", 640, "chart width in pixels (default from config chart_width)")
	plotCmd.Flags().IntVar(&plotHeight, "height", 480, "chart height in pixels (default from config chart_height)")
	_ = plotCmd.MarkFlagRequired("kind")
}
