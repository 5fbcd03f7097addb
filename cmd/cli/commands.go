package main

import (
	"fmt"
	"os"
	"path/filepath"

	"datalens/internal/analysis"
	"datalens/internal/charts"
	"datalens/internal/cleaning"
	"datalens/internal/errors"

	"github.com/spf13/cobra"
)

func (c *cli) newDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe",
		Short: "Print count, mean, std, min, quartiles and max of every numeric column",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := c.loadTable(cmd.Context())
			if err != nil {
				return err
			}
			printStatistics(cmd.OutOrStdout(), analysis.Describe(tbl))
			return nil
		},
	}
}

func (c *cli) newMissingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "missing",
		Short: "Print the number of missing values per column",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := c.loadTable(cmd.Context())
			if err != nil {
				return err
			}
			printMissing(cmd.OutOrStdout(), analysis.CountMissing(tbl))
			return nil
		},
	}
}

func (c *cli) newCleanCmd() *cobra.Command {
	var (
		method    string
		value     string
		threshold string
	)

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Impute missing values, drop sparse columns and print the resulting reports",
		Long: `Impute missing values and drop columns below the drop threshold.

Example: datalens clean --file Pokemons.csv --fill-method mean --drop-threshold 80`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := cleaning.ParseParameters(method, value, threshold)
			if err != nil {
				return err
			}
			tbl, err := c.loadTable(cmd.Context())
			if err != nil {
				return err
			}

			cleaned, err := cleaning.Clean(tbl, params)
			if err != nil {
				if !errors.HasCode(err, errors.CodeInvalidParameter) {
					return err
				}
				c.logger.Warn("%v; imputation skipped", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Columns: %d -> %d (min required %d of %d rows)\n\n",
				len(tbl.Columns()), len(cleaned.Columns()),
				cleaning.MinRequired(params.DropThreshold, tbl.RowCount()), tbl.RowCount())
			printStatistics(out, analysis.Describe(cleaned))
			fmt.Fprintln(out)
			printMissing(out, analysis.CountMissing(cleaned))
			return nil
		},
	}

	cmd.Flags().StringVar(&method, "fill-method", "value", "value, mean or median")
	cmd.Flags().StringVar(&value, "fill-value", "", "fill text used by --fill-method value")
	cmd.Flags().StringVar(&threshold, "drop-threshold", "0", "percentage of rows a column must have present")
	return cmd
}

func (c *cli) newPlotCmd() *cobra.Command {
	var (
		x, y        string
		chartType   string
		output      string
		interactive string
	)

	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Render a histogram, bar_chart, scatter_plot or heatmap",
		Long: `Render a chart to the configured chart path (or --output).

Example: datalens plot --type scatter_plot -x Attack -y Speed`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ct, err := charts.ParseChartType(chartType)
			if err != nil {
				return err
			}
			tbl, err := c.loadTable(cmd.Context())
			if err != nil {
				return err
			}

			opts := charts.Options{
				OutputPath: c.cfg.Charts.OutputPath,
				Width:      c.cfg.Charts.Width,
				Height:     c.cfg.Charts.Height,
			}
			if output != "" {
				opts.OutputPath = output
			}
			renderer := charts.NewRenderer(opts, c.logger)

			if interactive != "" {
				return writeInteractive(cmd, interactive, func(f *os.File) error {
					return renderer.RenderInteractive(f, tbl, x, y, ct)
				})
			}

			artifact, err := renderer.Render(tbl, x, y, ct)
			if err != nil {
				if ct == charts.ScatterPlot && errors.HasCode(err, errors.CodeColumnNotFound) {
					fmt.Fprintln(cmd.OutOrStdout(), charts.MissingColumnsMessage)
					return nil
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s written to %s\n", artifact.Title, artifact.Path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&x, "x", "x", "", "column for the x axis (histogram, bar_chart, scatter_plot)")
	cmd.Flags().StringVarP(&y, "y", "y", "", "column for the y axis (scatter_plot)")
	cmd.Flags().StringVarP(&chartType, "type", "t", string(charts.Histogram), "histogram, bar_chart, scatter_plot or heatmap")
	cmd.Flags().StringVarP(&output, "output", "o", "", "PNG path (defaults to CHART_PATH)")
	cmd.Flags().StringVar(&interactive, "html", "", "write an interactive HTML chart to this path instead of a PNG")
	return cmd
}

func writeInteractive(cmd *cobra.Command, path string, render func(*os.File) error) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "failed to create output directory")
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	defer f.Close()

	if err := render(f); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ interactive chart written to %s\n", path)
	return nil
}

func (c *cli) newUploadCmd() *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:   "upload <path>",
		Short: "Store a local file in the configured bucket",
		Long: `Store a local file in the configured bucket under its base name (or --key),
overwriting any existing object.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := os.Open(path)
			if err != nil {
				return errors.Wrapf(err, "failed to open %s", path)
			}
			defer f.Close()
			info, err := f.Stat()
			if err != nil {
				return errors.Wrapf(err, "failed to stat %s", path)
			}

			if key == "" {
				key = filepath.Base(path)
			}

			store, closer, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closer.Close()

			bucket := c.cfg.Storage.Bucket
			if err := store.PutObject(cmd.Context(), bucket, key, f, info.Size()); err != nil {
				return errors.StorageError(bucket, key, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ uploaded %s to %s/%s (%d bytes)\n", path, bucket, key, info.Size())
			return nil
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "object key (defaults to the file's base name)")
	return cmd
}
