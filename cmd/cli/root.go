package main

import (
	"context"
	"io"
	"os"

	"datalens/adapters/storage"
	"datalens/domain/table"
	"datalens/internal"
	"datalens/internal/config"
	"datalens/internal/dataset"
	"datalens/internal/errors"
	"datalens/ports"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// cli holds state shared by every subcommand
type cli struct {
	cfgFile   string
	localFile string
	debug     bool

	cfg    *config.Config
	logger *internal.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "datalens",
		Short:         "Inspect, clean and plot a tabular dataset from the terminal",
		Long:          `datalens runs the same analysis as the web app against the configured object store, or against a local CSV/XLSX file with --file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&c.cfgFile, "config", "", "YAML config file layered under the environment")
	f.StringVarP(&c.localFile, "file", "f", "", "read a local CSV/XLSX file instead of the object store")
	f.BoolVar(&c.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		c.newDescribeCmd(),
		c.newMissingCmd(),
		c.newCleanCmd(),
		c.newPlotCmd(),
		c.newUploadCmd(),
	)
	return root
}

func (c *cli) loadConfig() error {
	// Non-fatal: a .env file is optional
	_ = godotenv.Load()

	cfg, err := config.LoadFile(c.cfgFile)
	if err != nil {
		return err
	}
	c.cfg = cfg

	level := internal.ParseLogLevel(cfg.LogLevel)
	if c.debug {
		level = internal.LogLevelDebug
	}
	c.logger = internal.NewLogger(level).With("CLI")
	return nil
}

// openStore opens the configured backend. Callers close the returned closer.
func (c *cli) openStore(ctx context.Context) (ports.ObjectStore, io.Closer, error) {
	return storage.Open(ctx, c.cfg.Storage)
}

// loadTable reads --file when given, otherwise the configured dataset object
func (c *cli) loadTable(ctx context.Context) (*table.Table, error) {
	if c.localFile != "" {
		f, err := os.Open(c.localFile)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to open %s", c.localFile)
		}
		defer f.Close()
		return dataset.Parse(c.localFile, f)
	}

	store, closer, err := c.openStore(ctx)
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	return dataset.NewLoader(store, c.logger).Load(ctx, c.cfg.Storage.Bucket, c.cfg.Storage.DatasetKey)
}
