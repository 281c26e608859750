package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/smartop/internal/config"
	"github.com/katalvlaran/smartop/internal/logging"
	"github.com/katalvlaran/smartop/matrix"
)

// app carries the state shared by every command.
type app struct {
	out io.Writer
	cfg config.Config
	log logging.Logger

	configPath string
	logLevel   string
	factory    string
	engine     string
	policy     string
	adapter    string
	workers    []string
	format     string
	output     string
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}
	root := &cobra.Command{
		Use:           "smartop",
		Short:         "Sparse linear algebra on pluggable matrix representations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML configuration file")
	pf.StringVar(&a.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&a.factory, "factory", matrix.FactoryRowMap, "matrix representation: "+strings.Join(matrix.FactoryNames(), ", "))
	pf.StringVar(&a.engine, "engine", config.EngineLocal, "computation engine (serial, local, distributed)")
	pf.StringVar(&a.policy, "policy", "rowsparseness", "task-splitting policy (static, rowsparseness, variance)")
	pf.StringVar(&a.adapter, "adapter", config.AdapterLocal, "distribution adapter for the distributed engine (local, http, mpi)")
	pf.StringSliceVar(&a.workers, "workers", nil, "worker base URLs for the http adapter")
	pf.StringVar(&a.format, "format", "triplet", "output CSV format (dense, triplet)")
	pf.StringVarP(&a.output, "output", "o", "", "output file (default stdout)")

	root.AddCommand(
		a.binaryCmd("add", "A + B"),
		a.binaryCmd("subtract", "A − B"),
		a.binaryCmd("multiply", "A × B"),
		a.transposeCmd(),
		a.scaleCmd(),
		a.invertCmd(),
		a.laplacianCmd(),
		a.statsCmd(),
		a.generateCmd(),
		a.graphCmd(),
		a.workerCmd(),
	)

	return root
}

// setup loads the configuration and overlays the flags the user set.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if flags.Changed("factory") {
		cfg.Factory = a.factory
	}
	if flags.Changed("engine") {
		cfg.Engine = a.engine
	}
	if flags.Changed("policy") {
		cfg.Policy = a.policy
	}
	if flags.Changed("adapter") {
		cfg.Adapter = a.adapter
	}
	if flags.Changed("workers") {
		cfg.Workers = a.workers
	}
	if err = cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logging.NewLogger(os.Stderr, "smartop", cfg.LogLevel)

	return nil
}

// factoryFor resolves the configured representation.
func (a *app) factoryFor() (matrix.Factory, error) {
	return matrix.FactoryByName(a.cfg.Factory, a.cfg.ThreadMultiplier, a.cfg.MatrixOptions()...)
}

// load reads every path with the configured factory.
func (a *app) load(paths ...string) ([]matrix.Matrix, error) {
	f, err := a.factoryFor()
	if err != nil {
		return nil, err
	}
	out := make([]matrix.Matrix, len(paths))
	for i, p := range paths {
		if out[i], err = matrix.Load(f, p); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// emit writes m to --output or stdout in --format.
func (a *app) emit(m matrix.Matrix) error {
	format, err := matrix.ParseFormat(a.format)
	if err != nil {
		return err
	}
	if a.output != "" {
		if err = matrix.Save(m, a.output, format); err != nil {
			return err
		}
		a.log.Info("result written", logging.String("path", a.output), logging.Int("nnz", m.NonZeros()))
		return nil
	}

	return matrix.WriteCSV(a.out, m, format)
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
