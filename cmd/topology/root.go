package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ekisa-team/topology/internal/config"
	"github.com/ekisa-team/topology/internal/env"
	"github.com/ekisa-team/topology/internal/logger"
	"github.com/ekisa-team/topology/internal/topology"
)

// app carries the state shared by all subcommands of one invocation.
type app struct {
	configPath string
	schemaPath string
	logLevel   string
	logToFile  bool
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "topology",
		Short:         "Load, query and save hardware topology documents",
		Long:          `topology keeps hardware topology documents (components and the netlist connecting them) in memory and answers device queries over them.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", filepath.Join(config.DefaultConfigPath(), "config.yaml"),
		"path to config file")
	rootCmd.PersistentFlags().StringVar(&a.schemaPath, "schema", "",
		"path to config schema file (default: embedded schema)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "",
		"log level: debug, info, warn or error (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&a.logToFile, "log-to-file", false,
		"also write logs to the rotated file set in config")

	rootCmd.AddCommand(
		newServeCmd(a),
		newInspectCmd(a),
		newExportCmd(a),
	)

	return rootCmd
}

// init loads the config and installs the default logger.
func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath, a.schemaPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := cfg.Log.Level
	if a.logLevel != "" {
		level = a.logLevel
	}

	slog.SetDefault(
		logger.New(env.FromEnv(),
			logger.WithConsole(cmd.ErrOrStderr()),
			logger.WithLevel(logger.ParseLevel(level)),
			logger.WithLogToFile(a.logToFile),
			logger.WithLogFile(cfg.Log.File),
		),
	)

	return nil
}

// newRegistry builds a registry from the loaded config.
func (a *app) newRegistry() *topology.Registry {
	return topology.NewRegistry(
		topology.WithOutputDir(a.cfg.Storage.OutputDir),
		topology.WithRejectDuplicates(a.cfg.Registry.RejectDuplicates),
		topology.WithIndent(a.cfg.Storage.Indent),
	)
}

// loadPaths loads each file, or every *.json inside each directory, into registry.
func loadPaths(ctx context.Context, registry *topology.Registry, paths []string) error {
	var errs []error
	for _, path := range paths {
		info, err := os.Stat(path)
		if err == nil && info.IsDir() {
			n, err := registry.LoadDir(ctx, path)
			slog.Info("Topology directory loaded", "dir", path, "count", n)
			if err != nil {
				errs = append(errs, err)
			}
			continue
		}

		if _, err := registry.Load(ctx, path); err != nil {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("failed to load topologies: %w", err)
	}

	return nil
}
