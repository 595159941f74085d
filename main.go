package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/montrey/runa/config"
	"github.com/montrey/runa/controller"
)

var (
	configPath string
	verbose    bool
	scriptDir  string
)

var rootCmd = &cobra.Command{
	Use:           "runa",
	Short:         "Fuzzy launcher for applications, scripts and stdin lines",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(controller.ModeApplications)
	},
}

var appsCmd = &cobra.Command{
	Use:   "apps",
	Short: "Launch an installed desktop application",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(controller.ModeApplications)
	},
}

var scriptsCmd = &cobra.Command{
	Use:   "scripts",
	Short: "Run an executable from the scripts directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(controller.ModeScripts)
	},
}

var dmenuCmd = &cobra.Command{
	Use:   "dmenu",
	Short: "Pick one of the lines read from stdin and print it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(controller.ModeStdin)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/runa/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	scriptsCmd.Flags().StringVar(&scriptDir, "script-dir", "", "directory of scripts (default $XDG_CONFIG_HOME/runa/scripts)")

	rootCmd.AddCommand(appsCmd, scriptsCmd, dmenuCmd)
}

// setupLogging writes to the log file in the cache directory. If the file
// cannot be opened, logs are dropped; the UI owns the terminal.
func setupLogging(path string, debug bool) (*slog.Logger, io.Closer) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err == nil {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err == nil {
			return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})), f
		}
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil)), io.NopCloser(nil)
}

func run(mode controller.Mode) error {
	paths := config.DefaultPaths()
	logger, closer := setupLogging(paths.LogFile(), verbose)
	defer closer.Close()
	slog.SetDefault(logger)

	path := configPath
	if path == "" {
		path = paths.ConfigFile()
	}
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return err
	}

	return runSession(mode, cfg, paths, logger)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "runa: %v\n", err)
		os.Exit(1)
	}
}
