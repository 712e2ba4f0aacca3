// Package main provides the varhab command-line tool.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "varhab",
		Short:         "Build and query a local variant annotation database",
		Long:          "varhab imports population frequency sources and SV caller output into a local DuckDB annotation database, normalizing all variants against a reference FASTA.",
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cobra.OnInitialize(initConfig)

	cmd.AddCommand(newInitDbCmd())
	cmd.AddCommand(newSvGenotypesCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// initConfig loads ~/.varhab.yaml and VARHAB_* environment overrides.
func initConfig() {
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
	}
	viper.SetConfigName(".varhab")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("VARHAB")
	viper.AutomaticEnv()

	// Missing config file is fine; defaults apply.
	_ = viper.ReadInConfig()
}

// newLogger builds the console logger handed to all components.
func newLogger() *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.OutputPaths = []string{"stderr"}
	logger, err := cfg.Build()
	if err != nil {
		// Fall back to a no-op logger rather than failing the run over
		// logging setup.
		return zap.NewNop()
	}
	return logger
}

// configFilePath returns the path the config command writes to.
func configFilePath() (string, error) {
	if cfgFile := viper.ConfigFileUsed(); cfgFile != "" {
		return cfgFile, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".varhab.yaml"), nil
}
