// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the jet-salvage CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the jet-salvage CLI.
var rootCmd = &cobra.Command{
	Use:   "jet-salvage",
	Short: "Recover table rows from damaged Access databases",
	Long: `jet-salvage rescues tabular data from Jet4 (.mdb) database files whose
catalog pages are destroyed.

The recover subcommand scans raw pages and extracts the rows of one table
into a CSV file. The rewrite subcommand then turns the fractional-day
DateTime column of that file into YYYY-MM-DD HH:MM:SS timestamps.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: jet-salvage.yaml in . or ~/.config/jet-salvage)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("jet-salvage")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "jet-salvage"))
		}
	}

	viper.SetEnvPrefix("JET_SALVAGE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
