package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/jet-salvage/internal/jet"
	"github.com/pdiddy/jet-salvage/internal/report"
	"github.com/pdiddy/jet-salvage/pkg/types"
)

var recoverCmd = &cobra.Command{
	Use:   "recover <database.mdb>",
	Short: "Extract table rows from the raw pages of a Jet4 database",
	Long: `Recover scans every 4096-byte page of a Jet4 .mdb file, keeps the data
pages that belong to the table definition page named by the layout, and
decodes their rows without reading the (possibly destroyed) catalog.

The column layout comes from --layout (a YAML file) or from the built-in
layout ` + jet.DefaultLayout + `. Available built-in layouts: ` + strings.Join(jet.BuiltinLayoutNames(), ", ") + `.

The DateTime column is written in its native day-count form; run rewrite on
the result to turn it into timestamps.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRecover,
}

func init() {
	recoverCmd.Flags().String("input", "", "database file (overridden by the positional argument)")
	recoverCmd.Flags().String("layout", "", "YAML table layout (default: built-in "+jet.DefaultLayout+")")
	recoverCmd.Flags().Uint32("tdef-page", 0, "override the layout's table definition page")
	recoverCmd.Flags().Bool("keep-going", false, "skip malformed rows (hex dump on stderr) instead of aborting")
	addSinkFlags(recoverCmd, "output.csv")

	bindFlags("recover", recoverCmd, append([]string{"input", "layout", "tdef-page", "keep-going"}, sinkFlags...)...)

	rootCmd.AddCommand(recoverCmd)
}

func runRecover(cmd *cobra.Command, args []string) error {
	sc, err := sinkConfig("recover")
	if err != nil {
		return err
	}
	cfg := types.RecoverConfig{
		SinkConfig: sc,
		InputPath:  inputPath("recover", args),
		LayoutPath: viper.GetString("recover.layout"),
		TdefPage:   viper.GetUint32("recover.tdef-page"),
		KeepGoing:  viper.GetBool("recover.keep-going"),
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	cmd.SilenceUsage = true

	reportPath := viper.GetString("recover.report")
	rep := report.Start("recover", cfg.InputPath, cfg.SinkConfig)

	result, err := jet.Recover(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
	finishReport(reportPath, rep, result.Rows, result.Skipped, err)
	if err != nil {
		if jet.IsRowError(err) {
			return fmt.Errorf("recover failed: %w (use --keep-going to skip malformed rows)", err)
		}
		return fmt.Errorf("recover failed: %w", err)
	}
	if result.Skipped > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: skipped %d malformed row(s)\n", result.Skipped)
	}
	return nil
}
