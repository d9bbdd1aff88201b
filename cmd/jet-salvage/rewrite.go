package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/jet-salvage/internal/report"
	"github.com/pdiddy/jet-salvage/internal/rewrite"
	"github.com/pdiddy/jet-salvage/pkg/types"
)

var rewriteCmd = &cobra.Command{
	Use:   "rewrite [input.csv]",
	Short: "Convert the fractional-day date column to readable timestamps",
	Long: `Rewrite reads a comma-separated file, copies the header row unchanged,
and replaces one column holding Access day counts (days since 1899-12-30,
with the fraction as time of day) by YYYY-MM-DD HH:MM:SS. Times are rounded
to the nearest second.

Any unparseable value aborts the run; the output file is then left exactly as
it was before. Progress is printed every --progress-every rows.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRewrite,
}

func init() {
	rewriteCmd.Flags().String("input", "output.csv", "input CSV (overridden by the positional argument)")
	rewriteCmd.Flags().Int("field", rewrite.DefaultField, "zero-based index of the date column")
	rewriteCmd.Flags().Int("progress-every", rewrite.DefaultProgressEvery, "rows between progress lines")
	addSinkFlags(rewriteCmd, "converted.csv")

	bindFlags("rewrite", rewriteCmd, append([]string{"input", "field", "progress-every"}, sinkFlags...)...)

	rootCmd.AddCommand(rewriteCmd)
}

func runRewrite(cmd *cobra.Command, args []string) error {
	sc, err := sinkConfig("rewrite")
	if err != nil {
		return err
	}
	cfg := types.RewriteConfig{
		SinkConfig:    sc,
		InputPath:     inputPath("rewrite", args),
		Field:         viper.GetInt("rewrite.field"),
		ProgressEvery: viper.GetInt("rewrite.progress-every"),
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	cmd.SilenceUsage = true

	reportPath := viper.GetString("rewrite.report")
	rep := report.Start("rewrite", cfg.InputPath, cfg.SinkConfig)

	result, err := rewrite.Rewrite(cfg, cmd.OutOrStdout())
	finishReport(reportPath, rep, result.Rows, 0, err)
	if err != nil {
		return fmt.Errorf("rewrite failed: %w", err)
	}
	return nil
}
