package main

import (
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/jet-salvage/internal/report"
	"github.com/pdiddy/jet-salvage/pkg/types"
)

// bindFlags exposes each named flag of cmd as the viper key "<section>.<flag>",
// so values can also come from the config file or JET_SALVAGE_* variables.
func bindFlags(section string, cmd *cobra.Command, names ...string) {
	for _, name := range names {
		if err := viper.BindPFlag(section+"."+name, cmd.Flags().Lookup(name)); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", name, err))
		}
	}
}

// addSinkFlags registers the output flags shared by rewrite and recover.
func addSinkFlags(cmd *cobra.Command, defaultOutput string) {
	cmd.Flags().StringP("output", "o", defaultOutput, "output file, replaced only when the run succeeds")
	cmd.Flags().String("format", "", "output format: csv, sqlite, or xlsx (default: from output extension)")
	cmd.Flags().String("delimiter", ",", "CSV field delimiter")
	cmd.Flags().String("table", "rows", "table name for sqlite output")
	cmd.Flags().String("sheet", "Sheet1", "worksheet name for xlsx output")
	cmd.Flags().String("report", "", "write a YAML run report to this path")
}

var sinkFlags = []string{"output", "format", "delimiter", "table", "sheet", "report"}

// sinkConfig reads the shared output settings for section.
func sinkConfig(section string) (types.SinkConfig, error) {
	format, err := types.ParseOutputFormat(viper.GetString(section + ".format"))
	if err != nil {
		return types.SinkConfig{}, err
	}
	delim, err := parseDelimiter(viper.GetString(section + ".delimiter"))
	if err != nil {
		return types.SinkConfig{}, err
	}
	return types.SinkConfig{
		OutputPath: viper.GetString(section + ".output"),
		Format:     format,
		Delimiter:  delim,
		Table:      viper.GetString(section + ".table"),
		Sheet:      viper.GetString(section + ".sheet"),
	}, nil
}

// parseDelimiter accepts a single character, or the words "tab" and "\t".
func parseDelimiter(s string) (rune, error) {
	switch s {
	case "tab", `\t`:
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if s == "" || size != len(s) {
		return 0, fmt.Errorf("delimiter must be a single character: %q", s)
	}
	return r, nil
}

// inputPath prefers the positional argument over the configured value.
func inputPath(section string, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return viper.GetString(section + ".input")
}

// finishReport completes rep and writes it when a report path is set. A
// failure to write the report is only a warning so it never hides runErr.
func finishReport(path string, rep *types.RunReport, rows, skipped int, runErr error) {
	if path == "" {
		return
	}
	report.Finish(rep, rows, skipped, runErr)
	if err := report.Write(path, rep); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
}
