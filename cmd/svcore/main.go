package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"svcore/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "svcore",
	Short: "SystemVerilog value and type layout tools",
	Long: `svcore computes storage layouts of SystemVerilog integral types, packs bit
literals into storage words and checks declaration files describing typedefs,
enums and other data types.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupRun,
}

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(layoutCmd)
	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile of check to this file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile after check to this file")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a runtime trace of check to this file")
	rootCmd.PersistentFlags().String("log-level", "off", "debug log level written to stderr (off|debug|info|warn|error)")
}

// main executes the root command and exits with status 1 on any error,
// including files that produced error diagnostics.
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
