package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"dyntab/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "dyntab",
	Short: "Trait-object vtable layout toolchain",
	Long:  `dyntab computes vtable layouts, upcast offsets and materialized vtables for trait hierarchies`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(layoutCmd)
	rootCmd.AddCommand(offsetsCmd)
	rootCmd.AddCommand(materializeCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func useColor(colorFlag string, f *os.File) bool {
	return colorFlag == "on" || (colorFlag == "auto" && isTerminal(f))
}
