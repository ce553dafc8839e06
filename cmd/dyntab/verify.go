package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"dyntab/internal/export"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [flags] artifact-a artifact-b",
	Short: "Check two units' layout artifacts for agreement",
	Long:  `Verify compares the persisted layout descriptions of two compilation units; shared traits must have identical shapes`,
	Args:  cobra.ExactArgs(2),
	RunE:  runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	a, ok, err := export.Read(args[0])
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no artifact at %q", args[0])
	}
	b, ok, err := export.Read(args[1])
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no artifact at %q", args[1])
	}

	colorFlag, _ := cmd.Root().PersistentFlags().GetString("color")
	okStyle := color.New(color.FgGreen, color.Bold)
	if !useColor(colorFlag, os.Stdout) {
		okStyle.DisableColor()
	}

	if err := export.Verify(a, b); err != nil {
		return err
	}
	okStyle.Println("layouts agree")
	return nil
}
