package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"dyntab/internal/driver"
	"dyntab/internal/export"
	"dyntab/internal/observ"
	"dyntab/internal/vtable"
)

var materializeCmd = &cobra.Command{
	Use:   "materialize [flags] manifest.toml",
	Short: "Materialize concrete vtables for every type in a manifest",
	Long:  `Materialize binds layout templates to every implementing type and reports the resulting vtables`,
	Args:  cobra.ExactArgs(1),
	RunE:  runMaterialize,
}

func init() {
	materializeCmd.Flags().Int("jobs", 0, "parallel workers (0 = GOMAXPROCS)")
	materializeCmd.Flags().String("emit", "", "write the unit's layout artifact to this path")
	materializeCmd.Flags().Bool("ui", false, "interactive progress display")
}

func runMaterialize(cmd *cobra.Command, args []string) error {
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	emitPath, _ := cmd.Flags().GetString("emit")
	withUI, _ := cmd.Flags().GetBool("ui")
	showTimings, _ := cmd.Root().PersistentFlags().GetBool("timings")
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	colorFlag, _ := cmd.Root().PersistentFlags().GetString("color")

	timer := observ.NewTimer()

	phase := timer.Begin("load manifest")
	m, err := loadManifest(args[0])
	if err != nil {
		return err
	}
	timer.End(phase, fmt.Sprintf("%d traits, %d types", m.Traits.Len(), len(m.DB.TypeNames())))

	eng := vtable.New(m.Target, m.Traits)
	ctx := context.Background()

	phase = timer.Begin("materialize")
	var results []driver.TypeResult
	if withUI && isTerminal(os.Stdout) {
		results, err = runMaterializeWithUI(ctx, "materializing vtables", eng, m, jobs)
	} else {
		results, err = driver.MaterializeAll(ctx, eng, m.DB, jobs, nil)
	}
	if err != nil {
		return err
	}
	timer.End(phase, fmt.Sprintf("%d types", len(results)))

	failed := 0
	okStyle := color.New(color.FgGreen)
	errStyle := color.New(color.FgRed)
	if !useColor(colorFlag, os.Stdout) {
		okStyle.DisableColor()
		errStyle.DisableColor()
	}
	for _, res := range results {
		if res.Err != nil {
			failed++
			errStyle.Printf("  %s: %v\n", res.Type, res.Err)
			continue
		}
		if quiet {
			continue
		}
		totalWords := 0
		for _, vt := range res.Vtables {
			totalWords += vt.Words()
		}
		okStyle.Printf("  %s", res.Type)
		fmt.Printf(": %d vtables, %d words total\n", len(res.Vtables), totalWords)
	}

	if emitPath != "" {
		phase = timer.Begin("emit artifact")
		artifact, err := export.Describe(eng)
		if err != nil {
			return err
		}
		if err := export.Write(emitPath, artifact); err != nil {
			return fmt.Errorf("failed to write artifact: %w", err)
		}
		timer.End(phase, emitPath)
	}

	if showTimings {
		fmt.Fprint(os.Stderr, timer.Summary())
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d types failed", failed, len(results))
	}
	return nil
}
