package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"dyntab/internal/vtable"
)

var offsetsCmd = &cobra.Command{
	Use:   "offsets [flags] manifest.toml trait",
	Short: "Show upcast offsets for a trait",
	Long:  `Offsets prints the constant slot and byte offset to every ancestor embedded in a trait's vtable`,
	Args:  cobra.ExactArgs(2),
	RunE:  runOffsets,
}

func init() {
	offsetsCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

type offsetPayload struct {
	Ancestor string `json:"ancestor"`
	Slots    int    `json:"slots"`
	Bytes    int    `json:"bytes"`
}

func runOffsets(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	m, err := loadManifest(args[0])
	if err != nil {
		return err
	}
	eng := vtable.New(m.Target, m.Traits)

	id, ok := m.Traits.Lookup(args[1])
	if !ok {
		return fmt.Errorf("unknown trait %q", args[1])
	}

	ancestors, err := eng.Ancestors(id)
	if err != nil {
		return err
	}

	payloads := make([]offsetPayload, 0, len(ancestors))
	for _, ancestor := range ancestors {
		slots, err := eng.Offset(id, ancestor)
		if err != nil {
			return err
		}
		payloads = append(payloads, offsetPayload{
			Ancestor: m.Traits.NameOf(ancestor),
			Slots:    slots,
			Bytes:    eng.Target.Bytes(slots),
		})
	}
	sort.Slice(payloads, func(i, j int) bool {
		if payloads[i].Slots != payloads[j].Slots {
			return payloads[i].Slots < payloads[j].Slots
		}
		return payloads[i].Ancestor < payloads[j].Ancestor
	})

	switch format {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(payloads)
	case "pretty":
		colorFlag, _ := cmd.Root().PersistentFlags().GetString("color")
		title := color.New(color.FgCyan, color.Bold)
		if !useColor(colorFlag, os.Stdout) {
			title.DisableColor()
		}
		title.Printf("%s", m.Traits.NameOf(id))
		fmt.Println(" upcast offsets:")
		for _, p := range payloads {
			fmt.Printf("  -> %-20s +%d slots (+%d bytes)\n", p.Ancestor, p.Slots, p.Bytes)
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
