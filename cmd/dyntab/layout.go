package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"dyntab/internal/decl"
	"dyntab/internal/vtable"
)

var layoutCmd = &cobra.Command{
	Use:   "layout [flags] manifest.toml [trait...]",
	Short: "Show vtable layout templates",
	Long:  `Layout prints the slot-by-slot vtable template of each trait in a manifest`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLayout,
}

func init() {
	layoutCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

type layoutPayload struct {
	Trait string        `json:"trait"`
	Words int           `json:"words"`
	Bytes int           `json:"bytes"`
	Slots []slotPayload `json:"slots"`
}

type slotPayload struct {
	Index int    `json:"index"`
	Kind  string `json:"kind"`
	Trait string `json:"trait"`
	Sig   string `json:"sig,omitempty"`
}

func runLayout(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	m, err := loadManifest(args[0])
	if err != nil {
		return err
	}
	eng := vtable.New(m.Target, m.Traits)

	ids, err := selectTraits(m.Traits, args[1:])
	if err != nil {
		return err
	}

	payloads := make([]layoutPayload, 0, len(ids))
	for _, id := range ids {
		p, err := layoutOf(eng, id)
		if err != nil {
			return err
		}
		payloads = append(payloads, p)
	}

	switch format {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(payloads)
	case "pretty":
		colorFlag, _ := cmd.Root().PersistentFlags().GetString("color")
		renderLayoutsPretty(payloads, useColor(colorFlag, os.Stdout))
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func layoutOf(eng *vtable.Engine, id decl.TraitID) (layoutPayload, error) {
	l, err := eng.LayoutOf(id)
	if err != nil {
		return layoutPayload{}, err
	}
	p := layoutPayload{
		Trait: eng.Traits.NameOf(id),
		Words: l.Words(),
		Bytes: eng.Target.Bytes(l.Words()),
		Slots: make([]slotPayload, 0, len(l.Slots)),
	}
	for i, slot := range l.Slots {
		sp := slotPayload{
			Index: i,
			Kind:  slot.Kind.String(),
			Trait: eng.Traits.NameOf(slot.Trait),
		}
		if slot.Kind == vtable.SlotMethod {
			owner := eng.Traits.MustGet(slot.Trait)
			sp.Sig = eng.Traits.Strings.MustLookup(owner.Methods[slot.Method].Sig)
		}
		p.Slots = append(p.Slots, sp)
	}
	return p, nil
}

func renderLayoutsPretty(payloads []layoutPayload, colored bool) {
	title := color.New(color.FgCyan, color.Bold)
	kindStyle := color.New(color.FgYellow)
	if !colored {
		title.DisableColor()
		kindStyle.DisableColor()
	}
	for _, p := range payloads {
		title.Printf("%s", p.Trait)
		fmt.Printf("  (%d words, %d bytes)\n", p.Words, p.Bytes)
		for _, s := range p.Slots {
			fmt.Printf("  [%2d] %s", s.Index, kindStyle.Sprintf("%-6s", s.Kind))
			if s.Sig != "" {
				fmt.Printf(" %s::%s", s.Trait, s.Sig)
			} else {
				fmt.Printf(" %s", s.Trait)
			}
			fmt.Println()
		}
		fmt.Println()
	}
}

// selectTraits resolves names to IDs, or returns every trait in declaration
// order when no names are given.
func selectTraits(traits *decl.Traits, names []string) ([]decl.TraitID, error) {
	if len(names) == 0 {
		ids := make([]decl.TraitID, 0, traits.Len())
		traits.All(func(id decl.TraitID, _ *decl.Trait) bool {
			ids = append(ids, id)
			return true
		})
		return ids, nil
	}
	ids := make([]decl.TraitID, 0, len(names))
	for _, name := range names {
		id, ok := traits.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown trait %q", name)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
