package main

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"dyntab/internal/decl"
	"dyntab/internal/typedb"
	"dyntab/internal/vtable"
)

// manifestConfig is the on-disk shape of a hierarchy manifest: trait
// declarations in canonical (file) order plus the implementing types to
// materialize. It stands in for the declaration resolver and the
// type/implementation database when running offline.
type manifestConfig struct {
	Target string        `toml:"target"`
	Traits []traitConfig `toml:"trait"`
	Types  []typeConfig  `toml:"type"`
}

type traitConfig struct {
	Name       string         `toml:"name"`
	Supers     []string       `toml:"supers"`
	ObjectSafe *bool          `toml:"object_safe"`
	Methods    []methodConfig `toml:"method"`
}

type methodConfig struct {
	Name string `toml:"name"`
	Sig  string `toml:"sig"`
}

type typeConfig struct {
	Name       string          `toml:"name"`
	Dtor       string          `toml:"dtor"`
	Size       uint64          `toml:"size"`
	Align      uint64          `toml:"align"`
	Implements []string        `toml:"implements"`
	Bindings   []bindingConfig `toml:"binding"`
}

type bindingConfig struct {
	Trait  string `toml:"trait"`
	Sig    string `toml:"sig"`
	Symbol string `toml:"symbol"`
}

type manifest struct {
	Path   string
	Traits *decl.Traits
	DB     *typedb.DB
	Target vtable.Target
}

func loadManifest(path string) (*manifest, error) {
	var cfg manifestConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read manifest %q: %w", path, err)
	}

	decls := make([]decl.TraitDecl, 0, len(cfg.Traits))
	for _, tc := range cfg.Traits {
		d := decl.TraitDecl{
			Name:       tc.Name,
			Supers:     tc.Supers,
			ObjectSafe: true,
		}
		if tc.ObjectSafe != nil {
			d.ObjectSafe = *tc.ObjectSafe
		}
		for _, mc := range tc.Methods {
			sig := mc.Sig
			if sig == "" {
				sig = mc.Name
			}
			d.Methods = append(d.Methods, decl.MethodDecl{Name: mc.Name, Sig: sig})
		}
		decls = append(decls, d)
	}
	traits, err := decl.Ingest(decls)
	if err != nil {
		return nil, fmt.Errorf("invalid declarations in %q: %w", path, err)
	}

	db := typedb.New()
	for _, tc := range cfg.Types {
		info := &typedb.TypeInfo{
			Name:       tc.Name,
			Dtor:       tc.Dtor,
			Size:       tc.Size,
			Align:      tc.Align,
			Implements: tc.Implements,
			Bindings:   make(map[string]map[string]string, len(tc.Bindings)),
		}
		for _, bc := range tc.Bindings {
			if info.Bindings[bc.Trait] == nil {
				info.Bindings[bc.Trait] = make(map[string]string, 4)
			}
			info.Bindings[bc.Trait][bc.Sig] = bc.Symbol
		}
		db.Add(info)
	}

	target := vtable.X86_64LinuxGNU()
	if cfg.Target != "" && cfg.Target != target.Triple {
		return nil, fmt.Errorf("unsupported target %q (only %q)", cfg.Target, target.Triple)
	}

	return &manifest{
		Path:   path,
		Traits: traits,
		DB:     db,
		Target: target,
	}, nil
}
