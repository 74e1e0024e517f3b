package seed

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yml
var builtinPresets []byte

type presetFile struct {
	Presets map[string]Options `yaml:"presets"`
}

// ParsePresets decodes a YAML document with a top-level presets map and
// validates every entry.
func ParsePresets(data []byte) (map[string]Options, error) {
	var file presetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse presets: %w", err)
	}
	if len(file.Presets) == 0 {
		return nil, fmt.Errorf("parse presets: no presets defined")
	}
	for name, opts := range file.Presets {
		if err := opts.Validate(); err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
	}
	return file.Presets, nil
}

// BuiltinPresets returns the presets shipped with the binary.
func BuiltinPresets() (map[string]Options, error) {
	return ParsePresets(builtinPresets)
}

// LookupPreset returns the named preset from presets.
func LookupPreset(presets map[string]Options, name string) (Options, error) {
	opts, ok := presets[name]
	if !ok {
		names := make([]string, 0, len(presets))
		for n := range presets {
			names = append(names, n)
		}
		sort.Strings(names)
		return Options{}, fmt.Errorf("unknown preset %q (available: %v)", name, names)
	}
	return opts, nil
}
