package layout

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"
)

//go:embed maps/*.yaml
var builtinFS embed.FS

// DefaultName is the built-in layout used when none is named.
const DefaultName = "duel"

// BuiltinNames returns the names of the embedded layouts, sorted.
func BuiltinNames() []string {
	entries, err := builtinFS.ReadDir("maps")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	sort.Strings(names)
	return names
}

// Builtin parses an embedded layout against the default catalog.
func Builtin(name string) (*Layout, error) {
	data, err := builtinFS.ReadFile("maps/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("layout: unknown built-in %q", name)
	}
	return Parse(data, nil)
}

// BuiltinSource returns the raw YAML of an embedded layout.
func BuiltinSource(name string) ([]byte, bool) {
	data, err := builtinFS.ReadFile("maps/" + name + ".yaml")
	return data, err == nil
}
