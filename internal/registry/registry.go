// Package registry provides a global registry of match layouts.
// Built-in layouts register themselves in init(); directories of layout
// files can be added at runtime, allowing the CLI and servers to discover
// maps without hardcoded lists.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/ricochet/internal/layout"
)

// Source tells where a registered layout came from.
type Source string

const (
	SourceBuiltin Source = "builtin"
	SourceFile    Source = "file"
)

// Info contains metadata about a registered layout.
type Info struct {
	Name    string
	Title   string
	Players int
	Size    string
	Source  Source
	Path    string
}

// Factory produces a fresh layout.
type Factory func() (*layout.Layout, error)

type entry struct {
	factory Factory
	info    Info
}

var (
	entries = make(map[string]entry)
	mu      sync.RWMutex
)

func init() {
	for _, name := range layout.BuiltinNames() {
		Register(name, SourceBuiltin, func() (*layout.Layout, error) {
			return layout.Builtin(name)
		})
	}
}

// Register adds a layout factory to the registry.
// Panics if a layout with the same name is already registered, or if the
// factory fails.
func Register(name string, src Source, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := entries[name]; exists {
		panic(fmt.Sprintf("registry: layout %q already registered", name))
	}

	// Get metadata by building a temporary instance
	l, err := f()
	if err != nil {
		panic(fmt.Sprintf("registry: layout %q: %v", name, err))
	}
	entries[name] = entry{factory: f, info: infoOf(name, src, l)}
}

// RegisterDir loads every layout file under root. Files whose name is
// already registered are skipped. It returns the names added and the files
// that failed to load.
func RegisterDir(root string) ([]string, map[string]error, error) {
	layouts, skipped, err := layout.NewLoader(root).LoadAll()
	if err != nil {
		return nil, nil, err
	}

	mu.Lock()
	defer mu.Unlock()

	var added []string
	for _, l := range layouts {
		if _, exists := entries[l.Name]; exists {
			skipped[l.FilePath] = fmt.Errorf("registry: layout %q already registered", l.Name)
			continue
		}
		path := l.FilePath
		entries[l.Name] = entry{
			factory: func() (*layout.Layout, error) {
				return layout.NewLoader("").LoadFile(path)
			},
			info: infoOf(l.Name, SourceFile, l),
		}
		added = append(added, l.Name)
	}
	return added, skipped, nil
}

func infoOf(name string, src Source, l *layout.Layout) Info {
	return Info{
		Name:    name,
		Title:   l.Title,
		Players: len(l.Players),
		Size:    fmt.Sprintf("%dx%d", l.Width, l.Height),
		Source:  src,
		Path:    l.FilePath,
	}
}

// List returns information about all registered layouts, sorted by name.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Info, 0, len(entries))
	for _, e := range entries {
		result = append(result, e.info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// Create builds a layout by its name.
// Returns an error if the name is not registered.
func Create(name string) (*layout.Layout, error) {
	mu.RLock()
	e, ok := entries[name]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown layout %q", name)
	}
	return e.factory()
}

// Exists checks if a layout with the given name is registered.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := entries[name]
	return ok
}
