package layout

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vovakirdan/ricochet/internal/tiles"
)

// Loader handles loading layouts from a directory.
type Loader struct {
	Root    string
	Catalog *tiles.Catalog
}

// NewLoader creates a new layout loader.
func NewLoader(root string) *Loader {
	return &Loader{Root: root, Catalog: tiles.Default()}
}

// LoadAll recursively scans and loads all layout files.
// Returns layouts sorted by name for deterministic ordering. Invalid files
// are reported in skipped rather than failing the scan.
func (l *Loader) LoadAll() (layouts []*Layout, skipped map[string]error, err error) {
	skipped = make(map[string]error)

	err = filepath.WalkDir(l.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isSupportedExtension(filepath.Ext(path)) {
			return nil
		}

		lay, err := l.LoadFile(path)
		if err != nil {
			skipped[path] = err
			return nil
		}
		layouts = append(layouts, lay)
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("walking directory %s: %w", l.Root, err)
	}

	sort.Slice(layouts, func(i, j int) bool {
		return layouts[i].Name < layouts[j].Name
	})
	return layouts, skipped, nil
}

// LoadFile loads a single layout file.
func (l *Loader) LoadFile(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	lay, err := Parse(data, l.Catalog)
	if err != nil {
		return nil, fmt.Errorf("parsing file %s: %w", path, err)
	}
	if lay.Name == "" {
		lay.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	lay.FilePath = path
	return lay, nil
}

// isSupportedExtension checks if extension is supported.
func isSupportedExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
