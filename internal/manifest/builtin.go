package manifest

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
)

//go:embed variants/*.yaml
var variantFS embed.FS

var (
	builtinOnce     sync.Once
	builtinVariants []*Variant
	builtinErr      error
)

// Builtin returns the variants embedded in the binary, sorted by name.
func Builtin() ([]*Variant, error) {
	builtinOnce.Do(func() {
		entries, err := fs.ReadDir(variantFS, "variants")
		if err != nil {
			builtinErr = fmt.Errorf("reading embedded variants: %w", err)
			return
		}
		for _, entry := range entries {
			if entry.IsDir() || path.Ext(entry.Name()) != ".yaml" {
				continue
			}
			data, err := variantFS.ReadFile(path.Join("variants", entry.Name()))
			if err != nil {
				builtinErr = fmt.Errorf("reading embedded variant %s: %w", entry.Name(), err)
				return
			}
			v, err := Load(data)
			if err != nil {
				builtinErr = fmt.Errorf("embedded variant %s: %w", entry.Name(), err)
				return
			}
			builtinVariants = append(builtinVariants, v)
		}
		sort.Slice(builtinVariants, func(i, j int) bool {
			return builtinVariants[i].Name < builtinVariants[j].Name
		})
	})
	return builtinVariants, builtinErr
}

// Lookup returns the built-in variant with the given name.
func Lookup(name string) (*Variant, error) {
	variants, err := Builtin()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(variants))
	for _, v := range variants {
		if v.Name == name {
			return v, nil
		}
		names = append(names, v.Name)
	}
	return nil, fmt.Errorf("unknown variant %q (available: %s)", name, strings.Join(names, ", "))
}
