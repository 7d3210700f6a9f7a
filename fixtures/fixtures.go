// Package fixtures embeds the expected-output JSON documents used as test
// oracles for serialized Caliper events.
package fixtures

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed *.json
var files embed.FS

// Load returns the fixture at name. Both "fixtures/<file>.json" and
// "<file>.json" are accepted.
func Load(name string) ([]byte, error) {
	clean := strings.TrimPrefix(path.Clean(name), "fixtures/")
	data, err := files.ReadFile(clean)
	if err != nil {
		return nil, fmt.Errorf("loading fixture %s: %w", name, err)
	}
	return data, nil
}

// MustLoad is like Load but panics on error. Use it in tests only.
func MustLoad(name string) []byte {
	data, err := Load(name)
	if err != nil {
		panic(err)
	}
	return data
}

// Names lists the embedded fixtures.
func Names() []string {
	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}
