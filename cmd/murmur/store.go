package main

import (
	"fmt"
	"path/filepath"

	"github.com/fwojciec/murmur"
	murmurjson "github.com/fwojciec/murmur/json"
	"github.com/fwojciec/murmur/sqlite"
)

// openStore opens the settings store of the given kind under dir. The
// returned func releases it.
func openStore(kind, dir string) (murmur.KeyValueStore, func() error, error) {
	switch kind {
	case "", "json":
		return murmurjson.NewStore(filepath.Join(dir, "settings.json")), func() error { return nil }, nil
	case "sqlite":
		s, err := sqlite.Open(filepath.Join(dir, "murmur.db"))
		if err != nil {
			return nil, nil, fmt.Errorf("open store: %w", err)
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("store %q: %w: must be \"json\" or \"sqlite\"", kind, errUnknownOption)
	}
}
