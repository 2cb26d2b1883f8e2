// Package store persists estate snapshots as JSON files. The engine itself
// has no storage dependency; this is one caller-chosen persistence layer,
// kept deliberately plain.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mwhardin/probata/internal/rules"
	"github.com/mwhardin/probata/internal/workflow"
)

type Store struct {
	dir string
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

// Save writes the engine's snapshot to the store directory and returns the
// file path. Filenames are derived from the decedent name and export date.
func (s *Store) Save(eng *workflow.Engine) (string, error) {
	data, err := eng.ExportJSON()
	if err != nil {
		return "", fmt.Errorf("export snapshot: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating store directory: %w", err)
	}

	snap := eng.Export()
	name := fmt.Sprintf("%s_%s.json",
		sanitize(snap.Estate.DecedentName),
		snap.ExportedAt.Format("20060102"),
	)
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing snapshot: %w", err)
	}

	return path, nil
}

// Load restores an engine from a snapshot file.
func (s *Store) Load(path string, table *rules.Table) (*workflow.Engine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	return workflow.RestoreJSON(data, table)
}

// List returns the snapshot files in the store directory, newest name last.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("reading store directory: %w", err)
	}

	var out []string

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}

		out = append(out, filepath.Join(s.dir, e.Name()))
	}

	sort.Strings(out)

	return out, nil
}

func sanitize(name string) string {
	mapped := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}

		return '_'
	}, name)

	if mapped == "" {
		return "estate"
	}

	return mapped
}
