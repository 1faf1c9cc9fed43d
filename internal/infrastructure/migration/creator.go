package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Pair is a matching up/down migration file pair
type Pair struct {
	Version  uint64
	Base     string
	UpPath   string
	DownPath string
}

// Create writes an empty up/down pair under dir, numbered after the
// highest existing migration. Names are lowercased and squeezed to
// underscore-separated words so the pair sorts and reads like the
// existing files.
func Create(dir, name string) (*Pair, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create migrations directory: %w", err)
	}

	slug := slugify(name)
	if slug == "" {
		return nil, fmt.Errorf("migration name %q has no usable characters", name)
	}

	version, err := nextVersion(dir)
	if err != nil {
		return nil, err
	}

	base := fmt.Sprintf("%06d_%s", version, slug)
	pair := &Pair{
		Version:  version,
		Base:     base,
		UpPath:   filepath.Join(dir, base+".up.sql"),
		DownPath: filepath.Join(dir, base+".down.sql"),
	}

	up := fmt.Sprintf("-- %s\n\n", strings.ReplaceAll(slug, "_", " "))
	down := fmt.Sprintf("-- revert %s\n\n", strings.ReplaceAll(slug, "_", " "))

	if err := os.WriteFile(pair.UpPath, []byte(up), 0644); err != nil {
		return nil, fmt.Errorf("write up migration: %w", err)
	}
	if err := os.WriteFile(pair.DownPath, []byte(down), 0644); err != nil {
		_ = os.Remove(pair.UpPath)
		return nil, fmt.Errorf("write down migration: %w", err)
	}
	return pair, nil
}

// List returns the base names of the up migrations in dir, sorted by
// version. A missing directory lists as empty.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("read migrations directory: %w", err)
	}

	bases := make([]string, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if base, ok := strings.CutSuffix(entry.Name(), ".up.sql"); ok {
			bases = append(bases, base)
		}
	}
	sort.Strings(bases)
	return bases, nil
}

// nextVersion returns one past the highest version found in dir
func nextVersion(dir string) (uint64, error) {
	bases, err := List(dir)
	if err != nil {
		return 0, err
	}
	var highest uint64
	for _, base := range bases {
		prefix, _, found := strings.Cut(base, "_")
		if !found {
			continue
		}
		v, err := strconv.ParseUint(prefix, 10, 64)
		if err != nil {
			continue
		}
		if v > highest {
			highest = v
		}
	}
	return highest + 1, nil
}

// slugify lowercases the name and collapses separators to single
// underscores, dropping anything that is not alphanumeric
func slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			s := b.String()
			if len(s) > 0 && !strings.HasSuffix(s, "_") {
				b.WriteRune('_')
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
