package migrate

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"regexp"
	"sort"
	"strings"
)

const (
	markerUp   = "-- +goose Up"
	markerDown = "-- +goose Down"
)

var migrationFileRe = regexp.MustCompile(`^(\d{14})_([a-z0-9_]+)\.sql$`)

// Migration is one goose SQL file found in a migrations directory.
type Migration struct {
	Version string
	Name    string
	File    string
}

// ValidateDir checks the migrations under dir on disk.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}
	_, err := ListMigrations(os.DirFS(dir), ".")
	return err
}

// ValidateEmbedded checks the migrations compiled into the binary.
func ValidateEmbedded() error {
	_, err := ListEmbedded()
	return err
}

func ListEmbedded() ([]Migration, error) {
	return ListMigrations(embedded, embeddedDir)
}

// ListMigrations returns the migrations under dir ordered by version. Every
// file must follow YYYYMMDDHHMMSS_name.sql, carry goose Up and Down markers
// in that order, and hold a unique version.
func ListMigrations(fsys fs.FS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %q: %w", dir, err)
	}

	seen := make(map[string]string, len(entries))
	out := make([]Migration, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		file := e.Name()
		m := migrationFileRe.FindStringSubmatch(file)
		if m == nil {
			return nil, fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", file)
		}
		if prev, ok := seen[m[1]]; ok {
			return nil, fmt.Errorf("duplicate migration version %s in %q and %q", m[1], prev, file)
		}
		seen[m[1]] = file

		body, err := fs.ReadFile(fsys, path.Join(dir, file))
		if err != nil {
			return nil, fmt.Errorf("read file %q: %w", file, err)
		}
		if err := checkMarkers(string(body)); err != nil {
			return nil, fmt.Errorf("migration %q: %w", file, err)
		}
		out = append(out, Migration{Version: m[1], Name: m[2], File: file})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

func checkMarkers(txt string) error {
	up := strings.Index(txt, markerUp)
	if up < 0 {
		return fmt.Errorf("missing %q", markerUp)
	}
	down := strings.Index(txt, markerDown)
	if down < 0 {
		return fmt.Errorf("missing %q", markerDown)
	}
	if down < up {
		return fmt.Errorf("%q must come before %q", markerUp, markerDown)
	}
	return nil
}
