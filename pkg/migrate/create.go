package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const versionLayout = "20060102150405"

var nameSanitizeRe = regexp.MustCompile(`[^a-z0-9_]+`)

// SanitizeName lowercases name and folds anything outside [a-z0-9_] into underscores.
func SanitizeName(name string) string {
	safe := strings.ToLower(strings.TrimSpace(name))
	safe = nameSanitizeRe.ReplaceAllString(safe, "_")
	return strings.Trim(safe, "_")
}

// CreateSQLMigration writes an empty goose migration into dir and returns its path.
func CreateSQLMigration(dir string, name string) (string, error) {
	return createSQLMigration(dir, name, time.Now().UTC())
}

func createSQLMigration(dir, name string, now time.Time) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("dir is required")
	}
	safe := SanitizeName(name)
	if safe == "" {
		return "", fmt.Errorf("name %q results in empty sanitized filename", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %q: %w", dir, err)
	}

	version, err := nextVersion(dir, now)
	if err != nil {
		return "", err
	}
	fullpath := filepath.Join(dir, fmt.Sprintf("%s_%s.sql", version, safe))

	body := fmt.Sprintf("%s\n-- +goose StatementBegin\n-- %s\n-- +goose StatementEnd\n\n%s\n-- +goose StatementBegin\n-- rollback %s\n-- +goose StatementEnd\n",
		markerUp, safe, markerDown, safe)

	// O_EXCL so a concurrent create never clobbers a file.
	f, err := os.OpenFile(fullpath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create migration %q: %w", fullpath, err)
	}
	defer f.Close()
	if _, err := f.WriteString(body); err != nil {
		return "", fmt.Errorf("write migration %q: %w", fullpath, err)
	}
	return fullpath, nil
}

// nextVersion stamps now, bumped past the newest existing version so goose
// ordering holds even when two migrations are created in the same second.
func nextVersion(dir string, now time.Time) (string, error) {
	existing, err := ListMigrations(os.DirFS(dir), ".")
	if err != nil {
		return "", err
	}
	candidate := now.Format(versionLayout)
	if len(existing) == 0 {
		return candidate, nil
	}
	latest := existing[len(existing)-1].Version
	if candidate > latest {
		return candidate, nil
	}
	ts, err := time.Parse(versionLayout, latest)
	if err != nil {
		n, perr := strconv.ParseInt(latest, 10, 64)
		if perr != nil {
			return "", fmt.Errorf("parse version %q: %w", latest, err)
		}
		return strconv.FormatInt(n+1, 10), nil
	}
	return ts.Add(time.Second).Format(versionLayout), nil
}
