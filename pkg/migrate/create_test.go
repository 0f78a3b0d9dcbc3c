package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestCreateSQLMigrationBumpsSameSecondVersion(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 11, 2, 9, 0, 0, 0, time.UTC)

	first, err := createSQLMigration(dir, "first", now)
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	second, err := createSQLMigration(dir, "second", now)
	if err != nil {
		t.Fatalf("second create: %v", err)
	}

	if filepath.Base(first) != "20251102090000_first.sql" {
		t.Fatalf("unexpected first file %s", first)
	}
	if filepath.Base(second) != "20251102090001_second.sql" {
		t.Fatalf("unexpected second file %s", second)
	}

	list, err := ListMigrations(os.DirFS(dir), ".")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Name != "first" || list[1].Name != "second" {
		t.Fatalf("unexpected listing %+v", list)
	}
}

func TestCreateSQLMigrationRejectsEmptyName(t *testing.T) {
	if _, err := CreateSQLMigration(t.TempDir(), "!!!"); err == nil {
		t.Fatal("expected error for name without usable characters")
	}
}

func TestValidateEmbedded(t *testing.T) {
	if err := ValidateEmbedded(); err != nil {
		t.Fatalf("embedded migrations invalid: %v", err)
	}
}

func TestValidateDirRejectsBadFiles(t *testing.T) {
	cases := map[string]struct {
		file string
		body string
		want string
	}{
		"bad name":        {file: "add_notes.sql", body: markerUp + "\n" + markerDown, want: "invalid migration filename"},
		"missing down":    {file: "20250101000000_notes.sql", body: markerUp, want: "missing"},
		"markers swapped": {file: "20250101000000_notes.sql", body: markerDown + "\n" + markerUp, want: "must come before"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			if err := os.WriteFile(filepath.Join(dir, tc.file), []byte(tc.body), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			err := ValidateDir(dir)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestListEmbeddedIsOrdered(t *testing.T) {
	list, err := ListEmbedded()
	if err != nil {
		t.Fatalf("list embedded: %v", err)
	}
	if len(list) < 2 || list[0].Name != "create_billing_invoices" || list[1].Name != "create_billing_invoice_lines" {
		t.Fatalf("unexpected embedded migrations %+v", list)
	}
}
