package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"time"
)

// Dialects lists the migration subdirectories kept in step with each other
var Dialects = []string{"postgres", "sqlite"}

const migrationUpTemplate = `-- Migration: {{.Name}}
-- Created: {{.Timestamp}}
-- Description: {{.Description}}

-- Write your UP migration SQL here ({{.Dialect}})

`

const migrationDownTemplate = `-- Migration: {{.Name}} (Rollback)
-- Created: {{.Timestamp}}

-- Write your DOWN migration SQL here ({{.Dialect}})

`

// MigrationFile represents one generated up/down pair
type MigrationFile struct {
	Version     string
	Name        string
	Description string
	Timestamp   string
	Dialect     string
	UpPath      string
	DownPath    string
}

// CreateMigration creates the next numbered up/down pair in every dialect
// directory under migrationsRoot.
func CreateMigration(migrationsRoot, name, description string) ([]MigrationFile, error) {
	base := sanitizeName(name)
	if base == "" {
		return nil, fmt.Errorf("migration name %q has no usable characters", name)
	}

	version, err := NextVersion(migrationsRoot)
	if err != nil {
		return nil, err
	}
	timestamp := time.Now().Format(time.RFC3339)

	files := make([]MigrationFile, 0, len(Dialects))
	for _, dialect := range Dialects {
		dir := DialectPath(migrationsRoot, dialect)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create migrations directory: %w", err)
		}

		fileBase := fmt.Sprintf("%s_%s", version, base)
		mf := MigrationFile{
			Version:     version,
			Name:        name,
			Description: description,
			Timestamp:   timestamp,
			Dialect:     dialect,
			UpPath:      filepath.Join(dir, fileBase+".up.sql"),
			DownPath:    filepath.Join(dir, fileBase+".down.sql"),
		}

		if err := createMigrationFile(mf.UpPath, migrationUpTemplate, &mf); err != nil {
			return nil, fmt.Errorf("failed to create up migration: %w", err)
		}
		if err := createMigrationFile(mf.DownPath, migrationDownTemplate, &mf); err != nil {
			_ = os.Remove(mf.UpPath)
			return nil, fmt.Errorf("failed to create down migration: %w", err)
		}
		files = append(files, mf)
	}
	return files, nil
}

// NextVersion returns the six-digit version following the highest one found
// in any dialect directory.
func NextVersion(migrationsRoot string) (string, error) {
	highest := 0
	for _, dialect := range Dialects {
		names, err := ListMigrations(DialectPath(migrationsRoot, dialect))
		if err != nil {
			return "", err
		}
		for _, n := range names {
			prefix, _, _ := strings.Cut(n, "_")
			v, err := strconv.Atoi(prefix)
			if err != nil {
				continue
			}
			highest = max(highest, v)
		}
	}
	return fmt.Sprintf("%06d", highest+1), nil
}

func createMigrationFile(path, tmplContent string, data *MigrationFile) error {
	tmpl, err := template.New("migration").Parse(tmplContent)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer f.Close()

	if err := tmpl.Execute(f, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	return nil
}

// sanitizeName converts a migration name to a safe file name format
func sanitizeName(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, c := range strings.ToLower(name) {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(c)
		case c == ' ' || c == '-' || c == '_':
			pendingSep = true
		}
	}
	return b.String()
}

// ListMigrations returns the sorted base names of the up migrations in dir
func ListMigrations(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	migrations := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if base, ok := strings.CutSuffix(entry.Name(), ".up.sql"); ok {
			migrations = append(migrations, base)
		}
	}
	sort.Strings(migrations)
	return migrations, nil
}
