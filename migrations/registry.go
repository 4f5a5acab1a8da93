package migrations

import (
	"context"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	rmw "github.com/goliatone/go-rmw"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"

	defaultSourceLabel = "go-rmw"
	migrationsPath     = "data/sql/migrations"
)

type FilesystemSpec struct {
	Dialect string
	Path    string
	FS      fs.FS
}

type Registration struct {
	SourceLabel       string
	ValidationTargets []string
	Filesystems       []FilesystemSpec
}

type RegisterFunc func(ctx context.Context, dialect string, sourceLabel string, fsys fs.FS) error

type Option func(*Registration)

func WithSourceLabel(label string) Option {
	return func(r *Registration) {
		if trimmed := strings.TrimSpace(label); trimmed != "" {
			r.SourceLabel = trimmed
		}
	}
}

// WithValidationTargets limits registration to the given dialects.
func WithValidationTargets(targets ...string) Option {
	return func(r *Registration) {
		if next := dedupe(targets); len(next) > 0 {
			r.ValidationTargets = next
		}
	}
}

// DialectForDriver maps a database/sql driver name to a migration dialect.
func DialectForDriver(driver string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "sqlite", "sqlite3":
		return DialectSQLite, nil
	case "postgres", "pgx", "pq":
		return DialectPostgres, nil
	default:
		return "", fmt.Errorf("migrations: unsupported driver %q", driver)
	}
}

// Filesystems splits the embedded tree (or root, when given) into the
// postgres and sqlite migration sets.
func Filesystems(root ...fs.FS) ([]FilesystemSpec, error) {
	source := rmw.GetMigrationsFS()
	if len(root) > 0 && root[0] != nil {
		source = root[0]
	}
	base, err := fs.Sub(source, migrationsPath)
	if err != nil {
		return nil, fmt.Errorf("migrations: resolve %s: %w", migrationsPath, err)
	}
	sqliteFS, err := fs.Sub(base, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("migrations: resolve sqlite filesystem: %w", err)
	}

	filesystems := []FilesystemSpec{
		{Dialect: DialectPostgres, Path: migrationsPath, FS: base},
		{Dialect: DialectSQLite, Path: migrationsPath + "/sqlite", FS: sqliteFS},
	}
	for _, spec := range filesystems {
		matches, globErr := fs.Glob(spec.FS, "*.up.sql")
		if globErr != nil {
			return nil, fmt.Errorf("migrations: glob %s %s: %w", spec.Dialect, spec.Path, globErr)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("migrations: %s filesystem %q has no *.up.sql files", spec.Dialect, spec.Path)
		}
	}
	return filesystems, nil
}

// Register hands every targeted dialect filesystem to registerFn.
func Register(ctx context.Context, registerFn RegisterFunc, opts ...Option) (Registration, error) {
	reg := Registration{
		SourceLabel:       defaultSourceLabel,
		ValidationTargets: []string{DialectPostgres, DialectSQLite},
	}
	filesystems, err := Filesystems()
	if err != nil {
		return reg, err
	}
	reg.Filesystems = filesystems

	for _, opt := range opts {
		if opt != nil {
			opt(&reg)
		}
	}
	if registerFn == nil {
		return reg, fmt.Errorf("migrations: register function is required")
	}

	for _, spec := range reg.Filesystems {
		if !slices.Contains(reg.ValidationTargets, spec.Dialect) {
			continue
		}
		if err := registerFn(ctx, spec.Dialect, reg.SourceLabel, spec.FS); err != nil {
			return reg, fmt.Errorf("migrations: register %s (%s): %w", spec.Dialect, spec.Path, err)
		}
	}
	return reg, nil
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(strings.ToLower(value))
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}
