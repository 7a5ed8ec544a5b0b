package repositories

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
)

// NewRepositoryFromURL selects a repository by the scheme of connStr:
// memory://, sqlite://<path> or postgresql://...
// migrations is the root directory holding one subdirectory per driver.
func NewRepositoryFromURL(ctx context.Context, connStr string, migrations string) (Repository, error) {
	u, err := url.Parse(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %v", err)
	}

	switch u.Scheme {
	case "memory":
		return NewInMemoryRepository(), nil
	case "sqlite":
		path := u.Host + u.Path
		if path == "" {
			return nil, fmt.Errorf("missing sqlite database path in %s", connStr)
		}
		repository, err := NewSQLiteRepository(ctx, path, filepath.Join(migrations, "sqlite"))
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite repository: %v", err)
		}
		return repository, nil
	case "postgres", "postgresql":
		repository, err := NewPostgresRepository(ctx, u.String(), filepath.Join(migrations, "postgres"))
		if err != nil {
			return nil, fmt.Errorf("failed to create Postgres repository: %v", err)
		}
		return repository, nil
	default:
		return nil, fmt.Errorf("unknown database type %s", u.Scheme)
	}
}
