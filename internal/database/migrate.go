package database

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Migrate applies all pending up migrations from dir. A database that
// is already at the newest version is not an error.
func Migrate(dir, user, pass, host, port, name string) error {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, url.QueryEscape(pass))
	}
	dsn := fmt.Sprintf("mysql://%s@tcp(%s:%s)/%s?charset=utf8mb4", auth, host, port, name)

	m, err := migrate.New("file://"+dir, dsn)
	if err != nil {
		return fmt.Errorf("init migrator: %w", err)
	}
	defer func() {
		_, _ = m.Close()
	}()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}
