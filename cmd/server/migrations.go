package main

import (
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/fukushu-app/fukushu-api/migrations"
)

// runMigrations applies the embedded goose migrations.
func (app *application) runMigrations(command string) error {
	goose.SetBaseFS(migrations.FS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	app.logger.Info("Running migrations", "command", command)

	var err error
	switch command {
	case "up":
		err = goose.Up(app.db, ".")
	case "down":
		err = goose.Down(app.db, ".")
	case "status":
		err = goose.Status(app.db, ".")
	default:
		return fmt.Errorf("unknown migration command %q", command)
	}
	if err != nil {
		return fmt.Errorf("migration %s failed: %w", command, err)
	}

	app.logger.Info("Migrations completed", "command", command)
	return nil
}
