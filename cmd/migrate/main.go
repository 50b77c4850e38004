// Command migrate applies or rolls back the postgres schema.
//
//	migrate up            apply all pending migrations
//	migrate down [N]      roll back N migrations (default 1)
//	migrate goto V        migrate up or down to version V
//	migrate force V       mark version V as applied and clear the dirty flag
//	migrate version       print the current version
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"flesk/internal/config"
	"flesk/internal/database"
	"flesk/internal/logger"
)

const usage = "usage: migrate <up|down [N]|goto V|force V|version>"

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(os.Args[1:]); err != nil {
		logger.Get().Fatalw("migration failed", "args", os.Args[1:], "error", err)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return errors.New(usage)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	dbConfig := database.NewConfig(cfg)
	if dbConfig.Driver == database.DriverSQLite {
		return errors.New("sqlite schemas are created by the api on startup; nothing to migrate")
	}

	source := "file://" + migrationsDir()
	m, err := migrate.New(source, dbConfig.MigrationURL())
	if err != nil {
		return fmt.Errorf("open %s: %w", source, err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if err := errors.Join(srcErr, dbErr); err != nil {
			logger.Get().Warnw("closing migrator", "error", err)
		}
	}()

	log := logger.Named("migrate")
	switch args[0] {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("up: %w", err)
		}
	case "down":
		steps, err := intArg(args, 1)
		if err != nil {
			return err
		}
		if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("down %d: %w", steps, err)
		}
	case "goto":
		v, err := intArg(args, -1)
		if err != nil {
			return err
		}
		if err := m.Migrate(uint(v)); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("goto %d: %w", v, err)
		}
	case "force":
		v, err := intArg(args, -1)
		if err != nil {
			return err
		}
		if err := m.Force(v); err != nil {
			return fmt.Errorf("force %d: %w", v, err)
		}
	case "version":
	default:
		return fmt.Errorf("unknown command %q; %s", args[0], usage)
	}

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		log.Infow("schema is empty", "command", args[0])
		return nil
	}
	if err != nil {
		return fmt.Errorf("read version: %w", err)
	}
	log.Infow("schema version", "command", args[0], "version", version, "dirty", dirty)
	return nil
}

// intArg parses args[1]. A negative def means the argument is required.
func intArg(args []string, def int) (int, error) {
	if len(args) < 2 {
		if def < 0 {
			return 0, fmt.Errorf("%s needs a version argument", args[0])
		}
		return def, nil
	}
	n, err := strconv.Atoi(args[1])
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s argument %q", args[0], args[1])
	}
	return n, nil
}

func migrationsDir() string {
	if dir := os.Getenv("MIGRATIONS_DIR"); dir != "" {
		return dir
	}
	return "migrations"
}
