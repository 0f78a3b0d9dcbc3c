package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/MOR6969/vape-bill/pkg/config"
	"github.com/MOR6969/vape-bill/pkg/db"
	"github.com/MOR6969/vape-bill/pkg/logger"
	"github.com/MOR6969/vape-bill/pkg/migrate"
)

func main() {
	_ = godotenv.Load()

	cmd := flag.String("cmd", "up", "up|down|status|version|create|validate|list")
	dir := flag.String("dir", migrate.DefaultDir, "migrations directory on disk")
	embedded := flag.Bool("embedded", false, "use the migrations compiled into this binary instead of -dir")
	name := flag.String("name", "", "migration name (create)")
	version := flag.String("version", "", "target version YYYYMMDDHHMMSS (version)")
	flag.Parse()

	// create, validate and list only touch files, so they run without config.
	if err := fileCommand(*cmd, *dir, *name, *embedded); err != errNeedsDB {
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "vape-bill-migrate"})

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "vape-bill-migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dialect := migrate.Dialect(cfg.DB)
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"cmd":      *cmd,
		"dialect":  dialect,
		"embedded": *embedded,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	sqlDB, err := dbClient.DB().DB()
	requireResource(ctx, logg, "sql database", err)

	logg.Info(ctx, "migrate.ready")
	if err := dbCommand(ctx, sqlDB, dialect, *cmd, *dir, *version, *embedded); err != nil {
		logg.Error(ctx, "migrate.failed", err)
		os.Exit(1)
	}
	logg.Info(ctx, "migrate.done")
}

var errNeedsDB = fmt.Errorf("command needs a database")

func fileCommand(cmd, dir, name string, embedded bool) error {
	switch cmd {
	case "create":
		if name == "" {
			return fmt.Errorf("missing -name for create")
		}
		path, err := migrate.CreateSQLMigration(dir, name)
		if err != nil {
			return fmt.Errorf("create migration: %w", err)
		}
		fmt.Println("created migration:", path)
		return nil

	case "validate":
		var err error
		if embedded {
			err = migrate.ValidateEmbedded()
		} else {
			err = migrate.ValidateDir(dir)
		}
		if err != nil {
			return fmt.Errorf("migration validation failed: %w", err)
		}
		fmt.Println("migration validation passed")
		return nil

	case "list":
		var (
			list []migrate.Migration
			err  error
		)
		if embedded {
			list, err = migrate.ListEmbedded()
		} else {
			list, err = migrate.ListMigrations(os.DirFS(dir), ".")
		}
		if err != nil {
			return err
		}
		for _, m := range list {
			fmt.Printf("%s  %s\n", m.Version, m.Name)
		}
		return nil
	}
	return errNeedsDB
}

func dbCommand(ctx context.Context, sqlDB *sql.DB, dialect, cmd, dir, version string, embedded bool) error {
	switch cmd {
	case "up", "down", "status":
		if embedded {
			return migrate.RunEmbedded(ctx, sqlDB, dialect, cmd)
		}
		return migrate.Run(ctx, sqlDB, dialect, dir, cmd)

	case "version":
		if version == "" {
			return fmt.Errorf("missing -version for version command")
		}
		if embedded {
			return fmt.Errorf("-embedded is not supported for version")
		}
		return migrate.MigrateToVersion(ctx, sqlDB, dialect, dir, version)

	default:
		return fmt.Errorf("unknown -cmd value %q", cmd)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
