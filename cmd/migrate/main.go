package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/sakurapacks/oripa-backend/pkg/config"
	"github.com/sakurapacks/oripa-backend/pkg/db"
	"github.com/sakurapacks/oripa-backend/pkg/logger"
	"github.com/sakurapacks/oripa-backend/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "migrate"})

	_ = godotenv.Load()

	cmd := flag.String("cmd", "up", "migration command: up|down|status|version|create|validate")
	dir := flag.String("dir", migrate.DefaultDir, "goose migrations directory")
	name := flag.String("name", "", "migration name (for -cmd=create)")
	version := flag.String("version", "", "target version YYYYMMDDHHMMSS (for -cmd=version)")
	flag.Parse()

	cfg, err := config.Load()
	fatalOn(logg, "load config", err)

	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env": cfg.App.Env,
		"cmd": *cmd,
		"dir": *dir,
	})

	// create and validate work on the filesystem only
	switch *cmd {
	case "create":
		if *name == "" {
			fatalf("missing -name for create")
		}
		path, err := migrate.CreateSQLMigration(*dir, *name)
		fatalOn(logg, "create migration", err)
		fmt.Println("created migration:", path)
		return
	case "validate":
		fatalOn(logg, "validate migrations", migrate.ValidateDir(*dir))
		fmt.Println("migration validation passed")
		return
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	fatalOn(logg, "connect database", err)
	defer dbClient.Close()

	sqlDB, err := dbClient.DB().DB()
	fatalOn(logg, "unwrap sql handle", err)

	switch *cmd {
	case "up", "down", "status":
		fatalOn(logg, "goose "+*cmd, migrate.Run(ctx, sqlDB, *dir, *cmd))
	case "version":
		if *version == "" {
			fatalf("missing -version for version command")
		}
		fatalOn(logg, "goose migrate to version", migrate.MigrateToVersion(ctx, sqlDB, *dir, *version))
	default:
		fatalf("unknown -cmd value: %s", *cmd)
	}
}

func fatalOn(logg *logger.Logger, step string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), step+" failed", err)
	os.Exit(1)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
