// The cli binary runs store maintenance without the HTTP server:
//
//	cli migrate [--env=path]
//	cli seed    [--env=path]
//	cli export  [--env=path] [--out=dir]
//	cli import  --file=backup.sql [--env=path]
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/udharokhata/credit-ledger/internal/backup"
	"github.com/udharokhata/credit-ledger/internal/config"
	"github.com/udharokhata/credit-ledger/internal/schema"
	"github.com/udharokhata/credit-ledger/pkg/logger"
	"github.com/udharokhata/credit-ledger/pkg/sqlite"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	command := os.Args[1]

	if err := config.Load(argValue("--env")); err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Get()

	db, err := sqlite.Open(sqlite.Config{
		Path:          cfg.SqlitePath,
		BusyTimeoutMS: cfg.SqliteBusyTimeout,
	}, false)
	if err != nil {
		logger.Error("failed opening sqlite store", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()
	schemaManager := schema.NewManager(db)
	engine := backup.NewEngine(db, schemaManager)

	switch command {
	case "migrate":
		if err := schemaManager.Migrate(ctx); err != nil {
			logger.Error("migration failed", "error", err)
			os.Exit(1)
		}
		logger.Info("store migrated", "path", cfg.SqlitePath, "version", schema.TargetVersion)

	case "seed":
		if !cfg.IsDev() {
			logger.Error("seed is a dev-only command", "env", cfg.AppEnv)
			os.Exit(1)
		}
		if err := schemaManager.Migrate(ctx); err != nil {
			logger.Error("migration failed", "error", err)
			os.Exit(1)
		}
		if err := schemaManager.SeedDemoData(ctx); err != nil {
			logger.Error("seed failed", "error", err)
			os.Exit(1)
		}

	case "export":
		if err := schemaManager.Migrate(ctx); err != nil {
			logger.Error("migration failed", "error", err)
			os.Exit(1)
		}
		dir := argValue("--out")
		if dir == "" {
			dir = cfg.BackupDir
		}
		path, err := engine.ExportToFile(ctx, dir)
		if err != nil {
			logger.Error("export failed", "error", err)
			os.Exit(1)
		}
		fmt.Println(path)

	case "import":
		file := argValue("--file")
		if file == "" {
			logger.Error("import needs --file=backup.sql")
			os.Exit(2)
		}
		if err := engine.ImportFile(ctx, file); err != nil {
			logger.Error("import failed, store unchanged", "error", err)
			os.Exit(1)
		}
		logger.Info("store restored", "file", file)

	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: cli <migrate|seed|export|import> [--env=path] [--out=dir] [--file=backup.sql]")
}

func argValue(name string) string {
	for _, v := range os.Args {
		if strings.HasPrefix(v, name+"=") {
			return strings.TrimPrefix(v, name+"=")
		}
	}
	return ""
}
