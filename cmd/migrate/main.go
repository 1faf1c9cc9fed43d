package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/sellercentric/backend/internal/infrastructure/config"
	"github.com/sellercentric/backend/internal/infrastructure/logger"
	"github.com/sellercentric/backend/internal/infrastructure/migration"
)

const defaultMigrationsDir = "migrations"

func main() {
	var (
		dir      string
		logLevel string
	)
	flag.StringVar(&dir, "path", "", "migrations directory (default: ./migrations)")
	flag.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	if err := run(args, resolveDir(dir), log); err != nil {
		log.Fatal("Migration command failed", zap.Error(err))
	}
}

func run(args []string, dir string, log *zap.Logger) error {
	command := args[0]
	log.Info("Migration tool",
		zap.String("command", command),
		zap.String("migrations_path", dir),
	)

	// create and list work on the files alone
	switch command {
	case "create":
		if len(args) < 2 {
			return fmt.Errorf("usage: migrate create <name>")
		}
		pair, err := migration.Create(dir, args[1])
		if err != nil {
			return err
		}
		log.Info("Migration pair created",
			zap.Uint64("version", pair.Version),
			zap.String("up", pair.UpPath),
			zap.String("down", pair.DownPath),
		)
		return nil

	case "list":
		bases, err := migration.List(dir)
		if err != nil {
			return err
		}
		if len(bases) == 0 {
			log.Info("No migrations found")
			return nil
		}
		log.Info("Migrations on disk", zap.Int("count", len(bases)))
		for _, base := range bases {
			fmt.Println("  -", base)
		}
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	mg, err := migration.New(db, dir, log)
	if err != nil {
		return err
	}
	defer mg.Close()

	switch command {
	case "up":
		return mg.Up()

	case "down":
		return mg.Down()

	case "step":
		n, err := intArg(args, "migrate step <n>")
		if err != nil {
			return err
		}
		return mg.Steps(n)

	case "goto":
		n, err := intArg(args, "migrate goto <version>")
		if err != nil {
			return err
		}
		if n < 0 {
			return fmt.Errorf("version must not be negative")
		}
		return mg.GoTo(uint(n))

	case "version":
		version, dirty, err := mg.Version()
		if err != nil {
			return err
		}
		if version == 0 {
			log.Info("No migrations applied")
			return nil
		}
		log.Info("Current schema version",
			zap.Uint("version", version),
			zap.Bool("dirty", dirty),
		)
		return nil

	case "force":
		n, err := intArg(args, "migrate force <version>")
		if err != nil {
			return err
		}
		return mg.Force(n)

	case "drop":
		if !confirmed(args[1:]) {
			return fmt.Errorf("drop destroys all data; rerun as 'migrate drop -confirm'")
		}
		return mg.Drop()

	default:
		printUsage()
		return fmt.Errorf("unknown command %q", command)
	}
}

// resolveDir picks the migrations directory: the -path flag if given,
// ./migrations if present, else migrations/ next to the binary's
// repository root.
func resolveDir(flagValue string) string {
	dir := flagValue
	if dir == "" {
		dir = defaultMigrationsDir
		if _, err := os.Stat(dir); err != nil {
			if execPath, execErr := os.Executable(); execErr == nil {
				candidate := filepath.Join(filepath.Dir(execPath), "..", "..", defaultMigrationsDir)
				if _, err := os.Stat(candidate); err == nil {
					dir = candidate
				}
			}
		}
	}
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return dir
}

func intArg(args []string, usage string) (int, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("usage: %s", usage)
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", args[1])
	}
	return n, nil
}

func confirmed(args []string) bool {
	for _, arg := range args {
		if arg == "-confirm" || arg == "--confirm" {
			return true
		}
	}
	return false
}

func printUsage() {
	fmt.Println(`SellerCentric schema migrations

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up               apply all pending migrations
  down             roll back every migration
  step <n>         move n migrations forward, or backward when negative
  goto <version>   migrate to an exact schema version
  version          show the current schema version
  force <version>  overwrite the recorded version (repairs a dirty state)
  drop -confirm    drop every database object, data included
  create <name>    write an empty up/down SQL pair with the next version
  list             list the migration pairs on disk

Flags:
  -path string       migrations directory (default: ./migrations)
  -log-level string  log level: debug, info, warn, error (default: info)

Database connection comes from the SELLER_DATABASE_* environment
variables (HOST, PORT, USER, PASSWORD, DBNAME, SSLMODE).

Examples:
  migrate up
  migrate step -1
  migrate create add_statement_snapshots
  migrate version`)
}
