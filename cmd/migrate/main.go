package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"student-records/config"
	"student-records/internal/repository"
	"student-records/pkg/database"
)

const usage = `
Student Records - Document Store CLI Tool

Usage:
  migrate <command> [flags]

Commands:
  up          Create the students schema (Postgres only)
  down        Drop the students schema (Postgres only)
  status      Show store connection status and record count
  seed-dev    Seed with development data
  truncate    Delete all student records (DANGEROUS)

Flags:
  -count int   Number of students for seed-dev (default 10)

Examples:
  go run cmd/migrate/main.go up
  go run cmd/migrate/main.go seed-dev -count 25
  go run cmd/migrate/main.go status
`

type options struct {
	command string
	count   int
}

// parseArgs reads the command first and its flags after it, so
// "seed-dev -count 25" and "-count 25 seed-dev" both work.
func parseArgs(args []string) (options, error) {
	opts := options{count: 10}

	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.IntVar(&opts.count, "count", opts.count, "Number of students for seed-dev")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() < 1 {
		return opts, errors.New("missing command")
	}
	opts.command = fs.Arg(0)
	if err := fs.Parse(fs.Args()[1:]); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if opts.count < 0 {
		return opts, errors.New("-count must not be negative")
	}
	return opts, nil
}

func main() {
	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Printf("Error: %v\n", err)
		}
		fmt.Print(usage)
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	store, err := database.Open(ctx, cfg.DocumentStoreURL)
	if err != nil {
		log.Fatalf("Failed to open document store: %v", err)
	}
	defer store.Close()

	switch opts.command {
	case "up":
		runSchemaUp(ctx, store)
	case "down":
		runSchemaDown(ctx, store)
	case "status":
		showStatus(ctx, store)
	case "seed-dev":
		runSeedDevelopment(ctx, store, opts.count)
	case "truncate":
		runTruncate(ctx, store)
	default:
		fmt.Printf("Unknown command: %s\n", opts.command)
		fmt.Print(usage)
		os.Exit(1)
	}
}

func runSchemaUp(ctx context.Context, store *database.Store) {
	if store.Postgres == nil {
		log.Println("Redis store needs no schema, nothing to do")
		return
	}

	log.Println("Creating students schema...")
	if err := repository.InitSchema(ctx, store.Postgres); err != nil {
		log.Fatalf("Schema creation failed: %v", err)
	}
	log.Println("Schema ready")
}

func runSchemaDown(ctx context.Context, store *database.Store) {
	if store.Postgres == nil {
		log.Println("Redis store needs no schema, nothing to do")
		return
	}

	log.Println("Dropping students schema...")
	if err := repository.DropSchema(ctx, store.Postgres); err != nil {
		log.Fatalf("Schema drop failed: %v", err)
	}
	log.Println("Schema dropped")
}

func showStatus(ctx context.Context, store *database.Store) {
	log.Printf("Checking %s store status...", store.Kind)

	if err := store.Students.Ping(ctx); err != nil {
		log.Fatalf("Store connection failed: %v", err)
	}
	log.Println("Store connection: OK")

	if store.Postgres != nil {
		exists, err := database.TableExists(ctx, store.Postgres, "students")
		if err != nil {
			log.Printf("Error checking table students: %v", err)
			return
		}
		if !exists {
			log.Println("Table students does not exist, run `migrate up`")
			return
		}
	}

	n, err := store.Students.Count(ctx)
	if err != nil {
		log.Printf("Error counting students: %v", err)
		return
	}
	log.Printf("Students stored: %d", n)
}

func runSeedDevelopment(ctx context.Context, store *database.Store, count int) {
	log.Println("Seeding store (development mode)...")

	created, err := database.Seed(ctx, store.Students, &database.SeedConfig{StudentCount: count})
	if err != nil {
		log.Fatalf("Seeding failed after %d students: %v", len(created), err)
	}
	log.Println("Development seeding completed")
}

func runTruncate(ctx context.Context, store *database.Store) {
	log.Println("WARNING: This will delete all student records!")

	n, err := database.Truncate(ctx, store.Students)
	if err != nil {
		log.Fatalf("Truncate failed after %d students: %v", n, err)
	}
	log.Printf("Deleted %d students", n)
}
