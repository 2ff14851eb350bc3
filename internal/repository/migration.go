package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Execer is the subset of *pgxpool.Pool needed to apply the schema.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Postgres backs the document store with a single jsonb column per record.
// seq preserves insertion order for offset pagination.
var studentSchema = []string{
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`CREATE TABLE IF NOT EXISTS students (
		id  uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		seq bigserial NOT NULL,
		doc jsonb NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS students_seq_idx ON students (seq);`,
}

// InitSchema creates the students table when missing. Safe to run repeatedly.
func InitSchema(ctx context.Context, db Execer) error {
	for _, stmt := range studentSchema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

// DropSchema removes the students table.
func DropSchema(ctx context.Context, db Execer) error {
	if _, err := db.Exec(ctx, `DROP TABLE IF EXISTS students;`); err != nil {
		return fmt.Errorf("failed to drop schema: %w", err)
	}
	return nil
}
