package database

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"

	"github.com/surrealdb/surrealdb.go"
)

//go:embed schema.surql
var schema string

// Schema returns the SurrealQL definitions for the account access method and
// the profile table.
func Schema() string {
	return schema
}

// Migrate applies the schema on the root connection. Every statement uses
// IF NOT EXISTS, so running it again is a no-op.
func Migrate(ctx context.Context, conn *Connection) error {
	ctx, cancel := boundedContext(ctx, conn.GetDBExecuteTimeout())
	defer cancel()

	err := conn.WithConnection(ctx, func(db *surrealdb.DB) error {
		return Execute(ctx, db, schema, nil)
	})
	if err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	slog.InfoContext(ctx, "Database schema applied", "event", "db_migrate_success")
	return nil
}
