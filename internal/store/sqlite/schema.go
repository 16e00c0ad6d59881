package sqlite

import (
	"context"
	"strings"

	"chatline/internal/store"
)

func (c *Client) EnsureSchema(ctx context.Context) error {
	ddl := `
	CREATE TABLE IF NOT EXISTS senders (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		name       TEXT NOT NULL,
		updated_at TEXT DEFAULT (datetime('now')),
		CONSTRAINT uq_sender_name UNIQUE (name)
	);

	CREATE TABLE IF NOT EXISTS generated_keys (
		sender_id   INTEGER NOT NULL REFERENCES senders(id) ON DELETE CASCADE,
		position    INTEGER NOT NULL,
		message_key TEXT NOT NULL,
		PRIMARY KEY (sender_id, position)
	);

	CREATE INDEX IF NOT EXISTS idx_generated_keys_sender ON generated_keys (sender_id);
	`

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return store.Wrap("beginning transaction", err)
	}
	defer tx.Rollback()

	for _, stmt := range splitStatements(ddl) {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return store.Wrap("executing DDL", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return store.Wrap("committing schema transaction", err)
	}

	return nil
}

func splitStatements(ddl string) []string {
	var statements []string
	var current strings.Builder

	for _, line := range strings.Split(ddl, "\n") {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")

		if strings.HasSuffix(stripped, ";") {
			statements = append(statements, current.String())
			current.Reset()
		}
	}

	if strings.TrimSpace(current.String()) != "" {
		statements = append(statements, current.String())
	}

	return statements
}
