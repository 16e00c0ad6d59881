package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"chatline/internal/store"
)

func (c *Client) Load(ctx context.Context, sender string) ([]string, bool, error) {
	var id int64
	err := c.pool.QueryRow(ctx, `SELECT id FROM senders WHERE name = $1`, sender).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, store.Wrap("looking up sender", err)
	}

	rows, err := c.pool.Query(ctx, `
SELECT message_key FROM generated_keys
WHERE sender_id = $1
ORDER BY position
`, id)
	if err != nil {
		return nil, false, store.Wrap("loading generated keys", err)
	}
	keys, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, false, store.Wrap("collecting generated keys", err)
	}
	if keys == nil {
		keys = []string{}
	}
	return keys, true, nil
}

// Save rewrites one sender's keys inside a transaction. The sender row is
// locked first so concurrent saves for the same sender queue up.
func (c *Client) Save(ctx context.Context, sender string, keys []string) error {
	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return store.Wrap("beginning transaction", err)
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx, `
INSERT INTO senders (name) VALUES ($1)
ON CONFLICT (name) DO UPDATE SET updated_at = now()
RETURNING id
`, sender).Scan(&id)
	if err != nil {
		return store.Wrap("upserting sender", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM generated_keys WHERE sender_id = $1`, id); err != nil {
		return store.Wrap("clearing generated keys", err)
	}

	if len(keys) > 0 {
		rows := make([][]any, 0, len(keys))
		for i, k := range keys {
			rows = append(rows, []any{id, i, k})
		}
		_, err := tx.CopyFrom(ctx,
			pgx.Identifier{"generated_keys"},
			[]string{"sender_id", "position", "message_key"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return store.Wrap("inserting generated keys", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return store.Wrap("committing history", err)
	}
	return nil
}

func (c *Client) Delete(ctx context.Context, sender string) error {
	if _, err := c.pool.Exec(ctx, `DELETE FROM senders WHERE name = $1`, sender); err != nil {
		return store.Wrap("deleting sender", err)
	}
	return nil
}

func (c *Client) ListSenders(ctx context.Context) ([]string, error) {
	rows, err := c.pool.Query(ctx, `SELECT name FROM senders ORDER BY id`)
	if err != nil {
		return nil, store.Wrap("listing senders", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, store.Wrap("collecting senders", err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}
