package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"chatline/internal/store"
)

func (c *Client) Load(ctx context.Context, sender string) ([]string, bool, error) {
	var id int64
	err := c.db.QueryRowContext(ctx, `SELECT id FROM senders WHERE name = ?`, sender).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, store.Wrap("looking up sender", err)
	}

	rows, err := c.db.QueryContext(ctx, `
	SELECT message_key FROM generated_keys
	WHERE sender_id = ?
	ORDER BY position
	`, id)
	if err != nil {
		return nil, false, store.Wrap("loading generated keys", err)
	}
	defer rows.Close()

	keys := make([]string, 0)
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, false, store.Wrap("scanning generated key", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, false, store.Wrap("iterating generated keys", err)
	}

	return keys, true, nil
}

func (c *Client) Save(ctx context.Context, sender string, keys []string) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return store.Wrap("beginning transaction", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
	INSERT INTO senders (name) VALUES (?)
	ON CONFLICT (name) DO UPDATE SET updated_at = datetime('now')
	`, sender)
	if err != nil {
		return store.Wrap("upserting sender", err)
	}

	var id int64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM senders WHERE name = ?`, sender).Scan(&id); err != nil {
		return store.Wrap("looking up sender", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM generated_keys WHERE sender_id = ?`, id); err != nil {
		return store.Wrap("clearing generated keys", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO generated_keys (sender_id, position, message_key) VALUES (?, ?, ?)`)
	if err != nil {
		return store.Wrap("preparing key insert", err)
	}
	defer stmt.Close()

	for i, k := range keys {
		if _, err := stmt.ExecContext(ctx, id, i, k); err != nil {
			return store.Wrap("inserting generated key", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return store.Wrap("committing history", err)
	}
	return nil
}

func (c *Client) Delete(ctx context.Context, sender string) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return store.Wrap("beginning transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
	DELETE FROM generated_keys
	WHERE sender_id IN (SELECT id FROM senders WHERE name = ?)
	`, sender); err != nil {
		return store.Wrap("deleting generated keys", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM senders WHERE name = ?`, sender); err != nil {
		return store.Wrap("deleting sender", err)
	}

	if err := tx.Commit(); err != nil {
		return store.Wrap("committing delete", err)
	}
	return nil
}

func (c *Client) ListSenders(ctx context.Context) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT name FROM senders ORDER BY id`)
	if err != nil {
		return nil, store.Wrap("listing senders", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, store.Wrap("scanning sender", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Wrap("iterating senders", err)
	}
	return names, nil
}
