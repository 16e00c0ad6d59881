package postgres

import (
	"context"

	"chatline/internal/store"
)

func (c *Client) EnsureSchema(ctx context.Context) error {
	ddl := `
CREATE TABLE IF NOT EXISTS senders (
    id         BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    name       TEXT NOT NULL,
    updated_at TIMESTAMPTZ DEFAULT now(),
    CONSTRAINT uq_sender_name UNIQUE (name)
);

CREATE TABLE IF NOT EXISTS generated_keys (
    sender_id   BIGINT NOT NULL REFERENCES senders(id) ON DELETE CASCADE,
    position    INTEGER NOT NULL,
    message_key TEXT NOT NULL,
    PRIMARY KEY (sender_id, position)
);
`
	if _, err := c.pool.Exec(ctx, ddl); err != nil {
		return store.Wrap("ensuring schema", err)
	}
	return nil
}
