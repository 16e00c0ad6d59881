package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrStorage marks failures of the durable medium. In-memory playback state
// is not rolled back when one is returned.
var ErrStorage = errors.New("storage failure")

// Store persists every sender's history in one shared document. Save and
// Delete touch exactly one sender's record and leave the others intact.
type Store interface {
	Close(ctx context.Context) error
	EnsureSchema(ctx context.Context) error

	Load(ctx context.Context, sender string) ([]string, bool, error)
	Save(ctx context.Context, sender string, keys []string) error
	Delete(ctx context.Context, sender string) error
	ListSenders(ctx context.Context) ([]string, error)
}

// Wrap tags err as a storage failure while keeping its message.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, errors.Join(ErrStorage, err))
}
