package basket

import "context"

// Store keeps the queued lines in insertion order.
//
// SetExpiryMonth and SetExpiryYear update one component each; an empty
// value clears that component. Lookups return sentinel.ErrNotFound for
// unknown line IDs, while Remove is an idempotent no-op for them.
type Store interface {
	Add(ctx context.Context, line Line) error
	List(ctx context.Context) ([]Line, error)
	Get(ctx context.Context, id string) (Line, error)
	SetExpiryMonth(ctx context.Context, id, month string) error
	SetExpiryYear(ctx context.Context, id, year string) error
	Remove(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}
