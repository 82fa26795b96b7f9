package operator

import "context"

// Store looks up operator accounts by username.
type Store interface {
	FindByUsername(ctx context.Context, username string) (Operator, error)
}
