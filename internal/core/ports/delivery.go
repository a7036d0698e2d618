package ports

import "context"

// Delivery hands a rendered message to a transport. A nil error means the
// transport accepted it.
type Delivery interface {
	Send(ctx context.Context, message string) error
}
