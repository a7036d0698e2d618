package ports

import "context"

type AddressResolver interface {
	Resolve(ctx context.Context, entry string) (string, error)
}
