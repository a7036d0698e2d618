package ports

import (
	"context"

	"github.com/atvirokodosprendimai/loginwatch/internal/core/domain"
)

type GeoSource interface {
	Locate(ctx context.Context, address string) (domain.Location, error)
}
