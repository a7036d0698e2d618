package dnsresolver

import (
	"context"
	"fmt"
	"net"
	"net/netip"

	"github.com/atvirokodosprendimai/loginwatch/internal/core/domain"
)

type hostLookup interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// Resolver normalizes exclusion entries to address form through the system
// resolver, so /etc/hosts and nsswitch are honoured.
type Resolver struct {
	lookup hostLookup
}

func New() *Resolver {
	return &Resolver{lookup: net.DefaultResolver}
}

// Resolve returns the canonical text form of an IP literal, or the first
// address a hostname resolves to.
func (r *Resolver) Resolve(ctx context.Context, entry string) (string, error) {
	if addr, err := netip.ParseAddr(entry); err == nil {
		return addr.String(), nil
	}

	addrs, err := r.lookup.LookupHost(ctx, entry)
	if err != nil {
		return "", fmt.Errorf("lookup %s: %w: %w", entry, domain.ErrUnresolvable, err)
	}
	for _, a := range addrs {
		if addr, err := netip.ParseAddr(a); err == nil {
			return addr.String(), nil
		}
	}
	return "", fmt.Errorf("lookup %s: %w", entry, domain.ErrUnresolvable)
}
