package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/atvirokodosprendimai/loginwatch/internal/core/ports"
	"github.com/atvirokodosprendimai/loginwatch/internal/logging"
	"github.com/atvirokodosprendimai/loginwatch/internal/metrics"
)

// ExclusionSet is the normalized, read-only set of addresses for which
// notifications are suppressed. It is built once and never mutated.
type ExclusionSet struct {
	entries map[string]struct{}
}

// NewExclusionSet resolves every raw entry once and returns the resulting set.
// A resolved value replaces its raw entry; an entry that fails resolution is
// kept verbatim. The entries slice is not modified. A zero timeout leaves the
// per-entry deadline to ctx.
func NewExclusionSet(ctx context.Context, resolver ports.AddressResolver, entries []string, timeout time.Duration) *ExclusionSet {
	set := make(map[string]struct{}, len(entries))
	for _, raw := range entries {
		entry := strings.TrimSpace(raw)
		if entry == "" {
			continue
		}
		set[resolveEntry(ctx, resolver, entry, timeout)] = struct{}{}
	}
	metrics.ExclusionEntries.Set(float64(len(set)))
	return &ExclusionSet{entries: set}
}

func resolveEntry(ctx context.Context, resolver ports.AddressResolver, entry string, timeout time.Duration) string {
	if resolver == nil {
		return entry
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	resolved, err := resolver.Resolve(ctx, entry)
	if err != nil || resolved == "" {
		metrics.ExclusionResolveFailures.Inc()
		logging.Warn().Err(err).Str("entry", entry).Msg("exclusion entry kept verbatim")
		return entry
	}
	if resolved != entry {
		logging.Debug().Str("entry", entry).Str("resolved", resolved).Msg("exclusion entry normalized")
	}
	return resolved
}

func (s *ExclusionSet) IsExcluded(address string) bool {
	if s == nil {
		return false
	}
	_, ok := s.entries[address]
	return ok
}

func (s *ExclusionSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Entries returns a sorted copy of the normalized set.
func (s *ExclusionSet) Entries() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.entries))
	for entry := range s.entries {
		out = append(out, entry)
	}
	sort.Strings(out)
	return out
}
