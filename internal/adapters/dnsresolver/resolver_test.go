package dnsresolver

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atvirokodosprendimai/loginwatch/internal/core/domain"
)

type lookupStub struct {
	hosts map[string][]string
	calls int
}

func (l *lookupStub) LookupHost(_ context.Context, host string) ([]string, error) {
	l.calls++
	if addrs, ok := l.hosts[host]; ok {
		return addrs, nil
	}
	return nil, &net.DNSError{Err: "no such host", Name: host, IsNotFound: true}
}

func TestResolveIPLiteralIsCanonicalized(t *testing.T) {
	stub := &lookupStub{}
	r := &Resolver{lookup: stub}

	got, err := r.Resolve(context.Background(), "2001:DB8:0:0::1")
	require.NoError(t, err)
	assert.Equal(t, "2001:db8::1", got)

	got, err = r.Resolve(context.Background(), "203.0.113.9")
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.9", got)
	assert.Zero(t, stub.calls)
}

func TestResolveHostname(t *testing.T) {
	r := &Resolver{lookup: &lookupStub{hosts: map[string][]string{
		"office.example.com": {"198.51.100.20", "198.51.100.21"},
	}}}

	got, err := r.Resolve(context.Background(), "office.example.com")
	require.NoError(t, err)
	assert.Equal(t, "198.51.100.20", got)
}

func TestResolveUnknownHost(t *testing.T) {
	r := &Resolver{lookup: &lookupStub{}}

	_, err := r.Resolve(context.Background(), "nope.invalid")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnresolvable)

	var dnsErr *net.DNSError
	assert.True(t, errors.As(err, &dnsErr))
}

func TestResolveNoUsableAddress(t *testing.T) {
	r := &Resolver{lookup: &lookupStub{hosts: map[string][]string{"weird.example.com": {"garbage"}}}}

	_, err := r.Resolve(context.Background(), "weird.example.com")
	assert.ErrorIs(t, err, domain.ErrUnresolvable)
}
