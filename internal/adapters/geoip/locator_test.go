package geoip

import (
	"context"
	"errors"
	"net"
	"path/filepath"
	"testing"

	"github.com/oschwald/geoip2-golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atvirokodosprendimai/loginwatch/internal/core/domain"
)

type readerStub struct {
	records map[string]*geoip2.City
	err     error
	closed  bool
}

func (r *readerStub) City(ip net.IP) (*geoip2.City, error) {
	if r.err != nil {
		return nil, r.err
	}
	if rec, ok := r.records[ip.String()]; ok {
		return rec, nil
	}
	return &geoip2.City{}, nil
}

func (r *readerStub) Close() error {
	r.closed = true
	return nil
}

func cityRecord(city, country string) *geoip2.City {
	rec := &geoip2.City{}
	if city != "" {
		rec.City.Names = map[string]string{"en": city, "de": city + "-de"}
	}
	rec.Country.Names = map[string]string{"en": country}
	return rec
}

func TestLocatorLocate(t *testing.T) {
	l := &Locator{db: &readerStub{records: map[string]*geoip2.City{
		"8.8.8.8": cityRecord("Mountain View", "United States"),
	}}}

	loc, err := l.Locate(context.Background(), "8.8.8.8")
	require.NoError(t, err)
	assert.Equal(t, domain.Location{City: "Mountain View", Country: "United States"}, loc)
}

func TestLocatorCountryOnly(t *testing.T) {
	l := &Locator{db: &readerStub{records: map[string]*geoip2.City{
		"2001:db8::1": cityRecord("", "Germany"),
	}}}

	loc, err := l.Locate(context.Background(), "2001:db8::1")
	require.NoError(t, err)
	assert.Equal(t, domain.Location{City: UnknownCity, Country: "Germany"}, loc)
}

func TestLocatorUnknownAddress(t *testing.T) {
	l := &Locator{db: &readerStub{}}

	_, err := l.Locate(context.Background(), "192.0.2.44")
	assert.ErrorIs(t, err, domain.ErrLocationNotFound)
}

func TestLocatorInvalidAddress(t *testing.T) {
	l := &Locator{db: &readerStub{}}

	_, err := l.Locate(context.Background(), "not-an-ip")
	assert.ErrorIs(t, err, domain.ErrInvalidAddress)
}

func TestLocatorReaderError(t *testing.T) {
	boom := errors.New("corrupt database")
	l := &Locator{db: &readerStub{err: boom}}

	_, err := l.Locate(context.Background(), "8.8.4.4")
	assert.ErrorIs(t, err, boom)
}

func TestLocatorClose(t *testing.T) {
	stub := &readerStub{}
	l := &Locator{db: stub}
	require.NoError(t, l.Close())
	assert.True(t, stub.closed)
}

func TestOpenMissingDatabase(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.mmdb"))
	assert.Error(t, err)
}
