package geoip

import (
	"context"
	"fmt"
	"net"

	"github.com/oschwald/geoip2-golang"

	"github.com/atvirokodosprendimai/loginwatch/internal/core/domain"
)

// UnknownCity is rendered when the database knows the country of an address
// but not its city.
const UnknownCity = "Unknown"

const language = "en"

type cityReader interface {
	City(ip net.IP) (*geoip2.City, error)
	Close() error
}

// Locator resolves addresses against a local MaxMind GeoIP2/GeoLite2 City
// database.
type Locator struct {
	db cityReader
}

// Open loads the database at path. Callers must Close the Locator.
func Open(path string) (*Locator, error) {
	db, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open geoip database %s: %w", path, err)
	}
	return &Locator{db: db}, nil
}

func (l *Locator) Locate(_ context.Context, address string) (domain.Location, error) {
	ip := net.ParseIP(address)
	if ip == nil {
		return domain.Location{}, fmt.Errorf("locate %q: %w", address, domain.ErrInvalidAddress)
	}

	record, err := l.db.City(ip)
	if err != nil {
		return domain.Location{}, fmt.Errorf("lookup %s: %w", address, err)
	}

	country := record.Country.Names[language]
	if country == "" {
		return domain.Location{}, fmt.Errorf("lookup %s: %w", address, domain.ErrLocationNotFound)
	}
	city := record.City.Names[language]
	if city == "" {
		city = UnknownCity
	}
	return domain.Location{City: city, Country: country}, nil
}

func (l *Locator) Close() error {
	return l.db.Close()
}
