package domain

import "errors"

var (
	ErrLocationNotFound = errors.New("location not found")
	ErrInvalidAddress   = errors.New("invalid address")
	ErrDeliveryRejected = errors.New("delivery rejected")
	ErrUnresolvable     = errors.New("unresolvable entry")
)

type LoginFact struct {
	User    string
	Address string
}

type Location struct {
	City    string
	Country string
}

type Notification struct {
	User     string
	Address  string
	Location Location
}
