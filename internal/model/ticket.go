// Package model defines the ticket value objects shared by the repository,
// cache and service layers. A Ticket is immutable once persisted; the only
// derived field is FinalPrice, computed from the ticket type at construction
// time and recomputed from scratch whenever an update request is rebuilt.
package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidInput is the sentinel wrapped by every validation failure.
// Callers should match it with errors.Is and surface the wrapped reason.
var ErrInvalidInput = errors.New("invalid input")

// Type enumerates the supported ticket kinds. Values are stored uppercase.
type Type string

const (
	TypeStandard Type = "STANDARD" // base price, no surcharge
	TypeVIP      Type = "VIP"      // base price with a 1.5x multiplier
)

// vipMultiplier is applied to the base price of VIP tickets.
const vipMultiplier = 1.5

// ParseType normalizes a raw type string (case-insensitive, surrounding
// whitespace ignored) into a Type. Unknown values fail with ErrInvalidInput.
func ParseType(raw string) (Type, error) {
	switch t := Type(strings.ToUpper(strings.TrimSpace(raw))); t {
	case TypeStandard, TypeVIP:
		return t, nil
	default:
		return "", fmt.Errorf("%w: unknown ticket type: %s", ErrInvalidInput, raw)
	}
}

// FinalPrice derives the price a customer pays from the base price.
func (t Type) FinalPrice(basePrice float64) float64 {
	if t == TypeVIP {
		return basePrice * vipMultiplier
	}
	return basePrice
}

// Ticket represents a movie ticket sold to a customer. CustomerID and
// MovieID reference external entities and are not checked for existence
// here; referential integrity is the store's concern. The triple
// (CustomerID, MovieID, Type) must be unique across all tickets, which the
// service enforces because the store does not.
type Ticket struct {
	ID         int64   `json:"id"`          // tickets.id, assigned by the store
	CustomerID int64   `json:"customer_id"` // tickets.customer_id
	MovieID    int64   `json:"movie_id"`    // tickets.movie_id
	Type       Type    `json:"type"`        // tickets.type, uppercase
	BasePrice  float64 `json:"base_price"`  // tickets.base_price
	FinalPrice float64 `json:"final_price"` // tickets.final_price, derived from Type
}

// NewTicket validates the given fields and builds a Ticket with its final
// price derived from the type. The ID is left zero until the store assigns
// one. Checks run in a fixed order and the first failure wins.
func NewTicket(customerID, movieID int64, rawType string, basePrice float64) (Ticket, error) {
	if customerID <= 0 {
		return Ticket{}, fmt.Errorf("%w: customer_id must be > 0", ErrInvalidInput)
	}
	if movieID <= 0 {
		return Ticket{}, fmt.Errorf("%w: movie_id must be > 0", ErrInvalidInput)
	}
	if strings.TrimSpace(rawType) == "" {
		return Ticket{}, fmt.Errorf("%w: type is required (STANDARD or VIP)", ErrInvalidInput)
	}
	if basePrice <= 0 {
		return Ticket{}, fmt.Errorf("%w: base_price must be > 0", ErrInvalidInput)
	}
	typ, err := ParseType(rawType)
	if err != nil {
		return Ticket{}, err
	}
	return Ticket{
		CustomerID: customerID,
		MovieID:    movieID,
		Type:       typ,
		BasePrice:  basePrice,
		FinalPrice: typ.FinalPrice(basePrice),
	}, nil
}

// SameKey reports whether two tickets share the duplicate-prevention key
// (customer, movie, type). Type comparison is case-insensitive so rows
// written before normalization still count as conflicts.
func (t Ticket) SameKey(other Ticket) bool {
	return t.CustomerID == other.CustomerID &&
		t.MovieID == other.MovieID &&
		strings.EqualFold(string(t.Type), string(other.Type))
}
