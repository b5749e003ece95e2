package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTypeNormalizes(t *testing.T) {
	for _, raw := range []string{"vip", "VIP", "Vip", "  vip  "} {
		typ, err := ParseType(raw)
		require.NoError(t, err, "raw=%q", raw)
		assert.Equal(t, TypeVIP, typ, "raw=%q", raw)
	}
	typ, err := ParseType("standard")
	require.NoError(t, err)
	assert.Equal(t, TypeStandard, typ)
}

func TestParseTypeUnknown(t *testing.T) {
	_, err := ParseType("premium")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestFinalPriceDerivation(t *testing.T) {
	assert.Equal(t, 100.0, TypeStandard.FinalPrice(100.0))
	assert.Equal(t, 150.0, TypeVIP.FinalPrice(100.0))
}

func TestNewTicketDerivesPrice(t *testing.T) {
	tk, err := NewTicket(1, 2, "vip", 100.0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), tk.ID) // id assigned by the store, not here
	assert.Equal(t, TypeVIP, tk.Type)
	assert.Equal(t, 100.0, tk.BasePrice)
	assert.Equal(t, 150.0, tk.FinalPrice)

	tk, err = NewTicket(1, 2, "standard", 50.0)
	require.NoError(t, err)
	assert.Equal(t, TypeStandard, tk.Type)
	assert.Equal(t, 50.0, tk.FinalPrice)
}

func TestNewTicketValidation(t *testing.T) {
	cases := []struct {
		name       string
		customerID int64
		movieID    int64
		typ        string
		basePrice  float64
		wantReason string
	}{
		{"zero customer", 0, 2, "VIP", 10, "customer_id"},
		{"negative customer", -1, 2, "VIP", 10, "customer_id"},
		{"zero movie", 1, 0, "VIP", 10, "movie_id"},
		{"blank type", 1, 2, "   ", 10, "type is required"},
		{"zero price", 1, 2, "VIP", 0, "base_price"},
		{"negative price", 1, 2, "VIP", -5, "base_price"},
		{"unknown type", 1, 2, "premium", 10, "unknown ticket type"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTicket(tc.customerID, tc.movieID, tc.typ, tc.basePrice)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Contains(t, err.Error(), tc.wantReason)
		})
	}
}

func TestNewTicketValidationOrder(t *testing.T) {
	// Multiple fields invalid: the customer_id check fires first.
	_, err := NewTicket(0, 0, "", -1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "customer_id")
}

func TestSameKey(t *testing.T) {
	a := Ticket{ID: 1, CustomerID: 7, MovieID: 9, Type: TypeVIP}
	b := Ticket{ID: 2, CustomerID: 7, MovieID: 9, Type: "vip"} // pre-normalization row
	assert.True(t, a.SameKey(b))

	b.MovieID = 10
	assert.False(t, a.SameKey(b))
	b.MovieID = 9
	b.Type = TypeStandard
	assert.False(t, a.SameKey(b))
	b.Type = TypeVIP
	b.CustomerID = 8
	assert.False(t, a.SameKey(b))
}
