package geo

import (
	"errors"
	"testing"

	"github.com/Strmly-Technologies/Delivery-Page-sub000/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var shop = Point{Lat: 12.9716, Lng: 77.5946}

func testPricing(t *testing.T) *Pricing {
	t.Helper()
	p, err := NewPricing(shop, []Tier{
		{UpToKm: 3, Charge: 20},
		{UpToKm: 6, Charge: 40},
		{UpToKm: 10, Charge: 60},
	}, 10, 99)
	require.NoError(t, err)
	return p
}

// pointAtKm returns a destination roughly d kilometers due north of the shop.
// One degree of latitude is ~111.19 km on the haversine sphere.
func pointAtKm(d float64) Point {
	return Point{Lat: shop.Lat + d/111.19, Lng: shop.Lng}
}

func TestDistance(t *testing.T) {
	assert.Zero(t, Distance(shop, shop))
	assert.InDelta(t, 4.2, Distance(shop, pointAtKm(4.2)), 0.05)
}

func TestNewPricingRejectsBadTiers(t *testing.T) {
	_, err := NewPricing(shop, nil, 10, 99)
	assert.Error(t, err)

	_, err = NewPricing(shop, []Tier{{UpToKm: 5, Charge: 20}, {UpToKm: 5, Charge: 40}}, 10, 99)
	assert.Error(t, err)

	_, err = NewPricing(shop, []Tier{{UpToKm: 6, Charge: 40}, {UpToKm: 3, Charge: 20}}, 10, 99)
	assert.Error(t, err)
}

func TestQuoteForTiers(t *testing.T) {
	p := testPricing(t)

	tests := []struct {
		km   float64
		want int64
	}{
		{0.5, 20},
		{2.9, 20},
		{4.2, 40},
		{7.5, 60},
		{9.9, 60},
	}
	for _, tt := range tests {
		q, d, err := p.QuoteFor(pointAtKm(tt.km), 50)
		require.NoError(t, err)
		assert.InDelta(t, tt.km, d, 0.05)
		assert.Equal(t, tt.want, q.Calculated)
		assert.Equal(t, tt.want, q.Applied)
	}
}

func TestQuoteForFreeDeliveryWaiver(t *testing.T) {
	p := testPricing(t)

	// at the threshold the charge is waived but the tier price is retained
	q, _, err := p.QuoteFor(pointAtKm(4.2), 99)
	require.NoError(t, err)
	assert.Equal(t, int64(40), q.Calculated)
	assert.Zero(t, q.Applied)

	// one unit below keeps the charge
	q, _, err = p.QuoteFor(pointAtKm(4.2), 98)
	require.NoError(t, err)
	assert.Equal(t, int64(40), q.Applied)
}

func TestQuoteForOutOfRange(t *testing.T) {
	p := testPricing(t)

	_, d, err := p.QuoteFor(pointAtKm(12), 500)
	require.Error(t, err)
	var oor *apperr.OutOfServiceRange
	require.True(t, errors.As(err, &oor))
	assert.InDelta(t, 12, oor.DistanceKm, 0.1)
	assert.InDelta(t, 12, d, 0.1)
}
