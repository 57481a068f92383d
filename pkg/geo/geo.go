// Package geo computes great-circle distance from the shop and the
// distance-tiered delivery charge.
package geo

import (
	"fmt"
	"math"

	"github.com/Strmly-Technologies/Delivery-Page-sub000/pkg/apperr"
)

type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

const earthRadiusKm = 6371.0

// Distance is the haversine great-circle distance in kilometers.
func Distance(a, b Point) float64 {
	la1 := a.Lat * math.Pi / 180
	la2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(la1)*math.Cos(la2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

type Tier struct {
	UpToKm float64 `json:"upToKm"`
	Charge int64   `json:"charge"`
}

type Pricing struct {
	Shop            Point
	Tiers           []Tier // strictly ascending UpToKm, checked at construction
	MaxRangeKm      float64
	FreeDeliveryMin int64 // subtotal at/above which the charge is waived
}

// NewPricing validates the tier table once so call sites never rely on
// implicit ordering.
func NewPricing(shop Point, tiers []Tier, maxRangeKm float64, freeDeliveryMin int64) (*Pricing, error) {
	if len(tiers) == 0 {
		return nil, fmt.Errorf("geo: at least one tier required")
	}
	for i := 1; i < len(tiers); i++ {
		if tiers[i].UpToKm <= tiers[i-1].UpToKm {
			return nil, fmt.Errorf("geo: tiers must be strictly ascending by upToKm")
		}
	}
	if maxRangeKm <= 0 {
		return nil, fmt.Errorf("geo: maxRangeKm must be positive")
	}
	return &Pricing{Shop: shop, Tiers: tiers, MaxRangeKm: maxRangeKm, FreeDeliveryMin: freeDeliveryMin}, nil
}

func (p *Pricing) Serviceable(distanceKm float64) bool {
	return distanceKm <= p.MaxRangeKm
}

// charge returns the first tier covering the distance.
func (p *Pricing) charge(distanceKm float64) int64 {
	for _, t := range p.Tiers {
		if distanceKm <= t.UpToKm {
			return t.Charge
		}
	}
	// range check happens before charging; the last tier covers MaxRangeKm
	return p.Tiers[len(p.Tiers)-1].Charge
}

type Quote struct {
	Calculated int64 `json:"calculatedCharge"` // tier charge, kept for display
	Applied    int64 `json:"deliveryCharge"`   // zero when the waiver kicks in
}

// QuoteFor prices a delivery to dest with the given order subtotal.
func (p *Pricing) QuoteFor(dest Point, subtotal int64) (Quote, float64, error) {
	d := Distance(p.Shop, dest)
	if !p.Serviceable(d) {
		return Quote{}, d, &apperr.OutOfServiceRange{DistanceKm: d, MaxRangeKm: p.MaxRangeKm}
	}
	q := Quote{Calculated: p.charge(d)}
	q.Applied = q.Calculated
	if subtotal >= p.FreeDeliveryMin {
		q.Applied = 0
	}
	return q, d, nil
}
