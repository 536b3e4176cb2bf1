// Package delivery computes distance-based delivery fees for vendor orders.
package delivery

import (
	"math"

	"github.com/shopspring/decimal"
	"gitlab.com/napatw/pantry-bot/internal/models"
)

const earthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance between two coordinates in
// kilometers using the haversine formula.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLng := radians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Quote is the fee breakdown for a delivery from a vendor to a customer.
type Quote struct {
	DistanceKm float64
	BaseFee    decimal.Decimal
	PerKmFee   decimal.Decimal
	Total      decimal.Decimal
}

// QuoteFee computes the delivery fee from a vendor to the given coordinates.
// The total is base fee plus per-km rate times the distance, rounded to
// satang.
func QuoteFee(vendor models.Vendor, lat, lng float64) Quote {
	km := DistanceKm(vendor.Lat, vendor.Lng, lat, lng)
	perKm := vendor.DeliveryPerKm.Mul(decimal.NewFromFloat(km))
	total := vendor.DeliveryBaseFee.Add(perKm).Round(2)

	return Quote{
		DistanceKm: km,
		BaseFee:    vendor.DeliveryBaseFee,
		PerKmFee:   perKm.Round(2),
		Total:      total,
	}
}
