package queryfuelprices

import "math"

// mileageTable is km per litre by car type and driving pattern.
var mileageTable = map[string]map[string]float64{
	"compact": {"city": 15, "highway": 20, "mixed": 17},
	"sedan":   {"city": 12, "highway": 18, "mixed": 15},
	"suv":     {"city": 8, "highway": 14, "mixed": 11},
}

func mileageFor(trip *TripInput) (float64, bool) {
	if trip.Mileage > 0 {
		return trip.Mileage, true
	}
	byDriving, ok := mileageTable[trip.CarType]
	if !ok {
		return 0, false
	}
	kmpl, ok := byDriving[trip.DrivingType]
	return kmpl, ok
}

func estimateTrip(trip *TripInput, mileage, price float64) *TripEstimate {
	litres := trip.DistanceKm / mileage
	return &TripEstimate{
		MileageKmpl: mileage,
		Litres:      round2(litres),
		Cost:        round2(litres * price),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
