package recommendation

import "strings"

// Budget bucket labels as sent by the recommendation form.
const (
	BudgetUnder10L   = "<10,00,000"
	Budget10To20L    = "10,00,000 to 20,00,000"
	Budget20To40L    = "20,00,000 to 40,00,000"
	BudgetAbove40L   = ">40,00,000"
	SeatingTwo       = "2"
	SeatingFourFive  = "4-5"
	SeatingSixSeven  = "6-7"
	SeatingEightPlus = "8+"
)

const (
	NoPreference = "no_preference"

	PerformanceHighMileage = "highMileage"
	PerformanceBalanced    = "balanced"
	PerformanceHigh        = "performance"

	FeatureSunroof = "sunroof"
	FeatureAWD     = "awd"
	FeatureBoot    = "boot"
)

// UserPreferences is the recommendation request payload. Every field is optional.
type UserPreferences struct {
	Budget                string   `json:"budget,omitempty"`
	FuelType              string   `json:"fuelType,omitempty"`
	BodyType              string   `json:"bodyType,omitempty"`
	SeatingCapacity       string   `json:"seatingCapacity,omitempty"`
	TransmissionType      string   `json:"transmissionType,omitempty"`
	SafetyPreference      string   `json:"safetyPreference,omitempty"`
	PerformancePreference string   `json:"performancePreference,omitempty"`
	AdditionalFeatures    []string `json:"additionalFeatures,omitempty"`
	BrandPreference       []string `json:"brandPreference,omitempty"`
}

type priceRange struct {
	min, max float64
	hasMin   bool
	hasMax   bool
}

func (r priceRange) contains(v float64) bool {
	if r.hasMin && v < r.min {
		return false
	}
	if r.hasMax && v > r.max {
		return false
	}
	return true
}

// Adjacent buckets share their boundary price.
var budgetRanges = map[string]priceRange{
	BudgetUnder10L: {max: 1_000_000, hasMax: true},
	Budget10To20L:  {min: 1_000_000, max: 2_000_000, hasMin: true, hasMax: true},
	Budget20To40L:  {min: 2_000_000, max: 4_000_000, hasMin: true, hasMax: true},
	BudgetAbove40L: {min: 4_000_000, hasMin: true},
}

// seatingBucketMatches reports whether seats fall in the bucket. The bool result is
// false when the label is not a known bucket.
func seatingBucketMatches(bucket string, seats int) (matches bool, known bool) {
	switch bucket {
	case SeatingTwo:
		return seats == 2, true
	case SeatingFourFive:
		return seats >= 4 && seats <= 5, true
	case SeatingSixSeven:
		return seats >= 6 && seats <= 7, true
	case SeatingEightPlus:
		return seats >= 8, true
	default:
		return false, false
	}
}

func performanceMatches(pref string, hp float64) (matches bool, known bool) {
	switch pref {
	case PerformanceHighMileage:
		return hp < 90, true
	case PerformanceBalanced:
		return hp >= 90 && hp <= 120, true
	case PerformanceHigh:
		return hp > 120, true
	default:
		return false, false
	}
}

func (p UserPreferences) wantsFeature(feature string) bool {
	for _, f := range p.AdditionalFeatures {
		if f == feature {
			return true
		}
	}
	return false
}

func (p UserPreferences) prefersBrand(brand string) bool {
	for _, b := range p.BrandPreference {
		if b == brand {
			return true
		}
	}
	return false
}

func isAllWheelDrive(driveType string) bool {
	switch strings.ToUpper(strings.TrimSpace(driveType)) {
	case "AWD", "4WD":
		return true
	}
	return false
}

// IsKnownBudget reports whether label is one of the four budget buckets.
func IsKnownBudget(label string) bool {
	_, ok := budgetRanges[label]
	return ok
}

// BudgetBounds returns the inclusive price bounds of a bucket. A zero bound is open.
func BudgetBounds(label string) (lo, hi float64, ok bool) {
	r, ok := budgetRanges[label]
	if !ok {
		return 0, 0, false
	}
	return r.min, r.max, true
}
