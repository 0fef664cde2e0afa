package recommendation

const largeBootLiters = 400

// Predicate is one hard constraint derived from the preferences.
type Predicate struct {
	Name  string
	Match func(v CarVariant) bool
}

// BuildFilters translates preferences into hard constraints. Absent fields,
// no_preference and unrecognised bucket labels contribute no predicate.
func BuildFilters(prefs UserPreferences) []Predicate {
	var preds []Predicate

	if prefs.FuelType != "" {
		want := prefs.FuelType
		preds = append(preds, Predicate{Name: "fuelType", Match: func(v CarVariant) bool {
			return v.FuelType == want
		}})
	}

	if prefs.BodyType != "" {
		want := prefs.BodyType
		preds = append(preds, Predicate{Name: "bodyType", Match: func(v CarVariant) bool {
			return v.BodyType == want
		}})
	}

	if _, known := seatingBucketMatches(prefs.SeatingCapacity, 0); known {
		bucket := prefs.SeatingCapacity
		preds = append(preds, Predicate{Name: "seatingCapacity", Match: func(v CarVariant) bool {
			if v.SeatingCapacity == nil {
				return false
			}
			ok, _ := seatingBucketMatches(bucket, *v.SeatingCapacity)
			return ok
		}})
	}

	if prefs.TransmissionType != "" && prefs.TransmissionType != NoPreference {
		want := prefs.TransmissionType
		preds = append(preds, Predicate{Name: "transmissionType", Match: func(v CarVariant) bool {
			return v.TransmissionType == want
		}})
	}

	if r, ok := budgetRanges[prefs.Budget]; ok {
		preds = append(preds, Predicate{Name: "budget", Match: func(v CarVariant) bool {
			return v.Price != nil && r.contains(*v.Price)
		}})
	}

	if floor, ok := ParseSafetyTier(prefs.SafetyPreference); ok {
		preds = append(preds, Predicate{Name: "safetyPreference", Match: func(v CarVariant) bool {
			if v.SafetyAttributesParseFailed {
				return false
			}
			return ClassifySafety(v).AtLeast(floor)
		}})
	}

	if _, known := performanceMatches(prefs.PerformancePreference, 0); known {
		pref := prefs.PerformancePreference
		preds = append(preds, Predicate{Name: "performancePreference", Match: func(v CarVariant) bool {
			if v.HorsepowerBHP == nil {
				return false
			}
			ok, _ := performanceMatches(pref, *v.HorsepowerBHP)
			return ok
		}})
	}

	if prefs.wantsFeature(FeatureSunroof) {
		preds = append(preds, Predicate{Name: "sunroof", Match: func(v CarVariant) bool {
			return v.HasSunroof
		}})
	}
	if prefs.wantsFeature(FeatureAWD) {
		preds = append(preds, Predicate{Name: "awd", Match: func(v CarVariant) bool {
			return isAllWheelDrive(v.DriveType)
		}})
	}
	if prefs.wantsFeature(FeatureBoot) {
		preds = append(preds, Predicate{Name: "boot", Match: func(v CarVariant) bool {
			return v.BootSpaceLiters != nil && *v.BootSpaceLiters >= largeBootLiters
		}})
	}

	if len(prefs.BrandPreference) > 0 {
		preds = append(preds, Predicate{Name: "brandPreference", Match: func(v CarVariant) bool {
			return prefs.prefersBrand(v.Brand)
		}})
	}

	return preds
}

// Filter returns the variants that satisfy every hard constraint, in input order.
func Filter(prefs UserPreferences, variants []CarVariant) []CarVariant {
	preds := BuildFilters(prefs)
	if len(preds) == 0 {
		return variants
	}

	out := make([]CarVariant, 0, len(variants))
	for _, v := range variants {
		if matchesAll(preds, v) {
			out = append(out, v)
		}
	}
	return out
}

func matchesAll(preds []Predicate, v CarVariant) bool {
	for _, p := range preds {
		if !p.Match(v) {
			return false
		}
	}
	return true
}
