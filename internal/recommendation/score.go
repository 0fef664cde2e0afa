package recommendation

import (
	"fmt"
	"strconv"
)

// Point awards per soft criterion.
const (
	PointsBrand        = 20
	PointsFuel         = 20
	PointsBodyType     = 20
	PointsSeating      = 15
	PointsTransmission = 10
	PointsSafety       = 15
	PointsPerformance  = 10
	PointsBoot         = 10
	PointsSunroof      = 5
	PointsAWD          = 5

	MaxScore = PointsBrand + PointsFuel + PointsBodyType + PointsSeating + PointsTransmission +
		PointsSafety + PointsPerformance + PointsBoot + PointsSunroof + PointsAWD

	highPerformanceBHP = 120
)

// criterion awards points when it fires and returns the explanation sentence.
type criterion func(p UserPreferences, v CarVariant, tier SafetyTier) (points int, reason string, ok bool)

// criteria are evaluated in this order so explanations are deterministic.
var criteria = []criterion{
	brandCriterion,
	fuelCriterion,
	bodyTypeCriterion,
	seatingCriterion,
	transmissionCriterion,
	safetyCriterion,
	performanceCriterion,
	bootCriterion,
	sunroofCriterion,
	awdCriterion,
}

// Score computes the soft-preference match of a filtered variant.
func Score(prefs UserPreferences, v CarVariant) ScoredCandidate {
	tier := ClassifySafety(v)
	sc := ScoredCandidate{
		CarVariant:  v,
		SafetyTier:  tier,
		Explanation: []string{},
	}

	for _, c := range criteria {
		if points, reason, ok := c(prefs, v, tier); ok {
			sc.Score += points
			sc.Explanation = append(sc.Explanation, reason)
		}
	}
	return sc
}

func brandCriterion(p UserPreferences, v CarVariant, _ SafetyTier) (int, string, bool) {
	if v.Brand == "" || !p.prefersBrand(v.Brand) {
		return 0, "", false
	}
	return PointsBrand, fmt.Sprintf("Matches your preferred brand (%s).", v.Brand), true
}

func fuelCriterion(p UserPreferences, v CarVariant, _ SafetyTier) (int, string, bool) {
	if p.FuelType == "" || v.FuelType != p.FuelType {
		return 0, "", false
	}
	return PointsFuel, fmt.Sprintf("Uses your preferred fuel type (%s).", p.FuelType), true
}

func bodyTypeCriterion(p UserPreferences, v CarVariant, _ SafetyTier) (int, string, bool) {
	if p.BodyType == "" || v.BodyType != p.BodyType {
		return 0, "", false
	}
	return PointsBodyType, fmt.Sprintf("Matches your preferred body type (%s).", p.BodyType), true
}

func seatingCriterion(p UserPreferences, v CarVariant, _ SafetyTier) (int, string, bool) {
	if v.SeatingCapacity == nil {
		return 0, "", false
	}
	if ok, _ := seatingBucketMatches(p.SeatingCapacity, *v.SeatingCapacity); !ok {
		return 0, "", false
	}
	return PointsSeating, fmt.Sprintf("Has seating for %d people.", *v.SeatingCapacity), true
}

func transmissionCriterion(p UserPreferences, v CarVariant, _ SafetyTier) (int, string, bool) {
	if p.TransmissionType == "" || p.TransmissionType == NoPreference || v.TransmissionType != p.TransmissionType {
		return 0, "", false
	}
	return PointsTransmission, fmt.Sprintf("Comes with a %s transmission.", p.TransmissionType), true
}

// safetyCriterion requires the exact tier, unlike the cumulative filter.
func safetyCriterion(p UserPreferences, v CarVariant, tier SafetyTier) (int, string, bool) {
	want, ok := ParseSafetyTier(p.SafetyPreference)
	if !ok || v.SafetyAttributesParseFailed || tier != want {
		return 0, "", false
	}
	return PointsSafety, fmt.Sprintf("Offers %s safety level.", want), true
}

func performanceCriterion(p UserPreferences, v CarVariant, _ SafetyTier) (int, string, bool) {
	if p.PerformancePreference != PerformanceHigh || v.HorsepowerBHP == nil || *v.HorsepowerBHP < highPerformanceBHP {
		return 0, "", false
	}
	hp := strconv.FormatFloat(*v.HorsepowerBHP, 'f', -1, 64)
	return PointsPerformance, fmt.Sprintf("Has high performance with %s BHP.", hp), true
}

func bootCriterion(p UserPreferences, v CarVariant, _ SafetyTier) (int, string, bool) {
	if !p.wantsFeature(FeatureBoot) || v.BootSpaceLiters == nil || *v.BootSpaceLiters < largeBootLiters {
		return 0, "", false
	}
	return PointsBoot, fmt.Sprintf("Provides large boot space (%dL).", *v.BootSpaceLiters), true
}

func sunroofCriterion(p UserPreferences, v CarVariant, _ SafetyTier) (int, string, bool) {
	if !p.wantsFeature(FeatureSunroof) || !v.HasSunroof {
		return 0, "", false
	}
	return PointsSunroof, "Comes with a sunroof.", true
}

func awdCriterion(p UserPreferences, v CarVariant, _ SafetyTier) (int, string, bool) {
	if !p.wantsFeature(FeatureAWD) || !isAllWheelDrive(v.DriveType) {
		return 0, "", false
	}
	return PointsAWD, fmt.Sprintf("Equipped with %s for better control.", v.DriveType), true
}
