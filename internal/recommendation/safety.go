package recommendation

// SafetyTier is the derived safety classification of a variant.
type SafetyTier string

const (
	SafetyTopTier  SafetyTier = "top_tier"
	SafetyAdvanced SafetyTier = "advanced"
	SafetyBasic    SafetyTier = "basic"
	SafetyUnknown  SafetyTier = "unknown"
)

const maxNCAPRating = 5

var tierRank = map[SafetyTier]int{
	SafetyUnknown:  0,
	SafetyBasic:    1,
	SafetyAdvanced: 2,
	SafetyTopTier:  3,
}

// ParseSafetyTier maps a preference label to a tier. no_preference and
// unrecognised labels return false.
func ParseSafetyTier(label string) (SafetyTier, bool) {
	switch SafetyTier(label) {
	case SafetyTopTier, SafetyAdvanced, SafetyBasic:
		return SafetyTier(label), true
	}
	return "", false
}

// AtLeast reports whether t is as strong as floor.
func (t SafetyTier) AtLeast(floor SafetyTier) bool {
	return tierRank[t] >= tierRank[floor]
}

// ClassifySafety derives the tier from the raw safety attributes. Rules are
// checked strongest first and the first match wins.
func ClassifySafety(v CarVariant) SafetyTier {
	airbags := 0
	if v.AirbagCount != nil {
		airbags = *v.AirbagCount
	}

	switch {
	case v.NCAPRating != nil && *v.NCAPRating == maxNCAPRating &&
		v.HasAutomaticEmergencyBraking &&
		(v.HasBlindSpotMonitor || v.HasBlindSpotCollisionAvoidance):
		return SafetyTopTier
	case airbags >= 6 && v.HasElectronicStabilityProgram && v.HasAutomaticEmergencyBraking:
		return SafetyAdvanced
	case v.HasAntiLockBrakes && airbags >= 2:
		return SafetyBasic
	default:
		return SafetyUnknown
	}
}
