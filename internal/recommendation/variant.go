package recommendation

// CarVariant is one trim of a car model as loaded by the candidate store.
// Pointer fields are nil when the source column was missing or did not parse.
type CarVariant struct {
	VariantID string `json:"variantId"`
	ModelID   string `json:"modelId"`
	Brand     string `json:"brand"`
	Model     string `json:"model"`
	Variant   string `json:"variant,omitempty"`

	BodyType         string `json:"bodyType"`
	FuelType         string `json:"fuelType"`
	TransmissionType string `json:"transmissionType"`
	DriveType        string `json:"driveType"`

	Price           *float64 `json:"price"`
	HorsepowerBHP   *float64 `json:"horsepowerBhp"`
	SeatingCapacity *int     `json:"seatingCapacity"`
	BootSpaceLiters *int     `json:"bootSpaceLiters"`

	NCAPRating                     *int `json:"ncapRating"`
	AirbagCount                    *int `json:"airbagCount"`
	HasAutomaticEmergencyBraking   bool `json:"hasAutomaticEmergencyBraking"`
	HasBlindSpotMonitor            bool `json:"hasBlindSpotMonitor"`
	HasBlindSpotCollisionAvoidance bool `json:"hasBlindSpotCollisionAvoidance"`
	HasElectronicStabilityProgram  bool `json:"hasElectronicStabilityProgram"`
	HasAntiLockBrakes              bool `json:"hasAntiLockBrakes"`
	SafetyAttributesParseFailed    bool `json:"-"`

	HasSunroof         bool     `json:"hasSunroof"`
	SunroofType        string   `json:"sunroofType,omitempty"`
	AdditionalFeatures []string `json:"additionalFeatures,omitempty"`
}

// ScoredCandidate is a variant that passed filtering, with its match score.
type ScoredCandidate struct {
	CarVariant
	SafetyTier  SafetyTier `json:"safetyTier"`
	Score       int        `json:"score"`
	Explanation []string   `json:"explanation"`
}

// FeatureTags returns the feature tags the variant satisfies, in
// sunroof, awd, boot order.
func FeatureTags(v CarVariant) []string {
	var tags []string
	if v.HasSunroof {
		tags = append(tags, FeatureSunroof)
	}
	if isAllWheelDrive(v.DriveType) {
		tags = append(tags, FeatureAWD)
	}
	if v.BootSpaceLiters != nil && *v.BootSpaceLiters >= largeBootLiters {
		tags = append(tags, FeatureBoot)
	}
	return tags
}
