package recommendation

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func hyundaiCreta() CarVariant {
	return CarVariant{
		VariantID:                     "v-creta-sx",
		ModelID:                       "m-creta",
		Brand:                         "Hyundai",
		Model:                         "Creta",
		Variant:                       "SX (O) Turbo DCT",
		BodyType:                      "SUV",
		FuelType:                      "Petrol",
		TransmissionType:              "Automatic",
		DriveType:                     "FWD",
		Price:                         floatPtr(1_500_000),
		HorsepowerBHP:                 floatPtr(158),
		SeatingCapacity:               intPtr(5),
		BootSpaceLiters:               intPtr(433),
		AirbagCount:                   intPtr(6),
		HasAutomaticEmergencyBraking:  true,
		HasElectronicStabilityProgram: true,
		HasAntiLockBrakes:             true,
	}
}

func basicHatch() CarVariant {
	return CarVariant{
		VariantID:         "v-alto",
		ModelID:           "m-alto",
		Brand:             "Maruti",
		Model:             "Alto K10",
		BodyType:          "Hatchback",
		FuelType:          "Petrol",
		TransmissionType:  "Manual",
		DriveType:         "FWD",
		Price:             floatPtr(399_000),
		HorsepowerBHP:     floatPtr(65.71),
		SeatingCapacity:   intPtr(4),
		BootSpaceLiters:   intPtr(214),
		AirbagCount:       intPtr(2),
		HasAntiLockBrakes: true,
	}
}

func topTierSUV() CarVariant {
	return CarVariant{
		VariantID:                    "v-xuv700",
		ModelID:                      "m-xuv700",
		Brand:                        "Mahindra",
		Model:                        "XUV700",
		BodyType:                     "SUV",
		FuelType:                     "Diesel",
		TransmissionType:             "Automatic",
		DriveType:                    "AWD",
		Price:                        floatPtr(2_600_000),
		HorsepowerBHP:                floatPtr(182.38),
		SeatingCapacity:              intPtr(7),
		BootSpaceLiters:              intPtr(240),
		NCAPRating:                   intPtr(5),
		AirbagCount:                  intPtr(7),
		HasAutomaticEmergencyBraking: true,
		HasBlindSpotMonitor:          true,
		HasAntiLockBrakes:            true,
		HasSunroof:                   true,
		SunroofType:                  "Panoramic",
	}
}

func TestClassifySafety(t *testing.T) {
	tests := []struct {
		name     string
		variant  CarVariant
		expected SafetyTier
	}{
		{
			name:     "five star with AEB and blind spot monitor",
			variant:  topTierSUV(),
			expected: SafetyTopTier,
		},
		{
			name: "five star with AEB and blind spot collision avoidance",
			variant: CarVariant{
				NCAPRating:                     intPtr(5),
				HasAutomaticEmergencyBraking:   true,
				HasBlindSpotCollisionAvoidance: true,
			},
			expected: SafetyTopTier,
		},
		{
			name: "five star without blind spot falls through to advanced",
			variant: CarVariant{
				NCAPRating:                    intPtr(5),
				AirbagCount:                   intPtr(6),
				HasAutomaticEmergencyBraking:  true,
				HasElectronicStabilityProgram: true,
			},
			expected: SafetyAdvanced,
		},
		{
			name:     "six airbags ESP and AEB",
			variant:  hyundaiCreta(),
			expected: SafetyAdvanced,
		},
		{
			name: "six airbags without AEB is basic",
			variant: CarVariant{
				AirbagCount:                   intPtr(6),
				HasElectronicStabilityProgram: true,
				HasAntiLockBrakes:             true,
			},
			expected: SafetyBasic,
		},
		{
			name:     "ABS and two airbags",
			variant:  basicHatch(),
			expected: SafetyBasic,
		},
		{
			name: "ABS with one airbag",
			variant: CarVariant{
				AirbagCount:       intPtr(1),
				HasAntiLockBrakes: true,
			},
			expected: SafetyUnknown,
		},
		{
			name:     "no safety data",
			variant:  CarVariant{},
			expected: SafetyUnknown,
		},
		{
			name: "four star rating never reaches top tier",
			variant: CarVariant{
				NCAPRating:                   intPtr(4),
				HasAutomaticEmergencyBraking: true,
				HasBlindSpotMonitor:          true,
			},
			expected: SafetyUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifySafety(tt.variant))
			// recomputation must be stable
			assert.Equal(t, ClassifySafety(tt.variant), ClassifySafety(tt.variant))
		})
	}
}

func TestSafetyTier_AtLeast(t *testing.T) {
	assert.True(t, SafetyTopTier.AtLeast(SafetyAdvanced))
	assert.True(t, SafetyTopTier.AtLeast(SafetyBasic))
	assert.True(t, SafetyAdvanced.AtLeast(SafetyAdvanced))
	assert.False(t, SafetyBasic.AtLeast(SafetyAdvanced))
	assert.False(t, SafetyUnknown.AtLeast(SafetyBasic))
}

func TestFilter_EmptyPreferencesReturnsEverything(t *testing.T) {
	variants := []CarVariant{hyundaiCreta(), basicHatch(), topTierSUV(), {VariantID: "bare"}}

	out := Filter(UserPreferences{}, variants)

	assert.Equal(t, variants, out)
	assert.Empty(t, BuildFilters(UserPreferences{}))
}

func TestFilter_BudgetBoundariesAreInclusive(t *testing.T) {
	at := func(price float64) CarVariant {
		return CarVariant{VariantID: fmt.Sprintf("p-%.0f", price), Price: floatPtr(price)}
	}

	tests := []struct {
		budget string
		price  float64
		passes bool
	}{
		{BudgetUnder10L, 1_000_000, true},
		{BudgetUnder10L, 1_000_001, false},
		{Budget10To20L, 1_000_000, true},
		{Budget10To20L, 2_000_000, true},
		{Budget10To20L, 999_999, false},
		{Budget20To40L, 2_000_000, true},
		{Budget20To40L, 4_000_000, true},
		{Budget20To40L, 4_000_001, false},
		{BudgetAbove40L, 4_000_000, true},
		{BudgetAbove40L, 3_999_999, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s at %.0f", tt.budget, tt.price), func(t *testing.T) {
			out := Filter(UserPreferences{Budget: tt.budget}, []CarVariant{at(tt.price)})
			if tt.passes {
				assert.Len(t, out, 1)
			} else {
				assert.Empty(t, out)
			}
		})
	}
}

func TestFilter_MissingPriceFailsOnlyBudget(t *testing.T) {
	v := hyundaiCreta()
	v.Price = nil

	assert.Empty(t, Filter(UserPreferences{Budget: Budget10To20L}, []CarVariant{v}))
	assert.Len(t, Filter(UserPreferences{FuelType: "Petrol"}, []CarVariant{v}), 1)
}

func TestFilter_SafetyIsCumulative(t *testing.T) {
	variants := []CarVariant{topTierSUV(), hyundaiCreta(), basicHatch(), {VariantID: "unknown"}}

	tests := []struct {
		pref     string
		expected []string
	}{
		{"top_tier", []string{"v-xuv700"}},
		{"advanced", []string{"v-xuv700", "v-creta-sx"}},
		{"basic", []string{"v-xuv700", "v-creta-sx", "v-alto"}},
		{"no_preference", []string{"v-xuv700", "v-creta-sx", "v-alto", "unknown"}},
		{"bogus", []string{"v-xuv700", "v-creta-sx", "v-alto", "unknown"}},
	}

	for _, tt := range tests {
		t.Run(tt.pref, func(t *testing.T) {
			out := Filter(UserPreferences{SafetyPreference: tt.pref}, variants)
			assert.Equal(t, tt.expected, variantIDs(out))
		})
	}
}

func TestFilter_UnparseableSafetyExcludedOnlyFromTierFilter(t *testing.T) {
	v := hyundaiCreta()
	v.AirbagCount = nil
	v.SafetyAttributesParseFailed = true

	assert.Empty(t, Filter(UserPreferences{SafetyPreference: "basic"}, []CarVariant{v}))
	assert.Len(t, Filter(UserPreferences{BodyType: "SUV", FuelType: "Petrol"}, []CarVariant{v}), 1)
}

func TestFilter_SeatingBuckets(t *testing.T) {
	seats := func(n int) CarVariant {
		return CarVariant{VariantID: fmt.Sprintf("s%d", n), SeatingCapacity: intPtr(n)}
	}
	variants := []CarVariant{seats(2), seats(4), seats(5), seats(6), seats(7), seats(8), seats(9), {VariantID: "none"}}

	tests := []struct {
		bucket   string
		expected []string
	}{
		{SeatingTwo, []string{"s2"}},
		{SeatingFourFive, []string{"s4", "s5"}},
		{SeatingSixSeven, []string{"s6", "s7"}},
		{SeatingEightPlus, []string{"s8", "s9"}},
		{"3", []string{"s2", "s4", "s5", "s6", "s7", "s8", "s9", "none"}},
	}

	for _, tt := range tests {
		t.Run(tt.bucket, func(t *testing.T) {
			assert.Equal(t, tt.expected, variantIDs(Filter(UserPreferences{SeatingCapacity: tt.bucket}, variants)))
		})
	}
}

func TestFilter_PerformanceRanges(t *testing.T) {
	hp := func(v float64) CarVariant {
		return CarVariant{VariantID: fmt.Sprintf("hp%.0f", v), HorsepowerBHP: floatPtr(v)}
	}
	variants := []CarVariant{hp(89), hp(90), hp(120), hp(121), {VariantID: "unparsed"}}

	assert.Equal(t, []string{"hp89"}, variantIDs(Filter(UserPreferences{PerformancePreference: "highMileage"}, variants)))
	assert.Equal(t, []string{"hp90", "hp120"}, variantIDs(Filter(UserPreferences{PerformancePreference: "balanced"}, variants)))
	assert.Equal(t, []string{"hp121"}, variantIDs(Filter(UserPreferences{PerformancePreference: "performance"}, variants)))
	assert.Len(t, Filter(UserPreferences{PerformancePreference: NoPreference}, variants), 5)
}

func TestFilter_FeaturesTransmissionAndBrand(t *testing.T) {
	variants := []CarVariant{hyundaiCreta(), basicHatch(), topTierSUV()}

	tests := []struct {
		name     string
		prefs    UserPreferences
		expected []string
	}{
		{"sunroof", UserPreferences{AdditionalFeatures: []string{"sunroof"}}, []string{"v-xuv700"}},
		{"awd", UserPreferences{AdditionalFeatures: []string{"awd"}}, []string{"v-xuv700"}},
		{"boot", UserPreferences{AdditionalFeatures: []string{"boot"}}, []string{"v-creta-sx"}},
		{"unknown feature tag", UserPreferences{AdditionalFeatures: []string{"heated seats"}}, []string{"v-creta-sx", "v-alto", "v-xuv700"}},
		{"automatic", UserPreferences{TransmissionType: "Automatic"}, []string{"v-creta-sx", "v-xuv700"}},
		{"no transmission preference", UserPreferences{TransmissionType: NoPreference}, []string{"v-creta-sx", "v-alto", "v-xuv700"}},
		{"brands", UserPreferences{BrandPreference: []string{"Maruti", "Mahindra"}}, []string{"v-alto", "v-xuv700"}},
		{"combined", UserPreferences{BodyType: "SUV", FuelType: "Diesel", Budget: Budget20To40L}, []string{"v-xuv700"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, variantIDs(Filter(tt.prefs, variants)))
		})
	}
}

func TestScore_ExactSumAndOrderedExplanation(t *testing.T) {
	prefs := UserPreferences{
		Budget:           Budget10To20L,
		FuelType:         "Petrol",
		BodyType:         "SUV",
		SeatingCapacity:  SeatingFourFive,
		TransmissionType: "Automatic",
		SafetyPreference: "advanced",
		BrandPreference:  []string{"Hyundai"},
	}

	sc := Score(prefs, hyundaiCreta())

	assert.Equal(t, 100, sc.Score)
	assert.Equal(t, SafetyAdvanced, sc.SafetyTier)
	assert.Equal(t, []string{
		"Matches your preferred brand (Hyundai).",
		"Uses your preferred fuel type (Petrol).",
		"Matches your preferred body type (SUV).",
		"Has seating for 5 people.",
		"Comes with a Automatic transmission.",
		"Offers advanced safety level.",
	}, sc.Explanation)
}

func TestScore_AllCriteria(t *testing.T) {
	prefs := UserPreferences{
		FuelType:              "Diesel",
		BodyType:              "SUV",
		SeatingCapacity:       SeatingSixSeven,
		TransmissionType:      "Automatic",
		SafetyPreference:      "top_tier",
		PerformancePreference: "performance",
		AdditionalFeatures:    []string{"sunroof", "awd", "boot"},
		BrandPreference:       []string{"Mahindra"},
	}
	v := topTierSUV()
	v.BootSpaceLiters = intPtr(400)

	sc := Score(prefs, v)

	assert.Equal(t, MaxScore, sc.Score)
	assert.Equal(t, 130, sc.Score)
	require.Len(t, sc.Explanation, 10)
	assert.Equal(t, "Has high performance with 182.38 BHP.", sc.Explanation[6])
	assert.Equal(t, "Provides large boot space (400L).", sc.Explanation[7])
	assert.Equal(t, "Comes with a sunroof.", sc.Explanation[8])
	assert.Equal(t, "Equipped with AWD for better control.", sc.Explanation[9])
}

func TestScore_FeatureAwardsDoNotFireWithoutFeature(t *testing.T) {
	prefs := UserPreferences{AdditionalFeatures: []string{"sunroof", "awd"}}

	sc := Score(prefs, hyundaiCreta())

	assert.Zero(t, sc.Score)
	assert.Empty(t, sc.Explanation)
	assert.NotNil(t, sc.Explanation)
}

func TestScore_MissingNumericFieldsNeverAward(t *testing.T) {
	prefs := UserPreferences{
		FuelType:              "Petrol",
		SeatingCapacity:       SeatingFourFive,
		PerformancePreference: "performance",
		AdditionalFeatures:    []string{"boot"},
	}
	v := hyundaiCreta()
	v.SeatingCapacity = nil
	v.HorsepowerBHP = nil
	v.BootSpaceLiters = nil

	sc := Score(prefs, v)

	assert.Equal(t, PointsFuel, sc.Score)
	assert.Equal(t, []string{"Uses your preferred fuel type (Petrol)."}, sc.Explanation)
}

func TestScore_SafetyIsExactMatch(t *testing.T) {
	sc := Score(UserPreferences{SafetyPreference: "advanced"}, topTierSUV())
	assert.Zero(t, sc.Score)

	sc = Score(UserPreferences{SafetyPreference: "top_tier"}, topTierSUV())
	assert.Equal(t, PointsSafety, sc.Score)
	assert.Equal(t, []string{"Offers top_tier safety level."}, sc.Explanation)
}

func TestScore_SeatingTwoIsExact(t *testing.T) {
	v := CarVariant{SeatingCapacity: intPtr(1)}
	assert.Zero(t, Score(UserPreferences{SeatingCapacity: SeatingTwo}, v).Score)

	v.SeatingCapacity = intPtr(2)
	assert.Equal(t, PointsSeating, Score(UserPreferences{SeatingCapacity: SeatingTwo}, v).Score)
}

func TestRank_SortsDescendingAndKeepsTiesInInputOrder(t *testing.T) {
	in := []ScoredCandidate{
		{CarVariant: CarVariant{VariantID: "a"}, Score: 20},
		{CarVariant: CarVariant{VariantID: "b"}, Score: 55},
		{CarVariant: CarVariant{VariantID: "c"}, Score: 20},
		{CarVariant: CarVariant{VariantID: "d"}, Score: 55},
		{CarVariant: CarVariant{VariantID: "e"}, Score: 0},
	}

	out := Rank(in, MaxRecommendations)

	require.Len(t, out, 3)
	assert.Equal(t, "b", out[0].VariantID)
	assert.Equal(t, "d", out[1].VariantID)
	assert.Equal(t, "a", out[2].VariantID)
	assert.Equal(t, "a", in[0].VariantID, "input slice must not be reordered")
}

func TestRank_FewerThanLimit(t *testing.T) {
	assert.Empty(t, Rank(nil, MaxRecommendations))
	assert.Len(t, Rank([]ScoredCandidate{{Score: 1}, {Score: 2}}, MaxRecommendations), 2)
}

func TestRecommend_Scenario(t *testing.T) {
	prefs := UserPreferences{
		Budget:           Budget10To20L,
		FuelType:         "Petrol",
		BodyType:         "SUV",
		SeatingCapacity:  SeatingFourFive,
		TransmissionType: "Automatic",
		SafetyPreference: "advanced",
		BrandPreference:  []string{"Hyundai"},
	}

	res := Recommend(prefs, []CarVariant{basicHatch(), topTierSUV(), hyundaiCreta()})

	require.Len(t, res.Recommendations, 1)
	assert.Equal(t, 1, res.CandidateCount)
	top := res.Recommendations[0]
	assert.Equal(t, "v-creta-sx", top.VariantID)
	assert.GreaterOrEqual(t, top.Score, 100)
	assert.Len(t, top.Explanation, 6)
}

func TestRecommend_NoMatchesIsEmptyNotError(t *testing.T) {
	res := Recommend(UserPreferences{BodyType: "SUV"}, []CarVariant{basicHatch()})

	assert.NotNil(t, res.Recommendations)
	assert.Empty(t, res.Recommendations)
	assert.Zero(t, res.CandidateCount)
}

func TestRecommend_EmptyPreferencesStillRanks(t *testing.T) {
	res := Recommend(UserPreferences{}, []CarVariant{basicHatch(), topTierSUV(), hyundaiCreta(), {VariantID: "x"}})

	assert.Len(t, res.Recommendations, 3)
	assert.Equal(t, 4, res.CandidateCount)
	assert.Equal(t, "v-alto", res.Recommendations[0].VariantID)
}

func TestRecommend_ResultsIndependentOfInputOrder(t *testing.T) {
	tie := func(id string) CarVariant {
		v := hyundaiCreta()
		v.VariantID = id
		return v
	}
	dataset := []CarVariant{
		tie("tie-1"), topTierSUV(), tie("tie-2"), basicHatch(),
		tie("tie-3"), tie("tie-4"), {VariantID: "v-bare"}, tie("tie-5"),
	}
	prefs := UserPreferences{
		TransmissionType: "Automatic",
		SafetyPreference: "advanced",
	}

	type verdict struct {
		tier        SafetyTier
		explanation []string
	}
	baseline := make(map[string]verdict, len(dataset))
	for _, v := range dataset {
		baseline[v.VariantID] = verdict{ClassifySafety(v), Score(prefs, v).Explanation}
	}

	reversed := make([]CarVariant, len(dataset))
	for i, v := range dataset {
		reversed[len(dataset)-1-i] = v
	}
	shuffled := append([]CarVariant(nil), dataset...)
	rand.New(rand.NewSource(42)).Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	tests := []struct {
		name     string
		variants []CarVariant
	}{
		{name: "as loaded", variants: dataset},
		{name: "reversed", variants: reversed},
		{name: "shuffled", variants: shuffled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, v := range tt.variants {
				want := baseline[v.VariantID]
				assert.Equal(t, want.tier, ClassifySafety(v), v.VariantID)
				assert.Equal(t, want.explanation, Score(prefs, v).Explanation, v.VariantID)
			}

			var ties []string
			for _, id := range variantIDs(tt.variants) {
				if strings.HasPrefix(id, "tie-") {
					ties = append(ties, id)
				}
			}

			res := Recommend(prefs, tt.variants)

			require.Len(t, res.Recommendations, MaxRecommendations)
			got := make([]string, 0, len(res.Recommendations))
			for _, rc := range res.Recommendations {
				got = append(got, rc.VariantID)
				assert.Equal(t, baseline[rc.VariantID].tier, rc.SafetyTier)
				assert.Equal(t, baseline[rc.VariantID].explanation, rc.Explanation)
			}
			assert.Equal(t, ties[:MaxRecommendations], got)
		})
	}
}

func TestScoredCandidate_JSONCarriesVariantFields(t *testing.T) {
	sc := Score(UserPreferences{BrandPreference: []string{"Hyundai"}}, hyundaiCreta())

	raw, err := json.Marshal(sc)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "Hyundai", decoded["brand"])
	assert.Equal(t, float64(20), decoded["score"])
	assert.Equal(t, "advanced", decoded["safetyTier"])
	assert.Len(t, decoded["explanation"], 1)
	assert.NotContains(t, decoded, "SafetyAttributesParseFailed")
}

func TestFeatureTags(t *testing.T) {
	tests := []struct {
		name     string
		variant  CarVariant
		expected []string
	}{
		{name: "nothing", variant: basicHatch(), expected: nil},
		{name: "large boot only", variant: hyundaiCreta(), expected: []string{"boot"}},
		{name: "sunroof and awd", variant: topTierSUV(), expected: []string{"sunroof", "awd"}},
		{
			name:     "boot boundary and 4wd",
			variant:  CarVariant{DriveType: "4wd ", BootSpaceLiters: intPtr(400), HasSunroof: true},
			expected: []string{"sunroof", "awd", "boot"},
		},
		{name: "boot just under", variant: CarVariant{BootSpaceLiters: intPtr(399)}, expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FeatureTags(tt.variant))
		})
	}
}

func variantIDs(vs []CarVariant) []string {
	ids := make([]string, 0, len(vs))
	for _, v := range vs {
		ids = append(ids, v.VariantID)
	}
	return ids
}
