package estimator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"housevalue/server/config"
	"housevalue/server/internal/models"
)

func newTestEstimator(t *testing.T) *HeuristicLinear {
	t.Helper()
	est, err := NewHeuristicLinear(Options{
		Zones:          config.MustDefaultZoneTable(),
		ConfidenceBand: 0.10,
		ReferenceYear:  2024,
	})
	require.NoError(t, err)
	return est
}

func suburbHouse() models.PropertyFeatures {
	return models.PropertyFeatures{
		Location:       "Suburb",
		Bedrooms:       3,
		Bathrooms:      2,
		Sqft:           2000,
		YearBuilt:      2000,
		LotSize:        0.5,
		Floors:         1,
		Waterfront:     false,
		ConditionGrade: 6,
	}
}

func assertWellFormed(t *testing.T, p models.PricePrediction) {
	t.Helper()
	assert.False(t, math.IsNaN(p.PredictedPrice) || math.IsInf(p.PredictedPrice, 0))
	assert.Greater(t, p.PredictedPrice, 0.0)
	assert.Greater(t, p.ConfidenceLower, 0.0)
	assert.LessOrEqual(t, p.ConfidenceLower, p.PredictedPrice)
	assert.GreaterOrEqual(t, p.ConfidenceUpper, p.PredictedPrice)
	assert.NotEmpty(t, p.ModelUsed)
}

func TestHeuristicLinear_SuburbExample(t *testing.T) {
	est := newTestEstimator(t)
	p := est.Estimate(suburbHouse())

	assertWellFormed(t, p)
	assert.Equal(t, HeuristicLinearName, p.ModelUsed)
	assert.InDelta(t, p.PredictedPrice*0.9, p.ConfidenceLower, 0.01)
	assert.InDelta(t, p.PredictedPrice*1.1, p.ConfidenceUpper, 0.01)
}

func TestHeuristicLinear_Deterministic(t *testing.T) {
	est := newTestEstimator(t)
	features := suburbHouse()

	first := est.Estimate(features)
	second := est.Estimate(features)
	assert.Equal(t, first, second)
	assert.Equal(t, math.Float64bits(first.PredictedPrice), math.Float64bits(second.PredictedPrice))

	// A second instance with the same options agrees too
	other := newTestEstimator(t)
	assert.Equal(t, first, other.Estimate(features))
}

func TestHeuristicLinear_MinimumValues(t *testing.T) {
	est := newTestEstimator(t)
	p := est.Estimate(models.PropertyFeatures{
		Location:       "Rural",
		Bedrooms:       1,
		Bathrooms:      0.5,
		Sqft:           500,
		YearBuilt:      1800,
		LotSize:        0.1,
		Floors:         1,
		ConditionGrade: 1,
	})
	assertWellFormed(t, p)
}

func TestHeuristicLinear_BoundsAcrossZones(t *testing.T) {
	est := newTestEstimator(t)
	for _, name := range config.MustDefaultZoneTable().Names() {
		for _, waterfront := range []bool{false, true} {
			features := suburbHouse()
			features.Location = name
			features.Waterfront = waterfront
			assertWellFormed(t, est.Estimate(features))
		}
	}
}

func TestHeuristicLinear_Monotonicity(t *testing.T) {
	est := newTestEstimator(t)

	tests := []struct {
		name   string
		mutate func(*models.PropertyFeatures, int)
		steps  int
	}{
		{
			name:   "sqft",
			mutate: func(f *models.PropertyFeatures, i int) { f.Sqft = 500 + i*250 },
			steps:  40,
		},
		{
			name:   "bedrooms",
			mutate: func(f *models.PropertyFeatures, i int) { f.Bedrooms = 1 + i },
			steps:  20,
		},
		{
			name:   "condition_grade",
			mutate: func(f *models.PropertyFeatures, i int) { f.ConditionGrade = 1 + i },
			steps:  10,
		},
		{
			name:   "bathrooms",
			mutate: func(f *models.PropertyFeatures, i int) { f.Bathrooms = 0.5 + float64(i)*0.5 },
			steps:  12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, zone := range []string{"Rural", "Suburb", "Coastal"} {
				previous := 0.0
				for i := 0; i < tt.steps; i++ {
					features := suburbHouse()
					features.Location = zone
					tt.mutate(&features, i)

					p := est.Estimate(features)
					assert.GreaterOrEqual(t, p.PredictedPrice, previous,
						"%s step %d in %s decreased the estimate", tt.name, i, zone)
					previous = p.PredictedPrice
				}
			}
		})
	}
}

func TestHeuristicLinear_Adjustments(t *testing.T) {
	est := newTestEstimator(t)
	base := est.Estimate(suburbHouse()).PredictedPrice

	waterfront := suburbHouse()
	waterfront.Waterfront = true
	assert.Greater(t, est.Estimate(waterfront).PredictedPrice, base)

	downtown := suburbHouse()
	downtown.Location = "Downtown"
	assert.Greater(t, est.Estimate(downtown).PredictedPrice, base)

	rural := suburbHouse()
	rural.Location = "rural"
	assert.Less(t, est.Estimate(rural).PredictedPrice, base)

	older := suburbHouse()
	older.YearBuilt = 1950
	assert.Less(t, est.Estimate(older).PredictedPrice, base)

	// Buildings newer than the reference year are not rewarded beyond age zero
	future := suburbHouse()
	future.YearBuilt = 2030
	current := suburbHouse()
	current.YearBuilt = 2024
	assert.Equal(t, est.Estimate(current).PredictedPrice, est.Estimate(future).PredictedPrice)
}

func TestHeuristicLinear_ZeroBand(t *testing.T) {
	est, err := NewHeuristicLinear(Options{
		Zones:         config.MustDefaultZoneTable(),
		ReferenceYear: 2024,
	})
	require.NoError(t, err)

	p := est.Estimate(suburbHouse())
	assert.Equal(t, p.PredictedPrice, p.ConfidenceLower)
	assert.Equal(t, p.PredictedPrice, p.ConfidenceUpper)
}

func TestNewHeuristicLinear_InvalidOptions(t *testing.T) {
	zones := config.MustDefaultZoneTable()

	tests := []struct {
		name string
		opts Options
	}{
		{name: "No zones", opts: Options{ConfidenceBand: 0.1, ReferenceYear: 2024}},
		{name: "Band of one", opts: Options{Zones: zones, ConfidenceBand: 1, ReferenceYear: 2024}},
		{name: "Negative band", opts: Options{Zones: zones, ConfidenceBand: -0.1, ReferenceYear: 2024}},
		{name: "No reference year", opts: Options{Zones: zones, ConfidenceBand: 0.1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewHeuristicLinear(tt.opts)
			assert.Error(t, err)
		})
	}
}

func TestNew(t *testing.T) {
	opts := Options{Zones: config.MustDefaultZoneTable(), ConfidenceBand: 0.1, ReferenceYear: 2024}

	est, err := New(HeuristicLinearName, opts)
	require.NoError(t, err)
	assert.Equal(t, HeuristicLinearName, est.Name())

	_, err = New("gradient-boosting", opts)
	assert.ErrorIs(t, err, ErrUnknownStrategy)
	assert.Contains(t, err.Error(), "available: "+HeuristicLinearName)

	assert.Equal(t, []string{HeuristicLinearName}, Strategies())
}
