package estimator

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"

	"housevalue/server/config"
	"housevalue/server/internal/models"
)

const HeuristicLinearName = "heuristic-linear"

// Coefficients of the heuristic formula
const (
	basePrice        = 50000.0
	pricePerSqft     = 150.0
	pricePerBedroom  = 20000.0
	pricePerBathroom = 12000.0
	pricePerAcre     = 25000.0
	pricePerFloor    = 8000.0

	conditionStep     = 0.05 // per grade away from the neutral grade
	neutralCondition  = 5
	depreciationRate  = 0.003 // per year of age
	minAgeFactor      = 0.6
	waterfrontPremium = 1.3
)

// HeuristicLinear is a closed-form estimate: additive value terms scaled by
// zone, condition, age and waterfront factors. Every factor is positive, so
// the estimate is positive and non-decreasing in sqft, bedrooms,
// bathrooms and condition grade.
type HeuristicLinear struct {
	zones         *config.ZoneTable
	band          decimal.Decimal
	referenceYear int
}

func NewHeuristicLinear(opts Options) (*HeuristicLinear, error) {
	if opts.Zones == nil {
		return nil, errors.New("heuristic estimator needs a zone table")
	}
	if opts.ConfidenceBand < 0 || opts.ConfidenceBand >= 1 {
		return nil, errors.New("confidence band must be in [0, 1)")
	}
	if opts.ReferenceYear <= 0 {
		return nil, errors.New("reference year must be positive")
	}

	return &HeuristicLinear{
		zones:         opts.Zones,
		band:          decimal.NewFromFloat(opts.ConfidenceBand),
		referenceYear: opts.ReferenceYear,
	}, nil
}

func (h *HeuristicLinear) Name() string {
	return HeuristicLinearName
}

func (h *HeuristicLinear) Estimate(f models.PropertyFeatures) models.PricePrediction {
	value := basePrice +
		pricePerSqft*float64(f.Sqft) +
		pricePerBedroom*float64(f.Bedrooms) +
		pricePerBathroom*f.Bathrooms +
		pricePerAcre*f.LotSize +
		pricePerFloor*float64(max(f.Floors-1, 0))

	value *= h.zoneFactor(f.Location)
	value *= conditionFactor(f.ConditionGrade)
	value *= h.ageFactor(f.YearBuilt)
	if f.Waterfront {
		value *= waterfrontPremium
	}

	price := decimal.NewFromFloat(value).Round(2)
	spread := price.Mul(h.band)

	return models.PricePrediction{
		PredictedPrice:  price.InexactFloat64(),
		ConfidenceLower: price.Sub(spread).Round(2).InexactFloat64(),
		ConfidenceUpper: price.Add(spread).Round(2).InexactFloat64(),
		ModelUsed:       HeuristicLinearName,
	}
}

// zoneFactor falls back to a neutral multiplier for unknown locations;
// callers validate locations before estimating.
func (h *HeuristicLinear) zoneFactor(location string) float64 {
	zone, ok := h.zones.Lookup(location)
	if !ok {
		return 1
	}
	return zone.Multiplier
}

func conditionFactor(grade int) float64 {
	// Grade 1 gives 0.8, grade 10 gives 1.25
	return 1 + conditionStep*float64(grade-neutralCondition)
}

func (h *HeuristicLinear) ageFactor(yearBuilt int) float64 {
	age := float64(max(h.referenceYear-yearBuilt, 0))
	return math.Max(minAgeFactor, 1-depreciationRate*age)
}
