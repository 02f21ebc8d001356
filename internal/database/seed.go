package database

import (
	"math"
	"math/rand"

	"github.com/shopspring/decimal"

	"housevalue/server/config"
	"housevalue/server/internal/estimator"
	"housevalue/server/internal/models"
)

const (
	waterfrontShare = 0.1
	minNoise        = 0.85
	maxNoise        = 1.2
)

// GenerateSampleListings builds n listings spread over the zone table.
// The same seed always yields the same dataset. Prices scatter around
// the estimator's value for each listing.
func GenerateSampleListings(n int, seed int64, zones *config.ZoneTable, est estimator.Estimator) []*models.Listing {
	rng := rand.New(rand.NewSource(seed))
	names := zones.Names()
	listings := make([]*models.Listing, 0, max(n, 0))

	for i := 0; i < n; i++ {
		bedrooms := 2 + rng.Intn(5)
		listing := &models.Listing{
			Location:       names[rng.Intn(len(names))],
			Bedrooms:       bedrooms,
			Bathrooms:      math.Max(1, halfStep(float64(bedrooms)*uniform(rng, 0.8, 1.5))),
			Sqft:           int(uniform(rng, 800, 6000)),
			YearBuilt:      int(uniform(rng, 1960, 2023)),
			LotSize:        decimal.NewFromFloat(uniform(rng, 0.1, 2.0)).Round(2).InexactFloat64(),
			Floors:         1 + rng.Intn(3),
			ConditionGrade: int(uniform(rng, 3, 10)),
		}
		if rng.Float64() < waterfrontShare {
			listing.Waterfront = 1
		}

		estimate := est.Estimate(listing.Features()).PredictedPrice
		price := decimal.NewFromFloat(estimate * uniform(rng, minNoise, maxNoise)).Round(2).InexactFloat64()
		listing.ActualPrice = &price

		listings = append(listings, listing)
	}
	return listings
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func halfStep(v float64) float64 {
	return math.Round(v*2) / 2
}
