// Package estimator computes property price estimates.
//
// An Estimator is a pure strategy: the same features always produce the
// same prediction and no strategy keeps state between calls. Strategies
// are selected by name so a trained model can replace the heuristic
// without changing callers.
package estimator

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"housevalue/server/config"
	"housevalue/server/internal/models"
)

var ErrUnknownStrategy = errors.New("unknown estimator strategy")

// Estimator maps validated property features to a price prediction
type Estimator interface {
	Name() string
	Estimate(features models.PropertyFeatures) models.PricePrediction
}

// Options carries what a strategy needs at construction time
type Options struct {
	Zones *config.ZoneTable

	// Half-width of the confidence interval as a fraction of the estimate
	ConfidenceBand float64

	// Year the building age is measured against
	ReferenceYear int
}

type factory func(Options) (Estimator, error)

var strategies = map[string]factory{
	HeuristicLinearName: func(opts Options) (Estimator, error) { return NewHeuristicLinear(opts) },
}

// New builds the strategy registered under name
func New(name string, opts Options) (Estimator, error) {
	f, ok := strategies[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownStrategy, name, strings.Join(Strategies(), ", "))
	}
	return f(opts)
}

// Strategies lists the registered strategy names
func Strategies() []string {
	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
