package models

// PropertyFeatures is the input of a price estimate. The validate tags
// hold the accepted ranges; "zone", "halfstep" and "notfuture" are
// registered by the feature validator.
type PropertyFeatures struct {
	Location       string  `json:"location" validate:"zone"`
	Bedrooms       int     `json:"bedrooms" validate:"min=1,max=20"`
	Bathrooms      float64 `json:"bathrooms" validate:"gte=0.5,lte=20,halfstep"`
	Sqft           int     `json:"sqft" validate:"min=500,max=100000"`
	YearBuilt      int     `json:"year_built" validate:"min=1800,notfuture"`
	LotSize        float64 `json:"lot_size" validate:"gte=0.1,lte=1000"`
	Floors         int     `json:"floors" validate:"min=1,max=5"`
	Waterfront     bool    `json:"waterfront"`
	ConditionGrade int     `json:"condition_grade" validate:"min=1,max=10"`
}

// PricePrediction is a point estimate with its confidence interval
type PricePrediction struct {
	PredictedPrice  float64 `json:"predicted_price"`
	ConfidenceLower float64 `json:"confidence_lower"`
	ConfidenceUpper float64 `json:"confidence_upper"`
	ModelUsed       string  `json:"model_used"`
}

// Features returns the estimator input describing a listing
func (l *Listing) Features() PropertyFeatures {
	return PropertyFeatures{
		Location:       l.Location,
		Bedrooms:       l.Bedrooms,
		Bathrooms:      l.Bathrooms,
		Sqft:           l.Sqft,
		YearBuilt:      l.YearBuilt,
		LotSize:        l.LotSize,
		Floors:         l.Floors,
		Waterfront:     l.Waterfront == 1,
		ConditionGrade: l.ConditionGrade,
	}
}
