package models

// ListingFilter narrows the listing query; nil fields are not applied
type ListingFilter struct {
	Location    string   `form:"location"`
	MinPrice    *float64 `form:"min_price"`
	MaxPrice    *float64 `form:"max_price"`
	MinBedrooms *int     `form:"min_bedrooms"`
	MaxBedrooms *int     `form:"max_bedrooms"`
}
