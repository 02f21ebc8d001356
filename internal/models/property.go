package models

import "time"

// Listing is one record of the sample property dataset
type Listing struct {
	ID             int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Location       string    `json:"location" gorm:"index;not null"`
	Bedrooms       int       `json:"bedrooms" gorm:"not null"`
	Bathrooms      float64   `json:"bathrooms" gorm:"not null"`
	Sqft           int       `json:"sqft" gorm:"not null"`
	YearBuilt      int       `json:"year_built" gorm:"not null"`
	LotSize        float64   `json:"lot_size" gorm:"not null"`
	Floors         int       `json:"floors" gorm:"not null"`
	Waterfront     int       `json:"waterfront" gorm:"not null;default:0"`
	ConditionGrade int       `json:"condition_grade" gorm:"not null"`
	ActualPrice    *float64  `json:"actual_price" gorm:"index"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Listing) TableName() string {
	return "properties"
}

type ListingPage struct {
	Data       []Listing `json:"data"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	PerPage    int       `json:"per_page"`
	TotalPages int       `json:"total_pages"`
}

type LocationStats struct {
	Location string  `json:"location"`
	Count    int64   `json:"count"`
	AvgPrice float64 `json:"avg_price"`
}

type DashboardStats struct {
	TotalProperties int64           `json:"total_properties"`
	AvgPrice        float64         `json:"avg_price"`
	ByLocation      []LocationStats `json:"by_location"`
}

type BedroomStats struct {
	Bedrooms int     `json:"bedrooms"`
	AvgPrice float64 `json:"avg_price"`
}

type YearStats struct {
	YearBuilt int     `json:"year_built"`
	AvgPrice  float64 `json:"avg_price"`
}

type PriceBucket struct {
	Bucket string `json:"bucket"`
	Count  int64  `json:"count"`
}

type Analytics struct {
	ByBedrooms        []BedroomStats `json:"by_bedrooms"`
	ByYear            []YearStats    `json:"by_year"`
	PriceDistribution []PriceBucket  `json:"price_distribution"`
}
