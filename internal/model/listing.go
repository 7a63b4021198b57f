package model

// ListingRecord is a single store's offer read from the market listings table
type ListingRecord struct {
	StoreName    string  `json:"store_name" db:"store_name"`
	ListingTitle string  `json:"listing_title" db:"listing_title"`
	Price        float64 `json:"price" db:"price"`
	Stock        int     `json:"stock" db:"stock"`
	Condition    string  `json:"condition" db:"condition"`
}
