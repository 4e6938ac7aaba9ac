package models

// DefaultCategory is applied to upstream records that carry no category.
const DefaultCategory = "Delivery Area"

// KnownCategories are the category values the upstream API is known to return.
var KnownCategories = []string{"Delivery Area", "Post Office Boxes"}

// Locality is one normalized upstream postcode record.
type Locality struct {
	Location  string   `json:"location"`
	Postcode  string   `json:"postcode"`
	State     string   `json:"state"`
	Category  string   `json:"category"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	ID        *int64   `json:"id"`
}
