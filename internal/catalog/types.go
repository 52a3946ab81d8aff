package catalog

// Header is the column order of both persisted CSV files and the warehouse table
var Header = []string{"Title", "Rating", "Price", "Availability"}

// RawBook is one catalog entry as scraped, before any conversion
type RawBook struct {
	Title        string `json:"title"`
	Rating       string `json:"rating"`
	Price        string `json:"price"`
	Availability string `json:"availability"`
}

// Book is a normalized catalog entry
type Book struct {
	Title        string  `json:"title"`
	Rating       int     `json:"rating"`
	Price        float64 `json:"price"`
	Availability bool    `json:"availability"`
}
