package crawler

import "time"

// Deal represents one scraped listing entry
type Deal struct {
	Title     string    `json:"title"`
	Link      string    `json:"link"`
	Price     Price     `json:"price,omitzero"`
	Category  string    `json:"category,omitempty"`
	Vendor    string    `json:"vendor,omitempty"`
	Thumbnail string    `json:"thumbnail,omitempty"`
	PostedAt  time.Time `json:"posted_at"`
	Provider  string    `json:"provider"`
}

// Price is a parsed price. The zero value means the listing did not carry
// a usable price.
type Price struct {
	Value    float64 `json:"value"`
	Currency string  `json:"currency"`
	Text     string  `json:"text"`
}

// Known reports whether a price was extracted
func (p Price) Known() bool {
	return p.Text != ""
}

// Crawler interface defines the contract for all crawler implementations
type Crawler interface {
	// FetchDeals retrieves deals from a listing page in document order
	FetchDeals() ([]Deal, error)

	// GetName returns the crawler's name for logging and identification
	GetName() string

	// GetProvider returns the provider name for the crawler
	GetProvider() string
}

// Selectors contains CSS selectors for elements of a listing page
type Selectors struct {
	DealList  string
	Title     string
	Link      string
	Price     string
	Category  string
	Vendor    string
	Thumbnail string
}

// CrawlerConfig contains configuration for a crawler
type CrawlerConfig struct {
	URL       string
	CacheKey  string
	BlockTime int
	BaseURL   string
	Provider  string
	CacheTTL  time.Duration
	Location  *time.Location
	Selectors Selectors
}
