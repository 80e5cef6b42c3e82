package crawler

import (
	"net/url"

	"sjsage522/fyndworker/config"
	"sjsage522/fyndworker/logger"
	"sjsage522/fyndworker/services/cache"
)

// CreateCrawlers creates the crawlers for the configured listing pages
func CreateCrawlers(cfg *config.Config, cacheSvc cache.CacheService) []Crawler {
	loc, err := cfg.Location()
	if err != nil {
		logger.Warn("Unknown timezone %q, falling back to UTC", cfg.Timezone)
	}

	configurations := []CrawlerConfig{
		{
			// Dagens fynd listing on SweClockers
			URL:       cfg.ListingURL,
			CacheKey:  "sweclockers",
			BlockTime: 600,
			BaseURL:   baseURLOf(cfg.ListingURL),
			Provider:  "Sweclockers",
			CacheTTL:  cfg.CacheTTL,
			Location:  loc,
			Selectors: Selectors{
				DealList:  "div.tips-row",
				Title:     "div.col-product-inner-wrapper",
				Link:      "a.cell-product",
				Price:     "div.col-price",
				Category:  "div.col-category",
				Vendor:    "div.col-vendor",
				Thumbnail: "a.cell-product img",
			},
		},
	}

	crawlers := make([]Crawler, 0, len(configurations))
	for _, config := range configurations {
		crawlers = append(crawlers, NewListingCrawler(config, cacheSvc))
	}

	return crawlers
}

// baseURLOf reduces a listing URL to scheme and host for resolving the
// page's relative links
func baseURLOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return raw
	}
	return u.Scheme + "://" + u.Host
}
