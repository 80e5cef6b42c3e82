package crawler

import (
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"

	"sjsage522/fyndworker/helpers"
	"sjsage522/fyndworker/logger"
	errs "sjsage522/fyndworker/pkg/errors"
	"sjsage522/fyndworker/services/cache"
)

// ListingCrawler extracts deals from a listing page using configured
// selectors. Extraction is strictly sequential so the returned slice keeps
// the page's presentation order, which downstream consumers rely on.
type ListingCrawler struct {
	BaseCrawler
	Selectors Selectors
	Location  *time.Location

	fetchFunc func() ([]byte, error)
	log       *logger.Logger
}

// Ensure ListingCrawler implements Crawler
var _ Crawler = (*ListingCrawler)(nil)

// NewListingCrawler creates a new listing crawler
func NewListingCrawler(config CrawlerConfig, cacheSvc cache.CacheService) *ListingCrawler {
	loc := config.Location
	if loc == nil {
		loc = time.UTC
	}

	c := &ListingCrawler{
		BaseCrawler: BaseCrawler{
			URL:       config.URL,
			BaseURL:   config.BaseURL,
			Provider:  config.Provider,
			CacheKey:  config.CacheKey,
			CacheSvc:  cacheSvc,
			CacheTTL:  config.CacheTTL,
			BlockTime: time.Duration(config.BlockTime) * time.Second,
		},
		Selectors: config.Selectors,
		Location:  loc,
		log:       logger.ForCrawler(config.Provider),
	}
	c.fetchFunc = c.fetchWithCache

	return c
}

// FetchDeals fetches the listing page and extracts its deals in document
// order. Zero extractable deals is reported as a layout error, distinct
// from a fetch failure: the page answered but no longer looks like a deal
// listing.
func (c *ListingCrawler) FetchDeals() ([]Deal, error) {
	body, err := c.fetchFunc()
	if err != nil {
		return nil, err
	}

	doc, err := c.createDocument(body)
	if err != nil {
		return nil, err
	}

	cards := doc.Find(c.Selectors.DealList)
	if cards.Length() == 0 {
		return nil, errs.NewLayout(c.Provider, "no deal cards matched the page")
	}

	observedAt := time.Now().In(c.Location)
	deals := make([]Deal, 0, cards.Length())
	cards.Each(func(i int, s *goquery.Selection) {
		deal, err := c.processDeal(s, observedAt)
		if err != nil {
			c.log.Warn().Err(err).Int("card", i).Msg("Skipping deal card")
			return
		}
		deals = append(deals, *deal)
	})

	if len(deals) == 0 {
		return nil, errs.NewLayout(c.Provider, "no deal could be extracted from matched cards")
	}

	return deals, nil
}

// processDeal extracts a single deal from a card selection. A card without
// a title or link is unusable and reported back for a skip warning.
func (c *ListingCrawler) processDeal(s *goquery.Selection, observedAt time.Time) (*Deal, error) {
	title := helpers.CollapseWhitespace(s.Find(c.Selectors.Title).Text())
	if title == "" {
		return nil, fmt.Errorf("card missing title")
	}

	href, _ := s.Find(c.Selectors.Link).Attr("href")
	link := c.ResolveURL(helpers.CollapseWhitespace(href))
	if link == "" {
		return nil, fmt.Errorf("card missing link")
	}

	deal := &Deal{
		Title:    title,
		Link:     link,
		PostedAt: observedAt,
		Provider: c.Provider,
	}

	if c.Selectors.Price != "" {
		deal.Price = ParsePrice(s.Find(c.Selectors.Price).Text())
	}
	if c.Selectors.Category != "" {
		deal.Category = helpers.CollapseWhitespace(s.Find(c.Selectors.Category).Text())
	}
	if c.Selectors.Vendor != "" {
		deal.Vendor = helpers.CollapseWhitespace(s.Find(c.Selectors.Vendor).Text())
	}
	if c.Selectors.Thumbnail != "" {
		if src, exists := s.Find(c.Selectors.Thumbnail).Attr("src"); exists {
			deal.Thumbnail = c.ResolveURL(helpers.CollapseWhitespace(src))
		}
	}

	return deal, nil
}
