package crawler

import (
	"bytes"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"sjsage522/fyndworker/helpers"
	errs "sjsage522/fyndworker/pkg/errors"
	"sjsage522/fyndworker/services/cache"
)

// BaseCrawler provides common functionality for all crawlers
type BaseCrawler struct {
	URL       string
	BaseURL   string
	Provider  string
	CacheKey  string
	CacheSvc  cache.CacheService
	CacheTTL  time.Duration
	BlockTime time.Duration
}

// fetchWithCache fetches the listing page. When a cache service is
// configured it also serves cached bodies within the TTL window and honors
// an active rate-limit block instead of hitting the site again.
func (c *BaseCrawler) fetchWithCache() ([]byte, error) {
	useCache := c.CacheSvc != nil && c.CacheKey != ""

	if useCache {
		if _, err := c.CacheSvc.Get(c.CacheKey + "_rate_limited"); err == nil {
			return nil, errs.NewRateLimit(c.Provider, c.BlockTime)
		}
		if body, err := c.CacheSvc.Get(c.CacheKey + "_body"); err == nil && len(body) > 0 {
			return body, nil
		}
	}

	body, err := helpers.FetchWithRandomHeaders(c.URL)
	if err != nil {
		if strings.HasPrefix(err.Error(), "rate limited") {
			if useCache {
				c.CacheSvc.Set(c.CacheKey+"_rate_limited", []byte("1"), c.BlockTime)
			}
			return nil, errs.NewRateLimit(c.Provider, c.BlockTime)
		}
		return nil, errs.NewNetwork(c.Provider, "failed to fetch listing page", err)
	}

	if useCache && c.CacheTTL > 0 {
		c.CacheSvc.Set(c.CacheKey+"_body", body, c.CacheTTL)
	}

	return body, nil
}

// createDocument creates a goquery document from a fetched body
func (c *BaseCrawler) createDocument(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, errs.NewParsing(c.Provider, "failed to parse listing document", err)
	}
	return doc, nil
}

// ResolveURL resolves a possibly relative href against the crawler's base URL
func (c *BaseCrawler) ResolveURL(href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}

	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// GetName returns the crawler's name for logging
func (c *BaseCrawler) GetName() string {
	return c.Provider + "Crawler"
}

// GetProvider returns the provider name
func (c *BaseCrawler) GetProvider() string {
	return c.Provider
}
