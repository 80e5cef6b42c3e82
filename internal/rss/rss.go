// Package rss renders the current deal catalog as an RSS 2.0 document.
package rss

import (
	"time"

	"github.com/gorilla/feeds"

	"sjsage522/fyndworker/internal/crawler"
)

const (
	feedTitle       = "SweClockers - Dagens fynd"
	feedDescription = "Daily tech deals"
	feedCategory    = "SweClockers"
	feedGenerator   = "sjsage522/fyndworker"
	feedDocs        = "https://www.rssboard.org/rss-specification"
	feedTTL         = 60
	feedImageURL    = "https://www.sweclockers.com/gfx/apple-touch-icon.png"
)

// Builder assembles feed documents for the deal listing. SiteURL becomes the
// channel link; Editor, when set, is emitted as managingEditor and webMaster.
type Builder struct {
	SiteURL string
	Editor  string
}

// Build produces the feed channel for the given deals, in input order. When
// window is positive only the first window deals are included (page order is
// recency order, so this keeps the newest). Each item's guid is the deal
// fingerprint, marked non-permalink so readers match items across rebuilds.
// Item pubDates come from firstSeen when it knows the fingerprint, falling
// back to the deal's own PostedAt; channel timestamps come from buildTime.
// Identical inputs therefore build identical documents.
func (b *Builder) Build(deals []crawler.Deal, window int, firstSeen func(string) (time.Time, bool), buildTime time.Time) *feeds.RssFeed {
	if window > 0 && len(deals) > window {
		deals = deals[:window]
	}

	feed := &feeds.RssFeed{
		Title:          feedTitle,
		Link:           b.SiteURL,
		Description:    feedDescription,
		ManagingEditor: b.Editor,
		WebMaster:      b.Editor,
		PubDate:        buildTime.Format(time.RFC1123Z),
		LastBuildDate:  buildTime.Format(time.RFC1123Z),
		Category:       feedCategory,
		Generator:      feedGenerator,
		Docs:           feedDocs,
		Ttl:            feedTTL,
		Image: &feeds.RssImage{
			Url:   feedImageURL,
			Title: feedTitle,
			Link:  b.SiteURL,
		},
	}

	for _, deal := range deals {
		fp := deal.Fingerprint()

		pubDate := deal.PostedAt
		if firstSeen != nil {
			if ts, ok := firstSeen(fp); ok {
				pubDate = ts
			}
		}

		feed.Items = append(feed.Items, &feeds.RssItem{
			Title:       deal.Title,
			Link:        deal.Link,
			Description: deal.Vendor,
			Category:    deal.Category,
			PubDate:     pubDate.Format(time.RFC1123Z),
			Guid:        &feeds.RssGuid{Id: fp, IsPermaLink: "false"},
		})
	}

	return feed
}

// Render serializes the feed document with a trailing newline for file output
func Render(feed *feeds.RssFeed) ([]byte, error) {
	xml, err := feeds.ToXML(feed)
	if err != nil {
		return nil, err
	}
	return []byte(xml + "\n"), nil
}
