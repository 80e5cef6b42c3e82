package worker

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/time/rate"

	"sjsage522/fyndworker/helpers"
	"sjsage522/fyndworker/internal/crawler"
	"sjsage522/fyndworker/internal/delta"
	"sjsage522/fyndworker/internal/rss"
	"sjsage522/fyndworker/logger"
	errs "sjsage522/fyndworker/pkg/errors"
	"sjsage522/fyndworker/services/publisher"
	"sjsage522/fyndworker/services/store"
)

// Options configures a Worker
type Options struct {
	Crawlers       []crawler.Crawler
	Publishers     []publisher.Publisher
	Store          store.Store
	FeedBuilder    *rss.Builder
	FeedPath       string
	FeedWindow     int
	Retention      time.Duration
	CrawlInterval  time.Duration
	RunOnce        bool
	SendsPerMinute int
}

// Worker handles the crawl, dedup and dispatch process
type Worker struct {
	ctx        context.Context
	crawlers   []crawler.Crawler
	publishers []publisher.Publisher
	store      store.Store
	feed       *rss.Builder
	feedPath   string
	feedWindow int
	retention  time.Duration
	interval   time.Duration
	runOnce    bool
	limiter    *rate.Limiter
	log        *logger.Logger
}

// NewWorker creates a new worker
func NewWorker(ctx context.Context, opts Options) *Worker {
	limit := rate.Inf
	if opts.SendsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(opts.SendsPerMinute))
	}

	return &Worker{
		ctx:        ctx,
		crawlers:   opts.Crawlers,
		publishers: opts.Publishers,
		store:      opts.Store,
		feed:       opts.FeedBuilder,
		feedPath:   opts.FeedPath,
		feedWindow: opts.FeedWindow,
		retention:  opts.Retention,
		interval:   opts.CrawlInterval,
		runOnce:    opts.RunOnce,
		limiter:    rate.NewLimiter(limit, 1),
		log:        logger.ForWorker(),
	}
}

// Start runs the worker until its context is cancelled. In run-once mode it
// performs a single run and returns that run's error.
func (w *Worker) Start() error {
	for {
		start := time.Now()
		err := w.Run()
		if err != nil {
			w.handleRunError(err)
		}
		if os.Getenv("FYND_ENVIRONMENT") != "production" {
			w.log.Info().Dur("elapsed", time.Since(start)).Msg("Run complete")
		}

		if w.runOnce {
			return err
		}

		select {
		case <-w.ctx.Done():
			return nil
		case <-time.After(w.interval):
		}
	}
}

// Run performs one fetch, delta and dispatch pass. A fetch or extraction
// error aborts the run before the seen set is touched; afterwards the set
// is mutated in memory, published deals are announced, and the set and the
// feed document are written out once each.
func (w *Worker) Run() error {
	var all []crawler.Deal
	for _, c := range w.crawlers {
		deals, err := c.FetchDeals()
		if err != nil {
			return err
		}
		all = append(all, deals...)
	}

	seen := w.store.Load()
	fresh := delta.ComputeNew(all, seen)
	w.log.Info().Int("extracted", len(all)).Int("new", len(fresh)).Msg("Deals extracted")

	if err := w.publish(fresh); err != nil {
		return err
	}

	if w.retention > 0 {
		if removed := seen.Prune(w.retention, time.Now()); removed > 0 {
			w.log.Info().Int("removed", removed).Msg("Pruned expired seen-set entries")
		}
	}

	if err := w.store.Save(seen); err != nil {
		return err
	}

	return w.writeFeed(all, seen)
}

// publish announces each new deal on every publisher, pacing sends with the
// rate limiter. A failed send is logged and the remaining deals still go out.
func (w *Worker) publish(fresh []crawler.Deal) error {
	for _, deal := range fresh {
		if err := w.limiter.Wait(w.ctx); err != nil {
			return errs.NewPublisher("worker", "interrupted while pacing sends", err)
		}

		priceText := deal.Price.Text
		if priceText == "" {
			priceText = "unknown price"
		}
		w.log.Info().Str("link", deal.Link).Str("vendor", deal.Vendor).Msgf("Deal found! %s for %s", deal.Title, priceText)

		for _, pub := range w.publishers {
			if err := pub.Publish(deal); err != nil {
				w.log.Error().Err(err).Str("publisher", pub.GetName()).Str("title", deal.Title).Msg("Failed to publish deal")
			}
		}
	}
	return nil
}

// writeFeed renders the feed for the current page deals and swaps it into
// place. Publication times come from the seen set so entries keep their
// original pubDate across rebuilds.
func (w *Worker) writeFeed(deals []crawler.Deal, seen store.Set) error {
	feed := w.feed.Build(deals, w.feedWindow, seen.FirstSeen, time.Now())
	data, err := rss.Render(feed)
	if err != nil {
		return errs.NewPublisher("feed", "failed to render feed", err)
	}
	if err := helpers.WriteFileAtomic(w.feedPath, data, 0o644); err != nil {
		return errs.NewPublisher("feed", "failed to write feed", err)
	}
	return nil
}

func (w *Worker) handleRunError(err error) {
	if errs.IsLayout(err) {
		w.log.Error().Err(err).Msg("No deals extracted, possible layout change on the listing page")
	} else {
		w.log.Error().Err(err).Msg("Run failed")
	}
	w.reportFailure(fmt.Sprintf("Deal run failed: %v", err))
}

// reportFailure forwards a run failure to every publisher that can reach
// an operator
func (w *Worker) reportFailure(message string) {
	for _, pub := range w.publishers {
		if err := pub.NotifyFailure(message); err != nil {
			w.log.Error().Err(err).Str("publisher", pub.GetName()).Msg("Failed to deliver failure notice")
		}
	}
}
