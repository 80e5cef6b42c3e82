package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sjsage522/fyndworker/config"
	"sjsage522/fyndworker/internal/crawler"
	"sjsage522/fyndworker/internal/rss"
	"sjsage522/fyndworker/services/publisher"
	"sjsage522/fyndworker/services/store"
	"sjsage522/fyndworker/services/worker"
)

// Test HTML mimicking the deal listing page structure
const listingHTML = `
<!DOCTYPE html>
<html>
<head>
    <title>Dagens fynd</title>
</head>
<body>
    <div class="tips-list">
        <div class="tips-row">
            <a class="cell-product" href="/fynd/corsair-k70">
                <img src="/img/k70.png" alt="Corsair K70" />
                <div class="col-product-inner-wrapper">Corsair K70 RGB</div>
            </a>
            <div class="col-price">1 190 kr</div>
            <div class="col-category">Tangentbord</div>
            <div class="col-vendor">Inet</div>
        </div>
        <div class="tips-row">
            <a class="cell-product" href="/fynd/samsung-990-pro">
                <div class="col-product-inner-wrapper">Samsung 990 Pro 2TB</div>
            </a>
            <div class="col-price">1 790 kr</div>
            <div class="col-category">Lagring</div>
            <div class="col-vendor">Webhallen</div>
        </div>
    </div>
</body>
</html>
`

// webhookRecorder captures Discord webhook payloads posted during a run
type webhookRecorder struct {
	mu       sync.Mutex
	received []publisher.Message
}

func (rec *webhookRecorder) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var msg publisher.Message
		if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		rec.mu.Lock()
		rec.received = append(rec.received, msg)
		rec.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}
}

func (rec *webhookRecorder) messages() []publisher.Message {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return append([]publisher.Message(nil), rec.received...)
}

func newIntegrationWorker(t *testing.T, ctx context.Context, listingURL, webhookURL string) (*worker.Worker, string, string) {
	t.Helper()

	dir := t.TempDir()
	storePath := filepath.Join(dir, "dagens_fynd.json")
	feedPath := filepath.Join(dir, "dagens_fynd.rss")

	cfg := &config.Config{
		ListingURL: listingURL,
		Timezone:   "Europe/Stockholm",
	}
	crawlers := crawler.CreateCrawlers(cfg, nil)
	require.Len(t, crawlers, 1)

	w := worker.NewWorker(ctx, worker.Options{
		Crawlers:      crawlers,
		Publishers:    []publisher.Publisher{publisher.NewDiscordPublisher(ctx, webhookURL)},
		Store:         store.NewFileStore(storePath),
		FeedBuilder:   &rss.Builder{SiteURL: listingURL},
		FeedPath:      feedPath,
		CrawlInterval: time.Second,
		RunOnce:       true,
	})

	return w, storePath, feedPath
}

// TestIntegration drives a full run against a stub listing page and webhook:
// extraction, webhook announcements, seen-set persistence and feed output.
func TestIntegration(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, listingHTML)
	}))
	defer server.Close()

	rec := &webhookRecorder{}
	webhook := httptest.NewServer(rec.handler())
	defer webhook.Close()

	ctx := context.Background()
	w, storePath, feedPath := newIntegrationWorker(t, ctx, server.URL, webhook.URL)

	require.NoError(t, w.Run())

	// Both deals announced to the webhook, in page order
	messages := rec.messages()
	require.Len(t, messages, 2)

	require.Len(t, messages[0].Embeds, 1)
	first := messages[0].Embeds[0]
	assert.Equal(t, "Corsair K70 RGB", first.Title)
	assert.Equal(t, server.URL+"/fynd/corsair-k70", first.URL)
	assert.Equal(t, "1 190 kr", first.Description)
	require.NotNil(t, first.Thumbnail)
	assert.Equal(t, server.URL+"/img/k70.png", first.Thumbnail.URL)

	require.Len(t, messages[1].Embeds, 1)
	second := messages[1].Embeds[0]
	assert.Equal(t, "Samsung 990 Pro 2TB", second.Title)
	assert.Nil(t, second.Thumbnail)

	// The seen set round-trips both fingerprints
	data, err := os.ReadFile(storePath)
	require.NoError(t, err)
	var seen map[string]time.Time
	require.NoError(t, json.Unmarshal(data, &seen))
	assert.Len(t, seen, 2)

	// The feed lists both deals in page order with stable ids
	feedData, err := os.ReadFile(feedPath)
	require.NoError(t, err)
	parsed, err := gofeed.NewParser().ParseString(string(feedData))
	require.NoError(t, err)
	assert.Equal(t, "SweClockers - Dagens fynd", parsed.Title)
	require.Len(t, parsed.Items, 2)
	assert.Equal(t, "Corsair K70 RGB", parsed.Items[0].Title)
	assert.Equal(t, "Samsung 990 Pro 2TB", parsed.Items[1].Title)
	assert.Contains(t, seen, parsed.Items[0].GUID)
	assert.Contains(t, seen, parsed.Items[1].GUID)

	// A second run over the same page announces nothing new
	require.NoError(t, w.Run())
	assert.Len(t, rec.messages(), 2, "second run must not re-announce")

	// The feed is rebuilt with the same entry ids
	feedData2, err := os.ReadFile(feedPath)
	require.NoError(t, err)
	parsed2, err := gofeed.NewParser().ParseString(string(feedData2))
	require.NoError(t, err)
	require.Len(t, parsed2.Items, 2)
	assert.Equal(t, parsed.Items[0].GUID, parsed2.Items[0].GUID)
	assert.Equal(t, parsed.Items[0].Published, parsed2.Items[0].Published, "entries keep their first-seen pubDate")
}

// TestIntegrationLayoutChange serves a page without any deal cards and
// expects a failed run with an operator notice and untouched state.
func TestIntegrationLayoutChange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, `<!DOCTYPE html><html><body><div class="redesigned"></div></body></html>`)
	}))
	defer server.Close()

	rec := &webhookRecorder{}
	webhook := httptest.NewServer(rec.handler())
	defer webhook.Close()

	ctx := context.Background()
	w, storePath, feedPath := newIntegrationWorker(t, ctx, server.URL, webhook.URL)

	err := w.Start()
	require.Error(t, err)

	// The failure notice reached the webhook as plain content
	messages := rec.messages()
	require.Len(t, messages, 1)
	assert.Empty(t, messages[0].Embeds)
	assert.True(t, strings.HasPrefix(messages[0].Content, "Deal run failed"))

	// No state was written
	_, err = os.Stat(storePath)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(feedPath)
	assert.True(t, os.IsNotExist(err))
}
