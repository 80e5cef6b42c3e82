package publisher

import (
	"sjsage522/fyndworker/internal/crawler"
)

// Publisher represents a sink that announces new deals
type Publisher interface {
	// Publish announces a single new deal
	Publish(deal crawler.Deal) error

	// NotifyFailure reports a failed run to the sink, for sinks that
	// reach a human audience
	NotifyFailure(message string) error

	// GetName returns the publisher name for logging
	GetName() string

	// Close closes the publisher connection
	Close() error
}
