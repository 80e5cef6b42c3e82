package crawler

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"sjsage522/fyndworker/helpers"
)

// Fingerprint returns the stable identity of a deal, used to recognize the
// same deal across runs. The link is the preferred key; a deal without one
// falls back to title plus the canonical numeric price. Key fields are
// lower-cased and whitespace-collapsed first, so incidental formatting
// differences between extractions do not change the identity.
func (d Deal) Fingerprint() string {
	key := normalizeKey(d.Link)
	if key == "" {
		key = normalizeKey(d.Title) + "|" + d.Price.canonical()
	}
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

func normalizeKey(s string) string {
	return strings.ToLower(helpers.CollapseWhitespace(s))
}

// canonical renders the price independent of its display text, so "1 190 kr"
// and "1190:-" contribute the same bytes to a fingerprint.
func (p Price) canonical() string {
	if !p.Known() {
		return ""
	}
	return strconv.FormatFloat(p.Value, 'f', -1, 64) + strings.ToLower(p.Currency)
}
