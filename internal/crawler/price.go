package crawler

import (
	"regexp"
	"strconv"
	"strings"

	"sjsage522/fyndworker/helpers"
)

// Swedish retail price formats: "1 190 kr", "1.190:-", "99,90 kr", "249 SEK".
// Digit groups may be separated by spaces or periods; the decimal separator
// is a comma.
var priceRe = regexp.MustCompile(`(?i)(\d[\d .]*(?:,\d+)?)\s*(kr|sek|:-)`)

// ParsePrice extracts a numeric price from price text. Text without a
// recognizable price yields the zero Price, meaning the price is unknown.
func ParsePrice(text string) Price {
	cleaned := helpers.CollapseWhitespace(text)
	m := priceRe.FindStringSubmatch(cleaned)
	if m == nil {
		return Price{}
	}

	digits := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9':
			return r
		case r == ',':
			return '.'
		default:
			return -1
		}
	}, m[1])

	value, err := strconv.ParseFloat(digits, 64)
	if err != nil || value <= 0 {
		return Price{}
	}

	return Price{
		Value:    value,
		Currency: "SEK",
		Text:     strings.TrimSpace(m[0]),
	}
}
