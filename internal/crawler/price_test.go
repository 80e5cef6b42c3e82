package crawler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name  string
		input string
		value float64
		known bool
	}{
		{"grouped with kr", "1 190 kr", 1190, true},
		{"non-breaking spaces", "1 190 kr", 1190, true},
		{"colon dash suffix", "1190:-", 1190, true},
		{"decimal comma", "99,90 kr", 99.90, true},
		{"period grouping", "1.190 kr", 1190, true},
		{"sek unit", "249 SEK", 249, true},
		{"surrounding text", "Nu endast 499 kr hos Inet", 499, true},
		{"free shipping text", "Fri frakt", 0, false},
		{"empty", "", 0, false},
		{"foreign currency", "$19.99", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price := ParsePrice(tt.input)
			assert.Equal(t, tt.known, price.Known())
			if tt.known {
				assert.Equal(t, tt.value, price.Value)
				assert.Equal(t, "SEK", price.Currency)
				assert.NotEmpty(t, price.Text)
			}
		})
	}
}
