// Package export renders stored quotes into downloadable documents.
package export

import (
	"time"

	"github.com/brushworks/paintquote/internal/pricing"
)

// QuoteDocument is the render-ready view of one stored quote.
type QuoteDocument struct {
	QuoteNumber string
	Title       string
	Description string
	CreatedAt   time.Time
	ValidDays   int
	LineItems   []pricing.LineItem
	Totals      pricing.Result
}

// ValidUntil returns the expiry date implied by the validity window.
func (d QuoteDocument) ValidUntil() time.Time {
	return d.CreatedAt.AddDate(0, 0, d.ValidDays)
}
