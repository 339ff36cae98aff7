package parsers

import (
	"github.com/username/tradewatch/src/models"
)

// ReportParser extracts trade records from one document's extracted text.
// Every returned record carries the document's header metadata. Malformed or
// partial text degrades to fewer or zero records; parsing never fails.
// Partial corpora and malformed filings are expected, not exceptional.
type ReportParser interface {
	Parse(text string) []models.TradeRecord
}
