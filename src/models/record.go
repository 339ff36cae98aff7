package models

import "time"

// ReportDateFormat is the month/day/year layout disclosure documents use for
// both transaction and notification dates. The non-padded layout also
// accepts zero-padded values ("06/13/2025").
const ReportDateFormat = "1/2/2006"

// HasParseableDates reports whether both dates on the record parse as valid
// calendar dates. Records that fail are retained in the cache but are not
// usable for date-ordered queries; a missing date is never fabricated.
func (t TradeRecord) HasParseableDates() bool {
	if t.TransactionDate == "" || t.NotificationDate == "" {
		return false
	}
	if _, err := time.Parse(ReportDateFormat, t.TransactionDate); err != nil {
		return false
	}
	if _, err := time.Parse(ReportDateFormat, t.NotificationDate); err != nil {
		return false
	}
	return true
}
