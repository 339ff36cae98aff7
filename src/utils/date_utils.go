package utils

import (
	"log"
	"time"

	"github.com/username/tradewatch/src/models"
)

// ParseReportDate parses a disclosure date string (m/d/yyyy).
// Logs an error and returns zero time if parsing fails.
func ParseReportDate(dateStr string) time.Time {
	t, err := time.Parse(models.ReportDateFormat, dateStr)
	if err != nil {
		log.Printf("Error parsing date '%s' with format '%s': %v. Returning zero time.", dateStr, models.ReportDateFormat, err)
		return time.Time{}
	}
	return t
}

// IsValidReportDate reports whether the string is a parseable disclosure date.
func IsValidReportDate(dateStr string) bool {
	_, err := time.Parse(models.ReportDateFormat, dateStr)
	return err == nil
}
