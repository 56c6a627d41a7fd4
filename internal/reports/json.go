package reports

import (
	"encoding/json"
)

// FormatMonthJSON formats a month report as JSON.
func FormatMonthJSON(report *MonthReport) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}
