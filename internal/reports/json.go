package reports

import (
	"encoding/json"
)

// FormatPeriodJSON formats a period report as JSON.
func FormatPeriodJSON(report *PeriodReport) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}

// FormatSummaryJSON formats a summary as JSON.
func FormatSummaryJSON(summary *Summary) ([]byte, error) {
	return json.MarshalIndent(summary, "", "  ")
}
