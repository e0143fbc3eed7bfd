package history

import (
	"fmt"
	"math"

	"github.com/dmitrijs2005/skincheck/internal/client/models"
)

// DisplayResult is the badge text of a record.
func DisplayResult(r models.ScanRecord) string {
	if r.Pending() {
		return "Pending"
	}
	return *r.PredictionResult
}

// ConfidencePercent rounds the confidence to a whole percentage.
func ConfidencePercent(r models.ScanRecord) int {
	return int(math.Round(r.Confidence() * 100))
}

// Describe returns the detail text shown for a record.
func Describe(r models.ScanRecord) string {
	if r.Pending() {
		return "Analysis is still in progress. Please check back later for results."
	}

	subject := "The analysis of the skin lesion"
	if r.Localization != "" {
		subject += " on " + r.Localization
	}

	if r.Is(models.ResultMalignant) {
		return fmt.Sprintf("%s shows suspicious characteristics that require immediate medical attention. Confidence level: %d%%.",
			subject, ConfidencePercent(r))
	}
	return fmt.Sprintf("%s shows characteristics consistent with a benign condition. Confidence level: %d%%.",
		subject, ConfidencePercent(r))
}
