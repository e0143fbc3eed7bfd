package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/skincheck/internal/client/models"
)

func localizationNames() string {
	all := models.Localizations()
	names := make([]string, len(all))
	for i, l := range all {
		names[i] = string(l)
	}
	return strings.Join(names, ", ")
}

// Scan uploads the photo at path. The body area is prompted for when empty.
func (a *App) Scan(ctx context.Context, path, area string) error {
	var err error
	if path == "" {
		if path, err = getSimpleText(a.reader, "Enter image path", a.out); err != nil {
			return err
		}
	}
	if area == "" {
		if area, err = getSimpleText(a.reader, "Body area ("+localizationNames()+")", a.out); err != nil {
			return err
		}
	}

	loc, err := models.ParseLocalization(area)
	if err != nil {
		return err
	}

	a.println("Analyzing...")
	pred, err := a.scans.Submit(ctx, path, loc)
	if err != nil {
		return err
	}

	a.printf("Result:     %s\n", pred.Prediction)
	a.printf("Confidence: %.0f%%\n", pred.Confidence*100)
	a.printf("  Benign    %5.1f%%\n", pred.Probabilities.Benign*100)
	a.printf("  Malignant %5.1f%%\n", pred.Probabilities.Malignant*100)
	if strings.EqualFold(pred.Prediction, string(models.ResultMalignant)) {
		a.println("Please consult a dermatologist as soon as possible.")
	}
	a.println("This is not a medical diagnosis.")
	return nil
}
