// Package export writes scan history to a file for use outside the CLI.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/skincheck/internal/client/models"
	"github.com/dmitrijs2005/skincheck/internal/common"
	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatParquet Format = "parquet"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatYAML, FormatParquet:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w export format %q (want json, yaml or parquet)", common.ErrorUnsupported, s)
	}
}

// FormatFromPath guesses the format from the file extension.
func FormatFromPath(path string) (Format, bool) {
	f, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	return f, err == nil
}

// Row is the flat shape of one exported scan.
type Row struct {
	ID                   int64     `json:"id" yaml:"id" parquet:"id"`
	CreatedAt            time.Time `json:"created_at" yaml:"created_at" parquet:"created_at,timestamp"`
	Localization         string    `json:"localization" yaml:"localization" parquet:"localization"`
	FileName             string    `json:"file_name" yaml:"file_name" parquet:"file_name"`
	FileHash             string    `json:"file_hash" yaml:"file_hash" parquet:"file_hash"`
	URL                  string    `json:"url" yaml:"url" parquet:"url"`
	PredictionResult     *string   `json:"prediction_result" yaml:"prediction_result" parquet:"prediction_result,optional"`
	PredictionConfidence *float64  `json:"prediction_confidence" yaml:"prediction_confidence" parquet:"prediction_confidence,optional"`
}

func toRows(records []models.ScanRecord) []Row {
	rows := make([]Row, len(records))
	for i, r := range records {
		rows[i] = Row{
			ID:                   r.ID,
			CreatedAt:            r.CreatedAt.UTC(),
			Localization:         r.Localization,
			FileName:             r.FileName,
			FileHash:             r.FileHash,
			URL:                  r.URL,
			PredictionResult:     r.PredictionResult,
			PredictionConfidence: r.PredictionConfidence,
		}
	}
	return rows
}

// Write encodes records to w in the given format, in the order given.
func Write(w io.Writer, format Format, records []models.ScanRecord) error {
	rows := toRows(records)

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rows); err != nil {
			return fmt.Errorf("failed to write json: %w", err)
		}
		return nil

	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return fmt.Errorf("failed to write yaml: %w", err)
		}
		return enc.Close()

	case FormatParquet:
		pw := parquet.NewGenericWriter[Row](w)
		if _, err := pw.Write(rows); err != nil {
			return fmt.Errorf("failed to write parquet: %w", err)
		}
		if err := pw.Close(); err != nil {
			return fmt.Errorf("failed to close parquet writer: %w", err)
		}
		return nil

	default:
		return fmt.Errorf("%w export format %q", common.ErrorUnsupported, format)
	}
}
