package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/skincheck/internal/client/export"
	"github.com/dmitrijs2005/skincheck/internal/filex"
)

// Export writes the filtered and sorted history to path. An empty format is
// taken from the file extension.
func (a *App) Export(ctx context.Context, path, format string, opts HistoryOptions) error {
	var f export.Format
	if format != "" {
		var err error
		if f, err = export.ParseFormat(format); err != nil {
			return err
		}
	} else {
		var ok bool
		if f, ok = export.FormatFromPath(path); !ok {
			return fmt.Errorf("cannot tell the format of %s; pass --format json|yaml|parquet", path)
		}
	}

	if err := a.applyView(opts); err != nil {
		return err
	}
	if err := a.ensureHistory(ctx, opts.Refresh); err != nil {
		return err
	}
	records := a.history.Records()

	if _, err := filex.EnsureParentDir(path); err != nil {
		return err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := export.Write(file, f, records); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close export file: %w", err)
	}

	a.printf("Exported %d scans to %s (%s)\n", len(records), path, f)
	return nil
}
