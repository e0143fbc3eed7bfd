package cli

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/dmitrijs2005/skincheck/internal/client/history"
	"github.com/dmitrijs2005/skincheck/internal/client/models"
)

const dateLayout = "Jan 2, 2006, 03:04 PM"

// HistoryOptions tunes one history listing. Empty Filter or Sort keep the
// current value.
type HistoryOptions struct {
	Filter  string
	Sort    string
	All     bool
	Refresh bool
}

func (a *App) ensureHistory(ctx context.Context, refresh bool) error {
	switch {
	case refresh:
		return a.history.Refresh(ctx)
	case a.history.State() == history.StateIdle:
		return a.history.Load(ctx)
	}
	return nil
}

func (a *App) applyView(opts HistoryOptions) error {
	if opts.Filter != "" {
		f, err := history.ParseFilter(opts.Filter)
		if err != nil {
			return err
		}
		a.history.SetFilter(f)
	}
	if opts.Sort != "" {
		s, err := history.ParseSort(opts.Sort)
		if err != nil {
			return err
		}
		a.history.SetSort(s)
	}
	return nil
}

func (a *App) History(ctx context.Context, opts HistoryOptions) error {
	if err := a.applyView(opts); err != nil {
		return err
	}
	if err := a.ensureHistory(ctx, opts.Refresh); err != nil {
		return err
	}
	if opts.All {
		for a.history.LoadMore() {
		}
	}
	a.printHistory()
	return nil
}

// More shows the next page.
func (a *App) More(ctx context.Context) error {
	if err := a.ensureHistory(ctx, false); err != nil {
		return err
	}
	if !a.history.LoadMore() {
		a.println("No more scans.")
		return nil
	}
	a.printHistory()
	return nil
}

func (a *App) printHistory() {
	vm := a.history
	visible := vm.Visible()

	if vm.Total() == 0 {
		a.println("No scans yet. Upload an image with 'scan' to get started.")
		return
	}
	if len(visible) == 0 {
		a.printf("No %s scans.\n", vm.Filter())
		return
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tAREA\tRESULT\tCONFIDENCE")
	for _, r := range visible {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", r.ID, formatDate(r), r.Localization, history.DisplayResult(r), formatConfidence(r))
	}
	_ = tw.Flush()

	a.printf("Showing %d of %d (filter: %s, sort: %s)", len(visible), vm.FilteredCount(), vm.Filter(), vm.Sort())
	if vm.HasMore() {
		a.printf(" - 'more' for the next page")
	}
	a.println()
}

func formatDate(r models.ScanRecord) string {
	if r.CreatedAt.IsZero() {
		return "-"
	}
	return r.CreatedAt.Local().Format(dateLayout)
}

func formatConfidence(r models.ScanRecord) string {
	if r.Pending() {
		return "-"
	}
	return fmt.Sprintf("%d%%", history.ConfidencePercent(r))
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid scan id %q", s)
	}
	return id, nil
}

// Show prints the details of one scan.
func (a *App) Show(ctx context.Context, idText string) error {
	id, err := parseID(idText)
	if err != nil {
		return err
	}
	if err := a.ensureHistory(ctx, false); err != nil {
		return err
	}

	r, ok := a.history.Find(id)
	if !ok {
		return fmt.Errorf("scan %d not found", id)
	}

	a.printf("Scan #%d\n", r.ID)
	a.printf("Date:       %s\n", formatDate(r))
	a.printf("Area:       %s\n", r.Localization)
	a.printf("Result:     %s\n", history.DisplayResult(r))
	a.printf("Confidence: %s\n", formatConfidence(r))
	if r.URL != "" {
		a.printf("Image:      %s\n", r.URL)
	}
	a.println()
	a.println(history.Describe(r))
	return nil
}

// Delete removes a scan from the history. The server is only asked to
// delete it when remote delete is enabled.
func (a *App) Delete(ctx context.Context, idText string) error {
	id, err := parseID(idText)
	if err != nil {
		return err
	}
	if err := a.ensureHistory(ctx, false); err != nil {
		return err
	}
	if err := a.history.Delete(ctx, id); err != nil {
		return err
	}

	if a.config.RemoteDelete {
		a.println("Scan has been deleted.")
	} else {
		a.printf("Scan %d hidden for this session only; it stays on the server. Use --remote-delete to delete it there.\n", id)
	}
	return nil
}

func (a *App) Stats(ctx context.Context) error {
	if err := a.ensureHistory(ctx, false); err != nil {
		return err
	}
	s := a.history.Stats()
	a.printf("Total: %d  Benign: %d  Malignant: %d  Pending: %d\n", s.Total, s.Benign, s.Malignant, s.Pending)
	return nil
}
