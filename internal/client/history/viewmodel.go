// Package history holds the state behind the history screen: one fetched
// snapshot of the user's scans, windowed by filter, sort order and page.
// A ViewModel is not safe for concurrent use.
package history

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/skincheck/internal/client/models"
	"github.com/dmitrijs2005/skincheck/internal/common"
)

const DefaultPageSize = 10

// Source fetches the complete history. *api.Client implements it.
type Source interface {
	ListHistory(ctx context.Context) ([]models.ScanRecord, error)
}

// Remover deletes a scan on the server. *api.Client implements it.
type Remover interface {
	DeleteScan(ctx context.Context, id int64) error
}

type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateRefreshing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateRefreshing:
		return "refreshing"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Stats counts records per category over the whole snapshot.
type Stats struct {
	Total     int
	Benign    int
	Malignant int
	Pending   int
}

type ViewModel struct {
	source   Source
	remover  Remover
	pageSize int

	all    []models.ScanRecord
	filter Filter
	sort   Sort
	page   int
	state  State
}

type Option func(*ViewModel)

func WithPageSize(n int) Option {
	return func(vm *ViewModel) {
		if n > 0 {
			vm.pageSize = n
		}
	}
}

// WithRemover makes Delete remove scans on the server before dropping them
// locally. Without it Delete is local only.
func WithRemover(r Remover) Option {
	return func(vm *ViewModel) { vm.remover = r }
}

func New(source Source, opts ...Option) *ViewModel {
	vm := &ViewModel{
		source:   source,
		pageSize: DefaultPageSize,
		filter:   FilterAll,
		sort:     SortNewest,
		page:     1,
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(vm)
	}
	return vm
}

// Load fetches the snapshot and resets the page to 1.
func (vm *ViewModel) Load(ctx context.Context) error {
	return vm.fetch(ctx, StateLoading)
}

// Refresh refetches while keeping the current filter and sort.
func (vm *ViewModel) Refresh(ctx context.Context) error {
	return vm.fetch(ctx, StateRefreshing)
}

func (vm *ViewModel) fetch(ctx context.Context, during State) error {
	prev := vm.state
	vm.state = during

	records, err := vm.source.ListHistory(ctx)
	if err != nil {
		// The previous snapshot stays visible.
		vm.state = prev
		return err
	}

	vm.all = records
	vm.page = 1
	vm.state = StateLoaded
	return nil
}

func (vm *ViewModel) State() State   { return vm.state }
func (vm *ViewModel) Filter() Filter { return vm.filter }
func (vm *ViewModel) Sort() Sort     { return vm.sort }
func (vm *ViewModel) Page() int      { return vm.page }
func (vm *ViewModel) PageSize() int  { return vm.pageSize }

// Total is the size of the whole snapshot, ignoring the filter.
func (vm *ViewModel) Total() int { return len(vm.all) }

func (vm *ViewModel) SetFilter(f Filter) {
	vm.filter = f
	vm.page = 1
}

func (vm *ViewModel) SetSort(s Sort) {
	vm.sort = s
	vm.page = 1
}

// Records returns the filtered and sorted snapshot without paging.
func (vm *ViewModel) Records() []models.ScanRecord {
	return SortBy(FilterBy(vm.all, vm.filter), vm.sort)
}

// Visible returns the first page*pageSize records of Records.
func (vm *ViewModel) Visible() []models.ScanRecord {
	recs := vm.Records()
	end := min(vm.page*vm.pageSize, len(recs))
	return recs[:end]
}

func (vm *ViewModel) FilteredCount() int {
	n := 0
	for _, r := range vm.all {
		if vm.filter.Matches(r) {
			n++
		}
	}
	return n
}

func (vm *ViewModel) HasMore() bool {
	return vm.page*vm.pageSize < vm.FilteredCount()
}

// LoadMore extends the window by one page. It reports whether anything
// changed; at the end of the list it is a no-op.
func (vm *ViewModel) LoadMore() bool {
	if vm.state != StateLoaded || !vm.HasMore() {
		return false
	}
	vm.page++
	return true
}

func (vm *ViewModel) Find(id int64) (models.ScanRecord, bool) {
	for _, r := range vm.all {
		if r.ID == id {
			return r, true
		}
	}
	return models.ScanRecord{}, false
}

// Delete drops the record with id from the snapshot. With a Remover the
// server delete runs first and a failure leaves the snapshot as it was.
func (vm *ViewModel) Delete(ctx context.Context, id int64) error {
	idx := -1
	for i, r := range vm.all {
		if r.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("scan %d: %w", id, common.ErrorNotFound)
	}

	if vm.remover != nil {
		if err := vm.remover.DeleteScan(ctx, id); err != nil {
			return err
		}
	}

	next := make([]models.ScanRecord, 0, len(vm.all)-1)
	next = append(next, vm.all[:idx]...)
	vm.all = append(next, vm.all[idx+1:]...)
	return nil
}

func (vm *ViewModel) Stats() Stats {
	s := Stats{Total: len(vm.all)}
	for _, r := range vm.all {
		switch {
		case FilterPending.Matches(r):
			s.Pending++
		case FilterBenign.Matches(r):
			s.Benign++
		case FilterMalignant.Matches(r):
			s.Malignant++
		}
	}
	return s
}
