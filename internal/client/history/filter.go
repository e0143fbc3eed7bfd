package history

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/skincheck/internal/client/models"
)

type Filter string

const (
	FilterAll       Filter = "all"
	FilterBenign    Filter = "benign"
	FilterMalignant Filter = "malignant"
	FilterPending   Filter = "pending"
)

func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case FilterAll, FilterBenign, FilterMalignant, FilterPending:
		return f, nil
	case "":
		return FilterAll, nil
	default:
		return "", fmt.Errorf("unknown filter %q (want all, benign, malignant or pending)", s)
	}
}

type Sort string

const (
	SortNewest     Sort = "newest"
	SortOldest     Sort = "oldest"
	SortConfidence Sort = "confidence"
)

func ParseSort(s string) (Sort, error) {
	switch o := Sort(strings.ToLower(strings.TrimSpace(s))); o {
	case SortNewest, SortOldest, SortConfidence:
		return o, nil
	case "":
		return SortNewest, nil
	default:
		return "", fmt.Errorf("unknown sort %q (want newest, oldest or confidence)", s)
	}
}

// Matches reports whether r belongs to the category f. Pending is its own
// category: a record without a verdict never matches benign or malignant.
func (f Filter) Matches(r models.ScanRecord) bool {
	switch f {
	case FilterPending:
		return r.Pending()
	case FilterBenign:
		return r.Is(models.ResultBenign)
	case FilterMalignant:
		return r.Is(models.ResultMalignant)
	default:
		return true
	}
}

// FilterBy returns a new slice with the records matching f.
func FilterBy(records []models.ScanRecord, f Filter) []models.ScanRecord {
	out := make([]models.ScanRecord, 0, len(records))
	for _, r := range records {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// SortBy returns a sorted copy. Ties keep their input order.
func SortBy(records []models.ScanRecord, s Sort) []models.ScanRecord {
	out := slices.Clone(records)
	if out == nil {
		out = []models.ScanRecord{}
	}
	slices.SortStableFunc(out, compareFunc(s))
	return out
}

func compareFunc(s Sort) func(a, b models.ScanRecord) int {
	switch s {
	case SortOldest:
		return func(a, b models.ScanRecord) int {
			return a.CreatedAt.Compare(b.CreatedAt.Time)
		}
	case SortConfidence:
		return func(a, b models.ScanRecord) int {
			return cmp.Compare(b.Confidence(), a.Confidence())
		}
	default:
		return func(a, b models.ScanRecord) int {
			return b.CreatedAt.Compare(a.CreatedAt.Time)
		}
	}
}
