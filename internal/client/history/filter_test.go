package history

import (
	"testing"

	"github.com/dmitrijs2005/skincheck/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mixed() []models.ScanRecord {
	return []models.ScanRecord{
		rec(1, "Benign", 0.7),
		rec(2, "", 0),
		rec(3, "Malignant", 0.95),
		rec(4, "benign", 0.4),
		rec(5, "", 0),
		rec(6, "MALIGNANT", 0.7),
	}
}

func TestFilterBy_PartitionsRecords(t *testing.T) {
	all := mixed()

	benign := FilterBy(all, FilterBenign)
	malignant := FilterBy(all, FilterMalignant)
	pending := FilterBy(all, FilterPending)

	assert.Equal(t, []int64{1, 4}, ids(benign))
	assert.Equal(t, []int64{3, 6}, ids(malignant))
	assert.Equal(t, []int64{2, 5}, ids(pending))
	assert.Equal(t, len(all), len(benign)+len(malignant)+len(pending))

	seen := map[int64]int{}
	for _, part := range [][]models.ScanRecord{benign, malignant, pending} {
		for _, r := range part {
			seen[r.ID]++
		}
	}
	for _, r := range all {
		assert.Equal(t, 1, seen[r.ID], "record %d", r.ID)
	}

	assert.Equal(t, ids(all), ids(FilterBy(all, FilterAll)))
}

func TestSortBy_Orders(t *testing.T) {
	all := mixed()

	newest := SortBy(all, SortNewest)
	for i := 1; i < len(newest); i++ {
		assert.False(t, newest[i].CreatedAt.After(newest[i-1].CreatedAt.Time))
	}

	oldest := SortBy(all, SortOldest)
	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6}, ids(oldest))

	byConf := SortBy(all, SortConfidence)
	for i := 1; i < len(byConf); i++ {
		assert.LessOrEqual(t, byConf[i].Confidence(), byConf[i-1].Confidence())
	}
	// Stable: equal confidences keep input order, pending counts as 0.
	assert.Equal(t, []int64{3, 1, 6, 4, 2, 5}, ids(byConf))

	// Input is untouched.
	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6}, ids(all))
}

func TestSortBy_Nil(t *testing.T) {
	out := SortBy(nil, SortNewest)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestParseFilterAndSort(t *testing.T) {
	f, err := ParseFilter(" Malignant ")
	require.NoError(t, err)
	assert.Equal(t, FilterMalignant, f)

	f, err = ParseFilter("")
	require.NoError(t, err)
	assert.Equal(t, FilterAll, f)

	_, err = ParseFilter("suspicious")
	require.Error(t, err)

	s, err := ParseSort("CONFIDENCE")
	require.NoError(t, err)
	assert.Equal(t, SortConfidence, s)

	s, err = ParseSort("")
	require.NoError(t, err)
	assert.Equal(t, SortNewest, s)

	_, err = ParseSort("size")
	require.Error(t, err)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "Analysis is still in progress. Please check back later for results.", Describe(rec(1, "", 0)))
	assert.Equal(t, "Pending", DisplayResult(rec(1, "", 0)))

	m := rec(2, "Malignant", 0.876)
	assert.Equal(t,
		"The analysis of the skin lesion on arm shows suspicious characteristics that require immediate medical attention. Confidence level: 88%.",
		Describe(m))
	assert.Equal(t, "Malignant", DisplayResult(m))

	b := rec(3, "Benign", 0.5)
	b.Localization = ""
	assert.Equal(t,
		"The analysis of the skin lesion shows characteristics consistent with a benign condition. Confidence level: 50%.",
		Describe(b))
}
