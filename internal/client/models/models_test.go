package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocalization(t *testing.T) {
	l, err := ParseLocalization("  Back ")
	require.NoError(t, err)
	assert.Equal(t, LocalizationBack, l)

	_, err = ParseLocalization("elbow")
	require.ErrorIs(t, err, ErrUnknownLocalization)

	_, err = ParseLocalization("")
	require.ErrorIs(t, err, ErrUnknownLocalization)
}

func TestLocalizations_AllValid(t *testing.T) {
	all := Localizations()
	require.Len(t, all, 10)
	for _, l := range all {
		assert.True(t, l.Valid(), l)
	}
	assert.False(t, Localization("Face").Valid())
}

func TestScanRecord_DecodeHistory(t *testing.T) {
	body := `{"uploads":[
		{"id":7,"created_at":"2025-03-01T10:20:30.123456","user_uuid":"u1","file_name":"a.jpg",
		 "localization":"arm","file_hash":"h","url":"https://x/a.jpg",
		 "prediction_result":"Malignant","prediction_confidence":0.87},
		{"id":8,"created_at":"2025-03-02T08:00:00Z","user_uuid":"u1","file_name":"b.jpg",
		 "localization":"leg","file_hash":"h2","url":"https://x/b.jpg",
		 "prediction_result":null,"prediction_confidence":null}
	]}`

	var resp HistoryResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	require.Len(t, resp.Uploads, 2)

	first := resp.Uploads[0]
	assert.Equal(t, int64(7), first.ID)
	assert.Equal(t, time.Date(2025, 3, 1, 10, 20, 30, 123456000, time.UTC), first.CreatedAt.Time)
	assert.False(t, first.Pending())
	assert.Equal(t, ResultMalignant, first.Result())
	assert.True(t, first.Is(ResultMalignant))
	assert.InDelta(t, 0.87, first.Confidence(), 1e-9)

	second := resp.Uploads[1]
	assert.True(t, second.Pending())
	assert.Equal(t, Result(""), second.Result())
	assert.False(t, second.Is(ResultBenign))
	assert.Zero(t, second.Confidence())
	assert.Equal(t, time.Date(2025, 3, 2, 8, 0, 0, 0, time.UTC), second.CreatedAt.Time)
}

func TestScanRecord_IsCaseInsensitive(t *testing.T) {
	res := "benign"
	r := ScanRecord{PredictionResult: &res}
	assert.True(t, r.Is(ResultBenign))
	assert.False(t, r.Is(ResultMalignant))
}

func TestTimestamp(t *testing.T) {
	ts, err := ParseTimestamp("2024-12-31 23:59:59")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, ts.Location())

	ts, err = ParseTimestamp("2024-12-31T23:59:59+02:00")
	require.NoError(t, err)
	assert.Equal(t, 21, ts.Hour())

	_, err = ParseTimestamp("yesterday")
	require.Error(t, err)

	var tt Timestamp
	require.NoError(t, json.Unmarshal([]byte(`null`), &tt))
	assert.True(t, tt.IsZero())
	require.Error(t, json.Unmarshal([]byte(`"31/12/2024"`), &tt))

	b, err := json.Marshal(Timestamp{Time: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)})
	require.NoError(t, err)
	assert.JSONEq(t, `"2025-01-02T03:04:05Z"`, string(b))
}
