package models

import "strings"

// Result is the classifier verdict.
type Result string

const (
	ResultBenign    Result = "Benign"
	ResultMalignant Result = "Malignant"
)

// ScanRecord is one past submission as returned by the history endpoint.
// A nil PredictionResult means the scan has not been classified yet.
type ScanRecord struct {
	ID                   int64     `json:"id"`
	CreatedAt            Timestamp `json:"created_at"`
	UserUUID             string    `json:"user_uuid"`
	FileName             string    `json:"file_name"`
	Localization         string    `json:"localization"`
	FileHash             string    `json:"file_hash"`
	URL                  string    `json:"url"`
	PredictionResult     *string   `json:"prediction_result"`
	PredictionConfidence *float64  `json:"prediction_confidence"`
}

func (r ScanRecord) Pending() bool {
	return r.PredictionResult == nil
}

// Result returns the verdict, or "" while pending.
func (r ScanRecord) Result() Result {
	if r.PredictionResult == nil {
		return ""
	}
	return Result(*r.PredictionResult)
}

// Is compares the verdict case-insensitively.
func (r ScanRecord) Is(res Result) bool {
	return r.PredictionResult != nil && strings.EqualFold(*r.PredictionResult, string(res))
}

// Confidence returns the confidence, 0 when absent.
func (r ScanRecord) Confidence() float64 {
	if r.PredictionConfidence == nil {
		return 0
	}
	return *r.PredictionConfidence
}

// HistoryResponse is the body of GET /predict/history.
type HistoryResponse struct {
	Uploads []ScanRecord `json:"uploads"`
}

// Probabilities holds the per-class scores of a prediction.
type Probabilities struct {
	Benign    float64 `json:"Benign"`
	Malignant float64 `json:"Malignant"`
}

// Prediction is the immediate result of a submission. It is not stored.
type Prediction struct {
	Prediction    string        `json:"prediction"`
	Confidence    float64       `json:"confidence"`
	Probabilities Probabilities `json:"probabilities"`
}

// Token is the body of a successful login.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	Message     string `json:"message"`
}
