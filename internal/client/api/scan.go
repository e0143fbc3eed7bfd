package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/skincheck/internal/client/gateway"
	"github.com/dmitrijs2005/skincheck/internal/client/models"
)

const (
	imageField = "image"

	DefaultImageName = "skin_image.jpg"
	DefaultImageType = "image/jpeg"
)

// ScanUpload is one photo to classify.
type ScanUpload struct {
	Localization models.Localization
	Image        io.Reader
	FileName     string
	ContentType  string
}

// SubmitScan uploads the photo as multipart/form-data and returns the
// classifier verdict.
func (c *Client) SubmitScan(ctx context.Context, up ScanUpload) (models.Prediction, error) {
	if !up.Localization.Valid() {
		return models.Prediction{}, invalid("localization", fmt.Sprintf("unknown body area %q", up.Localization))
	}
	if up.Image == nil {
		return models.Prediction{}, invalid("image", "image is required")
	}

	body, contentType, err := multipartImage(up)
	if err != nil {
		return models.Prediction{}, err
	}

	var pred models.Prediction
	err = c.doer.Do(ctx, gateway.Request{
		Method:        http.MethodPost,
		Path:          pathPredict,
		Query:         url.Values{"localization": {string(up.Localization)}},
		Body:          body,
		ContentType:   contentType,
		Authenticated: true,
	}, &pred)
	if err != nil {
		return models.Prediction{}, err
	}
	return pred, nil
}

func multipartImage(up ScanUpload) (*bytes.Buffer, string, error) {
	name := up.FileName
	if name == "" {
		name = DefaultImageName
	}
	ct := up.ContentType
	if ct == "" {
		ct = DefaultImageType
	}

	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, imageField, escapeQuotes(name)))
	h.Set("Content-Type", ct)

	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("create multipart part: %w", err)
	}
	if _, err := io.Copy(part, up.Image); err != nil {
		return nil, "", fmt.Errorf("read image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart body: %w", err)
	}
	return buf, mw.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

func jsonBody(v any) (*bytes.Buffer, error) {
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(v); err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return buf, nil
}
