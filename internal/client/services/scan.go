package services

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/skincheck/internal/client/api"
	"github.com/dmitrijs2005/skincheck/internal/client/models"
	"github.com/dmitrijs2005/skincheck/internal/imagex"
	"github.com/dmitrijs2005/skincheck/internal/logging"
)

// MaxImageBytes bounds what is read from disk for one scan.
const MaxImageBytes = 20 << 20

// Submitter is the part of the remote client used for scans.
type Submitter interface {
	SubmitScan(ctx context.Context, up api.ScanUpload) (models.Prediction, error)
}

type ScanService interface {
	Submit(ctx context.Context, path string, loc models.Localization) (models.Prediction, error)
}

type scanService struct {
	client       Submitter
	logger       logging.Logger
	maxImageSide int
	readFile     func(string) ([]byte, error)
}

// NewScanService builds a ScanService. A positive maxImageSide shrinks larger
// photos before upload.
func NewScanService(client Submitter, logger logging.Logger, maxImageSide int) ScanService {
	return &scanService{
		client:       client,
		logger:       logger,
		maxImageSide: maxImageSide,
		readFile:     readLimited,
	}
}

func readLimited(path string) ([]byte, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if fi.Size() > MaxImageBytes {
		return nil, &api.ValidationError{Field: "image", Reason: fmt.Sprintf("file is larger than %d MiB", MaxImageBytes>>20)}
	}
	return os.ReadFile(path)
}

// Submit reads the photo at path, checks that it really is an image and
// uploads it for classification.
func (s *scanService) Submit(ctx context.Context, path string, loc models.Localization) (models.Prediction, error) {
	if !loc.Valid() {
		return models.Prediction{}, &api.ValidationError{Field: "localization", Reason: fmt.Sprintf("unknown body area %q", loc)}
	}

	data, err := s.readFile(path)
	if err != nil {
		return models.Prediction{}, fmt.Errorf("read image: %w", err)
	}

	kind, err := imagex.RequireImage(data)
	if err != nil {
		return models.Prediction{}, &api.ValidationError{Field: "image", Reason: err.Error()}
	}

	name := filepath.Base(path)
	contentType := kind.MIME

	resized, changed, err := imagex.Downscale(data, s.maxImageSide)
	if err != nil {
		s.logger.Warn(ctx, "could not downscale image, sending original", "path", path, "error", err)
	} else if changed {
		s.logger.Debug(ctx, "image downscaled", "path", path, "before_bytes", len(data), "after_bytes", len(resized))
		data = resized
		contentType = "image/jpeg"
		name = strings.TrimSuffix(name, filepath.Ext(name)) + ".jpg"
	}

	return s.client.SubmitScan(ctx, api.ScanUpload{
		Localization: loc,
		Image:        bytes.NewReader(data),
		FileName:     name,
		ContentType:  contentType,
	})
}
