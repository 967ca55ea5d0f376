package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BrianKoge/Ubuntu-Requests/internal/config"
	"github.com/BrianKoge/Ubuntu-Requests/internal/domain/imagefile"
	"github.com/BrianKoge/Ubuntu-Requests/internal/domain/model"
	"github.com/BrianKoge/Ubuntu-Requests/internal/fetch"
	"github.com/BrianKoge/Ubuntu-Requests/internal/observability"
	"github.com/BrianKoge/Ubuntu-Requests/internal/registry"
	"github.com/BrianKoge/Ubuntu-Requests/internal/storage"
)

// Downloader runs the full download pipeline for one URL: policy checks,
// size-capped fetch, format gate, dedup, safe naming, persistence.
type Downloader struct {
	fetcher  fetch.Fetcher
	store    storage.ObjectStorage
	registry *registry.HashRegistry
	policy   *URLPolicy
	names    *FilenameService

	maxFileSize int64
	allowedExts map[string]struct{}

	logger  observability.Logger
	metrics observability.Metrics
}

// NewDownloader wires the pipeline from its collaborators. The registry is
// passed in rather than held globally so isolated runs (and tests) own
// their dedup state.
func NewDownloader(
	cfg config.Download,
	fetcher fetch.Fetcher,
	store storage.ObjectStorage,
	reg *registry.HashRegistry,
	logger observability.Logger,
	metrics observability.Metrics,
) *Downloader {
	allowed := make(map[string]struct{}, len(cfg.AllowedExtensions))
	for _, ext := range cfg.AllowedExtensions {
		allowed[strings.ToLower(ext)] = struct{}{}
	}

	return &Downloader{
		fetcher:     fetcher,
		store:       store,
		registry:    reg,
		policy:      NewURLPolicy(cfg.BlockedDomains),
		names:       NewFilenameService(),
		maxFileSize: cfg.MaxFileSizeBytes,
		allowedExts: allowed,
		logger:      logger,
		metrics:     metrics,
	}
}

// Download processes one URL and always returns a Result; every failure
// mode is folded into the outcome, never an error return, so a batch can
// continue past it.
func (d *Downloader) Download(ctx context.Context, rawURL string) model.Result {
	start := time.Now()
	result := d.download(ctx, rawURL)

	d.metrics.IncrementCounter("download.outcome",
		map[string]string{"outcome": string(result.Outcome)})
	d.metrics.RecordHistogram("download.duration_seconds",
		time.Since(start).Seconds(), nil)

	return result
}

func (d *Downloader) download(ctx context.Context, rawURL string) model.Result {
	insecure, err := d.policy.Check(rawURL)
	if err != nil {
		if errors.Is(err, ErrBlockedDomain) {
			d.logger.Warn("blocked domain, skipping", "url", rawURL)
			return model.Skipped(rawURL, model.OutcomeSkippedBlockedDomain)
		}
		return model.Failed(rawURL,
			model.WrapDownloadError(model.InvalidURLError, "invalid URL", rawURL, err))
	}
	if insecure {
		d.logger.Warn("non-HTTPS URL, proceeding anyway", "url", rawURL)
	}

	resp, err := d.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return model.Failed(rawURL,
			model.WrapDownloadError(model.NetworkError, "request failed", rawURL, err)).
			WithWarning(insecure)
	}

	if resp.Body == nil {
		return model.Failed(rawURL,
			model.WrapDownloadError(model.HTTPStatusError,
				fmt.Sprintf("unexpected HTTP status: %d", resp.StatusCode),
				rawURL, ErrUnexpectedStatus(resp.StatusCode))).
			WithWarning(insecure)
	}
	defer resp.Body.Close()

	// An honest Content-Length above the cap saves reading the body.
	// The streamed count below is still the authoritative check.
	if resp.ContentLength > d.maxFileSize {
		d.logger.Warn("advertised size exceeds limit, skipping",
			"url", rawURL, "content_length", resp.ContentLength)
		return model.Skipped(rawURL, model.OutcomeSkippedOversize).WithWarning(insecure)
	}

	if !d.acceptable(rawURL, resp.ContentType) {
		return model.Failed(rawURL,
			model.NewDownloadError(model.UnsupportedFormatError, "unsupported format", rawURL)).
			WithWarning(insecure)
	}

	img, err := imagefile.NewFromReader(resp.Body, rawURL, resp.ContentType, d.maxFileSize)
	if err != nil {
		if errors.Is(err, imagefile.ErrSizeExceeded) {
			d.logger.Warn("transfer exceeded size limit, aborted",
				"url", rawURL, "limit_bytes", d.maxFileSize)
			return model.Skipped(rawURL, model.OutcomeSkippedOversize).WithWarning(insecure)
		}
		return model.Failed(rawURL,
			model.WrapDownloadError(model.ReadError, "failed to read response", rawURL, err)).
			WithWarning(insecure)
	}

	digest := img.Digest()
	if d.registry.Contains(digest) {
		d.logger.Info("duplicate content, skipping", "url", rawURL, "sha256", digest)
		return model.Skipped(rawURL, model.OutcomeSkippedDuplicate).WithWarning(insecure)
	}

	name := d.names.SafeName(rawURL, img.ContentType())
	key, err := d.names.Resolve(ctx, d.store, name, digest)
	if err != nil {
		return model.Failed(rawURL,
			model.WrapDownloadError(model.StorageError, "failed to resolve filename", rawURL, err)).
			WithWarning(insecure)
	}

	metadata := storage.ObjectMetadata{
		ContentType:   img.ContentType(),
		ContentLength: img.Size(),
		UserMetadata: map[string]string{
			"source-url": rawURL,
			"sha256":     digest,
		},
	}
	if err := d.store.Put(ctx, key, bytes.NewReader(img.Content()), metadata); err != nil {
		return model.Failed(rawURL,
			model.WrapDownloadError(model.StorageError, "failed to store file", rawURL, err)).
			WithWarning(insecure)
	}

	if err := d.registry.Add(digest); err != nil {
		// The file is saved; a registry persistence failure only costs
		// dedup on a future run.
		d.logger.Error("failed to record content hash", "error", err, "sha256", digest)
	}

	d.logger.Info("image saved", "url", rawURL, "path", key, "bytes", img.Size())
	d.metrics.RecordHistogram("download.size_bytes", float64(img.Size()), nil)

	return model.Saved(rawURL, key, digest, img.Size()).WithWarning(insecure)
}

// acceptable applies the format policy: the response content type must be
// an image (octet-stream tolerated), and the extension derived from the
// URL path, or failing that the content type, must be on the allow-list.
func (d *Downloader) acceptable(rawURL, contentType string) bool {
	ct := strings.ToLower(contentType)
	if idx := strings.Index(ct, ";"); idx != -1 {
		ct = ct[:idx]
	}
	ct = strings.TrimSpace(ct)

	if !strings.HasPrefix(ct, "image/") && ct != "application/octet-stream" {
		return false
	}

	ext := imagefile.URLExtension(rawURL)
	if ext == "" {
		ext = imagefile.ExtensionFromContentType(ct)
	}
	if ext == "" {
		return false
	}
	_, ok := d.allowedExts[ext]
	return ok
}
