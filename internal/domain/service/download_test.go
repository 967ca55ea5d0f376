package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrianKoge/Ubuntu-Requests/internal/config"
	"github.com/BrianKoge/Ubuntu-Requests/internal/domain/model"
	"github.com/BrianKoge/Ubuntu-Requests/internal/fetch"
	"github.com/BrianKoge/Ubuntu-Requests/internal/observability/mocks"
	"github.com/BrianKoge/Ubuntu-Requests/internal/registry"
	"github.com/BrianKoge/Ubuntu-Requests/internal/storage/adapters/fs"
)

// stubFetcher serves canned responses and counts invocations so tests
// can assert that policy skips never touch the network.
type stubFetcher struct {
	calls int
	body  string
	resp  fetch.Response
	err   error
}

func (s *stubFetcher) Fetch(ctx context.Context, url string) (*fetch.Response, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	resp := s.resp
	if resp.StatusCode == 0 {
		resp.StatusCode = 200
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		resp.Body = io.NopCloser(strings.NewReader(s.body))
	}
	return &resp, nil
}

func newTestDownloader(t *testing.T, cfg config.Download, fetcher fetch.Fetcher) (*Downloader, *fs.Storage, *registry.HashRegistry) {
	t.Helper()

	store, err := fs.New(t.TempDir(), mocks.NopLogger{}, mocks.NewRecordingMetrics())
	require.NoError(t, err)

	reg := registry.New()
	d := NewDownloader(cfg, fetcher, store, reg, mocks.NopLogger{}, mocks.NewRecordingMetrics())
	return d, store, reg
}

func testDownloadConfig() config.Download {
	cfg := config.DefaultDownloadConfig()
	cfg.MaxFileSizeBytes = 1024
	cfg.RequestDelay = 0
	return cfg
}

func TestDownload_BlockedDomainMakesNoNetworkCall(t *testing.T) {
	fetcher := &stubFetcher{}
	d, _, _ := newTestDownloader(t, testDownloadConfig(), fetcher)

	result := d.Download(context.Background(), "https://malware.com/x.jpg")

	assert.Equal(t, model.OutcomeSkippedBlockedDomain, result.Outcome)
	assert.Equal(t, 0, fetcher.calls, "blocked domains must be skipped before any network call")
}

func TestDownload_SavedAndDigestRoundTrip(t *testing.T) {
	body := "fake png bytes"
	fetcher := &stubFetcher{body: body, resp: fetch.Response{ContentType: "image/png", ContentLength: int64(len(body))}}
	d, store, reg := newTestDownloader(t, testDownloadConfig(), fetcher)

	result := d.Download(context.Background(), "https://example.com/a.png")
	require.Equal(t, model.OutcomeSaved, result.Outcome)
	assert.Equal(t, "a.png", result.Path)
	assert.False(t, result.InsecureScheme)

	// The recorded digest must equal the SHA-256 of the bytes on disk.
	reader, err := store.Get(context.Background(), result.Path)
	require.NoError(t, err)
	defer reader.Close()
	saved, err := io.ReadAll(reader)
	require.NoError(t, err)

	sum := sha256.Sum256(saved)
	assert.Equal(t, hex.EncodeToString(sum[:]), result.Digest)
	assert.Equal(t, body, string(saved))
	assert.True(t, reg.Contains(result.Digest))
}

func TestDownload_DuplicateContentSkipped(t *testing.T) {
	fetcher := &stubFetcher{body: "same bytes", resp: fetch.Response{ContentType: "image/png"}}
	d, store, _ := newTestDownloader(t, testDownloadConfig(), fetcher)

	first := d.Download(context.Background(), "https://example.com/a.png")
	second := d.Download(context.Background(), "https://example.com/b.png")

	assert.Equal(t, model.OutcomeSaved, first.Outcome)
	assert.Equal(t, model.OutcomeSkippedDuplicate, second.Outcome)

	// No second file may have been written.
	objects, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, objects, 1)
}

func TestDownload_OversizeStreamAborted(t *testing.T) {
	cfg := testDownloadConfig()
	cfg.MaxFileSizeBytes = 10

	// Content-Length lies low; only the streamed count catches this.
	fetcher := &stubFetcher{
		body: strings.Repeat("x", 50),
		resp: fetch.Response{ContentType: "image/png", ContentLength: 5},
	}
	d, store, _ := newTestDownloader(t, cfg, fetcher)

	result := d.Download(context.Background(), "https://example.com/big.png")
	assert.Equal(t, model.OutcomeSkippedOversize, result.Outcome)

	objects, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, objects, "no partial file may be left behind")
}

func TestDownload_OversizeContentLengthShortCircuits(t *testing.T) {
	cfg := testDownloadConfig()
	cfg.MaxFileSizeBytes = 10

	fetcher := &stubFetcher{
		body: "tiny",
		resp: fetch.Response{ContentType: "image/png", ContentLength: 1 << 30},
	}
	d, _, _ := newTestDownloader(t, cfg, fetcher)

	result := d.Download(context.Background(), "https://example.com/big.png")
	assert.Equal(t, model.OutcomeSkippedOversize, result.Outcome)
}

func TestDownload_UnsupportedFormat(t *testing.T) {
	t.Run("executable extension", func(t *testing.T) {
		fetcher := &stubFetcher{body: "MZ", resp: fetch.Response{ContentType: "application/octet-stream"}}
		d, store, _ := newTestDownloader(t, testDownloadConfig(), fetcher)

		result := d.Download(context.Background(), "https://example.com/setup.exe")
		require.Equal(t, model.OutcomeFailed, result.Outcome)
		require.NotNil(t, result.Err)
		assert.Equal(t, model.UnsupportedFormatError, result.Err.Kind)
		assert.Equal(t, "unsupported format", result.Err.Message)

		objects, err := store.List(context.Background(), "")
		require.NoError(t, err)
		assert.Empty(t, objects)
	})

	t.Run("non-image content type", func(t *testing.T) {
		fetcher := &stubFetcher{body: "<html>", resp: fetch.Response{ContentType: "text/html"}}
		d, _, _ := newTestDownloader(t, testDownloadConfig(), fetcher)

		result := d.Download(context.Background(), "https://example.com/a.png")
		require.Equal(t, model.OutcomeFailed, result.Outcome)
		assert.Equal(t, model.UnsupportedFormatError, result.Err.Kind)
	})
}

func TestDownload_FailureKinds(t *testing.T) {
	t.Run("network error", func(t *testing.T) {
		fetcher := &stubFetcher{err: errors.New("connection refused")}
		d, _, _ := newTestDownloader(t, testDownloadConfig(), fetcher)

		result := d.Download(context.Background(), "https://example.com/a.png")
		require.Equal(t, model.OutcomeFailed, result.Outcome)
		assert.Equal(t, model.NetworkError, result.Err.Kind)
	})

	t.Run("non-2xx status", func(t *testing.T) {
		fetcher := &stubFetcher{resp: fetch.Response{StatusCode: 404}}
		d, _, _ := newTestDownloader(t, testDownloadConfig(), fetcher)

		result := d.Download(context.Background(), "https://example.com/a.png")
		require.Equal(t, model.OutcomeFailed, result.Outcome)
		assert.Equal(t, model.HTTPStatusError, result.Err.Kind)
		assert.Contains(t, result.Err.Message, "404")
	})

	t.Run("invalid URL", func(t *testing.T) {
		fetcher := &stubFetcher{}
		d, _, _ := newTestDownloader(t, testDownloadConfig(), fetcher)

		result := d.Download(context.Background(), "ftp://example.com/a.png")
		require.Equal(t, model.OutcomeFailed, result.Outcome)
		assert.Equal(t, model.InvalidURLError, result.Err.Kind)
		assert.Equal(t, 0, fetcher.calls)
	})
}

func TestDownload_InsecureSchemeProceedsWithWarning(t *testing.T) {
	fetcher := &stubFetcher{body: "jpg bytes", resp: fetch.Response{ContentType: "image/jpeg"}}
	d, _, _ := newTestDownloader(t, testDownloadConfig(), fetcher)

	result := d.Download(context.Background(), "http://example.com/plain.jpg")

	assert.Equal(t, model.OutcomeSaved, result.Outcome)
	assert.True(t, result.InsecureScheme)
	assert.Equal(t, 1, fetcher.calls)
}

func TestDownload_CollisionGetsSuffix(t *testing.T) {
	d, store, _ := newTestDownloader(t, testDownloadConfig(),
		&stubFetcher{body: "first", resp: fetch.Response{ContentType: "image/png"}})

	first := d.Download(context.Background(), "https://example.com/cat.png")
	require.Equal(t, model.OutcomeSaved, first.Outcome)
	require.Equal(t, "cat.png", first.Path)

	// Same name, different bytes: must not overwrite.
	d2 := NewDownloader(testDownloadConfig(),
		&stubFetcher{body: "second", resp: fetch.Response{ContentType: "image/png"}},
		store, registry.New(), mocks.NopLogger{}, mocks.NewRecordingMetrics())

	second := d2.Download(context.Background(), "https://other.example/cat.png")
	require.Equal(t, model.OutcomeSaved, second.Outcome)
	assert.Equal(t, "cat_1.png", second.Path)

	objects, err := store.List(context.Background(), "cat")
	require.NoError(t, err)
	assert.Len(t, objects, 2)
}
