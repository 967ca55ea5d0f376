package journal

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrianKoge/Ubuntu-Requests/internal/domain/model"
)

func fixedResult(outcome model.Outcome, url string) model.Result {
	return model.Result{
		URL:       url,
		Outcome:   outcome,
		Timestamp: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestJournal_AppendsAndMirrors(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "download_log.txt")
	mirror := &bytes.Buffer{}

	j, err := Open(logPath, mirror)
	require.NoError(t, err)

	require.NoError(t, j.Record(fixedResult(model.OutcomeSaved, "https://example.com/a.png")))
	require.NoError(t, j.Record(fixedResult(model.OutcomeSkippedDuplicate, "https://example.com/a.png")))
	require.NoError(t, j.Close())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "2025-03-01T12:00:00Z\tSAVED\thttps://example.com/a.png", lines[0])
	assert.Equal(t, "2025-03-01T12:00:00Z\tSKIPPED_DUPLICATE\thttps://example.com/a.png", lines[1])

	// Mirror receives the same lines.
	assert.Equal(t, string(data), mirror.String())
}

func TestJournal_IncludesDetailAndWarning(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "download_log.txt")

	j, err := Open(logPath, nil)
	require.NoError(t, err)

	saved := fixedResult(model.OutcomeSaved, "http://example.com/a.png")
	saved.Path = "a.png"
	saved.InsecureScheme = true
	require.NoError(t, j.Record(saved))

	failed := fixedResult(model.OutcomeFailed, "https://example.com/x.exe")
	failed.Err = model.NewDownloadError(model.UnsupportedFormatError, "unsupported format", failed.URL)
	require.NoError(t, j.Record(failed))
	require.NoError(t, j.Close())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)

	assert.Contains(t, string(data), "SAVED\thttp://example.com/a.png\ta.png\tinsecure_scheme")
	assert.Contains(t, string(data), "FAILED\thttps://example.com/x.exe\tunsupported format")
}

func TestJournal_AppendOnly(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "download_log.txt")
	require.NoError(t, os.WriteFile(logPath, []byte("existing line\n"), 0o644))

	j, err := Open(logPath, nil)
	require.NoError(t, err)
	require.NoError(t, j.Record(fixedResult(model.OutcomeSaved, "https://example.com/b.png")))
	require.NoError(t, j.Close())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "existing line\n"))
	assert.Contains(t, string(data), "SAVED")
}
