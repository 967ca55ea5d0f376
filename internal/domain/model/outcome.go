package model

import "time"

// Outcome classifies how the pipeline disposed of one URL.
type Outcome string

const (
	OutcomeSaved                Outcome = "saved"
	OutcomeSkippedDuplicate     Outcome = "skipped_duplicate"
	OutcomeSkippedBlockedDomain Outcome = "skipped_blocked_domain"
	OutcomeSkippedOversize      Outcome = "skipped_oversize"
	OutcomeFailed               Outcome = "failed"
)

// String returns the outcome in log form (upper snake case).
func (o Outcome) String() string {
	switch o {
	case OutcomeSaved:
		return "SAVED"
	case OutcomeSkippedDuplicate:
		return "SKIPPED_DUPLICATE"
	case OutcomeSkippedBlockedDomain:
		return "SKIPPED_BLOCKED_DOMAIN"
	case OutcomeSkippedOversize:
		return "SKIPPED_OVERSIZE"
	case OutcomeFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Result is the per-URL record the pipeline produces, immutable once
// created and consumed by the journal and the batch summary.
type Result struct {
	URL       string
	Outcome   Outcome
	Timestamp time.Time

	// Path and Digest are set only for OutcomeSaved.
	Path   string
	Digest string
	Size   int64

	// InsecureScheme marks a download that proceeded over plain HTTP.
	// A warning, not a skip.
	InsecureScheme bool

	// Err is set only for OutcomeFailed.
	Err *DownloadError
}

// Saved builds a Result for a persisted image.
func Saved(url, path, digest string, size int64) Result {
	return Result{
		URL:       url,
		Outcome:   OutcomeSaved,
		Timestamp: time.Now().UTC(),
		Path:      path,
		Digest:    digest,
		Size:      size,
	}
}

// Skipped builds a Result for one of the skip outcomes.
func Skipped(url string, outcome Outcome) Result {
	return Result{
		URL:       url,
		Outcome:   outcome,
		Timestamp: time.Now().UTC(),
	}
}

// Failed builds a Result carrying a typed download error.
func Failed(url string, err *DownloadError) Result {
	return Result{
		URL:       url,
		Outcome:   OutcomeFailed,
		Timestamp: time.Now().UTC(),
		Err:       err,
	}
}

// WithWarning returns a copy flagged as having used an insecure scheme.
func (r Result) WithWarning(insecure bool) Result {
	r.InsecureScheme = insecure
	return r
}

// Detail returns the free-text portion of the journal line: the saved
// path, or the failure reason, or nothing.
func (r Result) Detail() string {
	switch r.Outcome {
	case OutcomeSaved:
		return r.Path
	case OutcomeFailed:
		if r.Err != nil {
			return r.Err.Message
		}
	}
	return ""
}
