package fetch

import (
	"context"
	"io"
)

// Response is an open image transfer. Body is a stream; callers own
// closing it and are responsible for enforcing their own byte budget
// while reading (ContentLength is advisory and may be -1 or wrong).
type Response struct {
	Body          io.ReadCloser
	StatusCode    int
	ContentType   string
	ContentLength int64
}

// Fetcher opens an HTTP GET to a URL. It is the pipeline's only network
// seam, which lets tests substitute a stub transport and assert that
// blocked domains never reach the network.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Response, error)
}
