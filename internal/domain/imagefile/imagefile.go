package imagefile

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/url"
	"path"
	"strings"
)

// ImageFile is a fully-downloaded image held in memory, immutable once
// constructed. The digest is computed over exactly the bytes that will be
// written to disk.
type ImageFile struct {
	content     []byte
	url         string
	contentType string
}

// NewFromReader drains reader into memory, enforcing maxSize on the
// streamed byte count. Reading stops as soon as the budget is exceeded;
// the advertised Content-Length is never trusted for this check.
func NewFromReader(reader io.Reader, sourceURL, contentType string, maxSize int64) (*ImageFile, error) {
	if sourceURL == "" {
		return nil, ErrEmptyURL
	}

	limited := io.LimitReader(reader, maxSize+1)
	content, err := io.ReadAll(limited)
	if err != nil {
		return nil, ErrReadContent(err)
	}

	if int64(len(content)) > maxSize {
		return nil, ErrSizeExceeded
	}
	if len(content) == 0 {
		return nil, ErrEmptyContent
	}

	return &ImageFile{
		content:     content,
		url:         sourceURL,
		contentType: normalizeContentType(contentType),
	}, nil
}

// Content returns the downloaded bytes
func (f *ImageFile) Content() []byte {
	return f.content
}

// Size returns the content size in bytes
func (f *ImageFile) Size() int64 {
	return int64(len(f.content))
}

// URL returns the source URL
func (f *ImageFile) URL() string {
	return f.url
}

// ContentType returns the normalized content type
func (f *ImageFile) ContentType() string {
	return f.contentType
}

// Digest returns the hex-encoded SHA-256 of the content.
func (f *ImageFile) Digest() string {
	sum := sha256.Sum256(f.content)
	return hex.EncodeToString(sum[:])
}

// Extension derives the file extension, preferring the URL path and
// falling back to the content type. Either way the result is lowercase
// and includes the leading dot; empty means undeterminable.
func (f *ImageFile) Extension() string {
	if ext := URLExtension(f.url); ext != "" {
		return ext
	}
	return ExtensionFromContentType(f.contentType)
}

// IsImage reports whether the content type belongs to the image family.
// Octet-stream is accepted because many hosts serve images under it.
func (f *ImageFile) IsImage() bool {
	return strings.HasPrefix(f.contentType, "image/") ||
		f.contentType == "application/octet-stream"
}

// URLExtension extracts a lowercase extension from a URL's path
// component, ignoring query parameters. Empty when the path has none.
func URLExtension(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	ext := strings.ToLower(path.Ext(u.Path))
	if ext == "." {
		return ""
	}
	return ext
}

// ExtensionFromContentType maps an image content type to an extension.
func ExtensionFromContentType(contentType string) string {
	switch normalizeContentType(contentType) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/bmp", "image/x-ms-bmp":
		return ".bmp"
	case "image/webp":
		return ".webp"
	case "image/tiff":
		return ".tiff"
	default:
		return ""
	}
}

func normalizeContentType(contentType string) string {
	// Strip charset and other parameters
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	return strings.TrimSpace(strings.ToLower(contentType))
}
