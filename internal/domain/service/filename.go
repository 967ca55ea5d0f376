package service

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/BrianKoge/Ubuntu-Requests/internal/domain/imagefile"
	"github.com/BrianKoge/Ubuntu-Requests/internal/storage"
)

// maxCollisionAttempts bounds the numeric-suffix search before falling
// back to a digest-prefix name, which cannot collide for new content.
const maxCollisionAttempts = 100

// FilenameService derives filesystem-safe object names from URLs and
// resolves collisions so an existing file is never overwritten.
type FilenameService struct {
	now func() time.Time
}

func NewFilenameService() *FilenameService {
	return &FilenameService{now: time.Now}
}

// SafeName derives a sanitized file name from the URL path. When the URL
// carries no usable basename, a generated name is produced with an
// extension taken from the content type (.jpg when undeterminable).
func (s *FilenameService) SafeName(rawURL, contentType string) string {
	name := ""
	if u, err := url.Parse(rawURL); err == nil {
		name = sanitizeName(path.Base(u.Path))
	}

	if name == "" || !strings.Contains(name, ".") {
		ext := imagefile.ExtensionFromContentType(contentType)
		if ext == "" {
			ext = ".jpg"
		}
		name = fmt.Sprintf("downloaded_image_%d%s", s.now().Unix(), ext)
	}

	return name
}

// Resolve returns a key that does not exist in storage yet: the name
// itself, then stem_1, stem_2, ... and finally stem_<digest prefix>.
func (s *FilenameService) Resolve(ctx context.Context, store storage.ObjectStorage, name, digest string) (string, error) {
	exists, err := store.Exists(ctx, name)
	if err != nil {
		return "", fmt.Errorf("failed to check for existing file: %w", err)
	}
	if !exists {
		return name, nil
	}

	stem, ext := splitName(name)
	for i := 1; i < maxCollisionAttempts; i++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, i, ext)
		exists, err := store.Exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check for existing file: %w", err)
		}
		if !exists {
			return candidate, nil
		}
	}

	prefix := digest
	if len(prefix) > 12 {
		prefix = prefix[:12]
	}
	return fmt.Sprintf("%s_%s%s", stem, prefix, ext), nil
}

// sanitizeName keeps alphanumerics plus ".", "_" and "-", which removes
// path separators and control characters in one pass. Leading dots are
// trimmed so a name can never become hidden or a parent reference.
func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	return strings.TrimLeft(b.String(), ".")
}

func splitName(name string) (stem, ext string) {
	ext = path.Ext(name)
	return strings.TrimSuffix(name, ext), ext
}
