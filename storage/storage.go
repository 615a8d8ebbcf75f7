package storage

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrEmptyFile = errors.New("empty file")
	ErrTooLarge  = errors.New("file too large")
)

// Store persists uploaded files and returns a reference usable as Post.ImgFile.
type Store interface {
	Put(ctx context.Context, name, contentType string, r io.Reader, size int64) (string, error)
	Backend() string
}

// ObjectName sanitizes an uploaded file name and prefixes it with a short uuid
// so that two uploads of "cover.jpg" do not overwrite each other.
func ObjectName(original string) string {
	base := filepath.Base(strings.ReplaceAll(original, "\\", "/"))
	ext := strings.ToLower(filepath.Ext(base))
	stem := sanitize(strings.TrimSuffix(base, filepath.Ext(base)))
	if stem == "" {
		stem = "file"
	}
	if len(stem) > 64 {
		stem = stem[:64]
	}
	if ext = sanitize(strings.TrimPrefix(ext, ".")); ext != "" {
		ext = "." + ext
	}
	return uuid.NewString()[:8] + "-" + stem + ext
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-', r == '_', r == '.':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), ".")
}
