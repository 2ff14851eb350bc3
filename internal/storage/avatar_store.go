package storage

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

// PublicPrefix is both the URL prefix avatars are served under and the
// leading segment of every stored avatar path.
const PublicPrefix = "uploads"

// AvatarStore persists avatar bytes. Save returns the server-relative path
// that gets recorded on the student, e.g. "uploads/1729339200000-1a2b3c4d.png".
type AvatarStore interface {
	Save(ctx context.Context, originalName string, r io.Reader) (string, error)
	Delete(ctx context.Context, avatarPath string) error
}

// NewAvatarName derives a collision-free file name from the upload time and
// keeps the original extension.
func NewAvatarName(originalName string, now time.Time) string {
	ext := strings.ToLower(path.Ext(originalName))
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("%d%s", now.UnixNano(), ext)
	}
	return fmt.Sprintf("%d-%s%s", now.UnixMilli(), hex.EncodeToString(buf), ext)
}

// objectKey strips the public prefix from a stored avatar path.
func objectKey(avatarPath string) (string, error) {
	clean := path.Clean("/" + avatarPath)
	key := strings.TrimPrefix(clean, "/"+PublicPrefix+"/")
	if key == clean || key == "" || strings.Contains(key, "/") {
		return "", fmt.Errorf("avatar path %q is outside %s/", avatarPath, PublicPrefix)
	}
	return key, nil
}
