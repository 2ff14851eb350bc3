package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// LocalAvatarStore writes avatars under a directory on local disk.
type LocalAvatarStore struct {
	dir string
	now func() time.Time
}

func NewLocalAvatarStore(dir string) (*LocalAvatarStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &LocalAvatarStore{dir: dir, now: time.Now}, nil
}

func (s *LocalAvatarStore) Dir() string {
	return s.dir
}

func (s *LocalAvatarStore) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name := NewAvatarName(originalName, s.now())

	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create avatar file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("write avatar file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close avatar file: %w", err)
	}
	return PublicPrefix + "/" + name, nil
}

func (s *LocalAvatarStore) Delete(ctx context.Context, avatarPath string) error {
	key, err := objectKey(avatarPath)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.dir, key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete avatar file: %w", err)
	}
	return nil
}
