package assets

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
)

// DiskStore writes uploads directly under root/<submission id>/<name>.
type DiskStore struct {
	root string
}

func NewDiskStore(root string) *DiskStore {
	return &DiskStore{root: root}
}

func (s *DiskStore) Place(ctx context.Context, submissionID, filename string, r io.Reader) (string, error) {
	// filepath.Base strips any client-supplied directory components.
	name := filepath.Base(filename)
	dir := filepath.Join(s.root, submissionID)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("create submission dir: %w", err)
	}

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("create asset file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return "", fmt.Errorf("write asset file: %w", err)
	}
	return path.Join(submissionID, name), nil
}

func (s *DiskStore) Open(ctx context.Context, relPath string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.root, filepath.FromSlash(relPath)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, relPath)
		}
		return nil, fmt.Errorf("open asset: %w", err)
	}
	return f, nil
}

func (s *DiskStore) SubmissionExists(ctx context.Context, submissionID string) (bool, error) {
	info, err := os.Stat(filepath.Join(s.root, submissionID))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}
