// Package archive packages a submission's record and assets into one zip
// stream for the reviewer.
package archive

import (
	"archive/zip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/kavya-builds/demodrop/internal/assets"
	"github.com/kavya-builds/demodrop/internal/models"
)

// metadataEntry is the archive member holding the serialized record.
const metadataEntry = "submission.json"

// Export streams a zip of the submission to w: the metadata document, the
// cover under its base filename, then each track's audio under its original
// filename (or track-<index><ext> when none was recorded). Individual
// dangling assets are skipped; only an entirely absent submission prefix is
// fatal, reported as assets.ErrAssetsMissing. The archive is built as
// assets are read, never materialized to disk first.
func Export(ctx context.Context, w io.Writer, store assets.Store, sub *models.Submission) error {
	ok, err := store.SubmissionExists(ctx, sub.ID.String())
	if err != nil {
		return fmt.Errorf("check submission assets: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", assets.ErrAssetsMissing, sub.ID)
	}

	zw := zip.NewWriter(w)

	meta, err := json.MarshalIndent(sub, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	f, err := zw.Create(metadataEntry)
	if err != nil {
		return fmt.Errorf("create metadata entry: %w", err)
	}
	if _, err := f.Write(meta); err != nil {
		return fmt.Errorf("write metadata entry: %w", err)
	}

	if sub.CoverPath != "" {
		if err := addAsset(ctx, zw, store, sub.CoverPath, path.Base(sub.CoverPath)); err != nil {
			return err
		}
	}

	for _, t := range sub.Tracks {
		if t.FilePath == "" {
			continue
		}
		name := t.OriginalFileName
		if name == "" {
			name = fmt.Sprintf("track-%d%s", t.Index, path.Ext(t.FilePath))
		}
		if err := addAsset(ctx, zw, store, t.FilePath, name); err != nil {
			return err
		}
	}

	return zw.Close()
}

// addAsset copies one stored file into the archive, skipping dangling paths.
func addAsset(ctx context.Context, zw *zip.Writer, store assets.Store, relPath, name string) error {
	rc, err := store.Open(ctx, relPath)
	if err != nil {
		if errors.Is(err, assets.ErrNotFound) {
			return nil
		}
		return err
	}
	defer rc.Close()

	f, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create archive entry %s: %w", name, err)
	}
	if _, err := io.Copy(f, rc); err != nil {
		return fmt.Errorf("write archive entry %s: %w", name, err)
	}
	return nil
}
