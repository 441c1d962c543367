// Package ingest assembles one submission record from a multipart upload:
// it parses the declared track metadata, correlates declared tracks with
// uploaded audio files, places every asset, and appends the record.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kavya-builds/demodrop/internal/assets"
	"github.com/kavya-builds/demodrop/internal/audiometa"
	"github.com/kavya-builds/demodrop/internal/models"
)

// ErrInvalidMetadata indicates the tracks payload was not a JSON list of
// valid track objects. It is raised before any file is written.
var ErrInvalidMetadata = errors.New("invalid track metadata")

// probeConcurrency caps parallel tag reads per ingestion.
const probeConcurrency = 4

// Upload is one named file from the request. Open must return a fresh
// reader positioned at the start each time it is called.
type Upload struct {
	Filename string
	Open     func() (io.ReadSeekCloser, error)
}

// Request carries the parsed form fields and file parts of one submission.
type Request struct {
	AlbumName   string
	ReleaseDate string
	Platforms   []string
	NumSongs    int
	TracksJSON  string
	Cover       *Upload
	Audio       []Upload
}

// Recorder appends one submission to the canonical list.
type Recorder interface {
	Create(sub *models.Submission) error
}

type Ingestor struct {
	repo  Recorder
	store assets.Store
}

func New(repo Recorder, store assets.Store) *Ingestor {
	return &Ingestor{repo: repo, store: store}
}

// trackMeta is the declared per-track payload embedded in the form.
type trackMeta struct {
	Title    string `json:"title"`
	FileName string `json:"fileName"`
	Featured string `json:"featured"`
	Explicit bool   `json:"explicit"`
}

// Ingest runs the full pipeline and returns the stored submission. A track
// that ends up with no audio file is a success, not an error; the declared
// NumSongs is stored verbatim and never reconciled against the track count.
func (in *Ingestor) Ingest(ctx context.Context, req Request) (*models.Submission, error) {
	metas, err := parseTrackMetadata(req.TracksJSON)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	assigned := matchUploads(metas, req.Audio)

	sub := &models.Submission{
		ID:          id,
		AlbumName:   req.AlbumName,
		ReleaseDate: req.ReleaseDate,
		Platforms:   req.Platforms,
		NumSongs:    req.NumSongs,
		CreatedAt:   time.Now().UTC(),
		Status:      models.StatusPending,
	}

	if req.Cover != nil {
		path, err := in.place(ctx, id.String(), *req.Cover)
		if err != nil {
			return nil, err
		}
		sub.CoverPath = path
	}

	// Every audio upload is persisted, matched to a track or not.
	audioPaths := make([]string, len(req.Audio))
	for i, u := range req.Audio {
		path, err := in.place(ctx, id.String(), u)
		if err != nil {
			return nil, err
		}
		audioPaths[i] = path
	}

	sub.Tracks = make([]models.Track, len(metas))
	for i, m := range metas {
		t := models.Track{
			SubmissionID: id,
			Index:        i + 1,
			Title:        m.Title,
			Featured:     m.Featured,
			Explicit:     m.Explicit,
		}
		if j := assigned[i]; j >= 0 {
			t.FilePath = audioPaths[j]
			t.OriginalFileName = req.Audio[j].Filename
		}
		sub.Tracks[i] = t
	}

	in.probeTracks(ctx, sub, req.Audio, assigned)

	if err := in.repo.Create(sub); err != nil {
		// Placed files are not rolled back; the record simply never lands.
		return nil, fmt.Errorf("persist submission: %w", err)
	}
	return sub, nil
}

func (in *Ingestor) place(ctx context.Context, id string, u Upload) (string, error) {
	f, err := u.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %s: %w", u.Filename, err)
	}
	defer f.Close()
	return in.store.Place(ctx, id, u.Filename, f)
}

// probeTracks fills in embedded tag data for matched tracks. Failures are
// silent; a submission never fails because its audio has no readable tags.
func (in *Ingestor) probeTracks(ctx context.Context, sub *models.Submission, audio []Upload, assigned []int) {
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(probeConcurrency)
	for i := range sub.Tracks {
		j := assigned[i]
		if j < 0 {
			continue
		}
		track, upload := &sub.Tracks[i], audio[j]
		g.Go(func() error {
			f, err := upload.Open()
			if err != nil {
				return nil
			}
			defer f.Close()
			info, err := audiometa.Probe(f)
			if err != nil {
				return nil
			}
			track.Format = info.Format
			track.TagTitle = info.Title
			track.TagArtist = info.Artist
			return nil
		})
	}
	_ = g.Wait()
}

// parseTrackMetadata decodes the caller-supplied JSON payload. The payload
// must be a JSON array of objects, each with a non-empty title.
func parseTrackMetadata(raw string) ([]trackMeta, error) {
	var metas []trackMeta
	if err := json.Unmarshal([]byte(raw), &metas); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMetadata, err)
	}
	if metas == nil {
		return nil, fmt.Errorf("%w: expected a JSON array", ErrInvalidMetadata)
	}
	for i, m := range metas {
		if strings.TrimSpace(m.Title) == "" {
			return nil, fmt.Errorf("%w: track %d has no title", ErrInvalidMetadata, i+1)
		}
	}
	return metas, nil
}
