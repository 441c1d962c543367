package handlers

import (
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/kavya-builds/demodrop/internal/ingest"
	"github.com/kavya-builds/demodrop/internal/utils"
)

// POST /submit
// Multipart form: albumName, releaseDate, platforms (comma-joined),
// numSongs, tracks (JSON text), cover (file), trackFiles (repeated file).
// Responds {ok:true, id} on success or {error} on failure.
func (h *Handlers) Submit(w http.ResponseWriter, r *http.Request) {
	const maxUploadSize = 100 << 20 // 100 MB
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid upload form")
		return
	}

	numSongs, _ := strconv.Atoi(r.FormValue("numSongs"))
	req := ingest.Request{
		AlbumName:   r.FormValue("albumName"),
		ReleaseDate: r.FormValue("releaseDate"),
		Platforms:   splitPlatforms(r.FormValue("platforms")),
		NumSongs:    numSongs,
		TracksJSON:  r.FormValue("tracks"),
	}

	if covers := r.MultipartForm.File["cover"]; len(covers) > 0 {
		cover := uploadFromHeader(covers[0])
		req.Cover = &cover
	}
	for _, fh := range r.MultipartForm.File["trackFiles"] {
		req.Audio = append(req.Audio, uploadFromHeader(fh))
	}

	sub, err := h.ingestor.Ingest(r.Context(), req)
	switch {
	case errors.Is(err, ingest.ErrInvalidMetadata):
		utils.WriteError(w, http.StatusBadRequest, "invalid track metadata")
		return
	case err != nil:
		log.Printf("Submission failed: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "submission failed")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"ok": true,
		"id": sub.ID,
	})
}

func uploadFromHeader(fh *multipart.FileHeader) ingest.Upload {
	return ingest.Upload{
		Filename: fh.Filename,
		Open: func() (io.ReadSeekCloser, error) {
			return fh.Open()
		},
	}
}

func splitPlatforms(raw string) []string {
	var platforms []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			platforms = append(platforms, p)
		}
	}
	return platforms
}
