package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/kavya-builds/demodrop/internal/archive"
	"github.com/kavya-builds/demodrop/internal/models"
	"github.com/kavya-builds/demodrop/internal/repositories"
	"github.com/kavya-builds/demodrop/internal/utils"
)

// GET /admin/api/submissions
func (h *Handlers) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.repo.List()
	if err != nil {
		log.Printf("List submissions failed: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to list submissions")
		return
	}
	utils.WriteJSON(w, http.StatusOK, subs)
}

// GET /admin/api/submissions/{id}
func (h *Handlers) GetSubmission(w http.ResponseWriter, r *http.Request) {
	sub, ok := h.findSubmission(w, r)
	if !ok {
		return
	}
	utils.WriteJSON(w, http.StatusOK, sub)
}

// POST /admin/api/submissions/{id}/approve
func (h *Handlers) Approve(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, models.StatusApproved)
}

// POST /admin/api/submissions/{id}/reject
func (h *Handlers) Reject(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, models.StatusRejected)
}

// review applies an unconditional transition: the current status is never
// checked and a repeated review overwrites both status and note.
func (h *Handlers) review(w http.ResponseWriter, r *http.Request, status models.Status) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, http.StatusNotFound, "not found")
		return
	}

	var body struct {
		Note string `json:"note"`
	}
	// An empty or absent body means an empty note.
	_ = json.NewDecoder(r.Body).Decode(&body)

	if _, err := h.repo.SetReview(id, status, body.Note); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.WriteError(w, http.StatusNotFound, "not found")
			return
		}
		log.Printf("Review update failed: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to update submission")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// GET /admin/download/{id}
// Streams the submission as a zip archive. The archive is assembled on the
// fly, so a failure after the first byte can only be logged.
func (h *Handlers) Download(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	sub, err := h.repo.Get(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		log.Printf("Download lookup failed: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	ok, err := h.store.SubmissionExists(r.Context(), sub.ID.String())
	if err != nil {
		log.Printf("Asset check failed: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "files missing", http.StatusNotFound)
		return
	}

	filename := utils.SafeFilename(sub.AlbumName) + ".zip"
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := archive.Export(r.Context(), w, h.store, sub); err != nil {
		log.Printf("Archive export failed for %s: %v", sub.ID, err)
	}
}

func (h *Handlers) findSubmission(w http.ResponseWriter, r *http.Request) (*models.Submission, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, http.StatusNotFound, "not found")
		return nil, false
	}
	sub, err := h.repo.Get(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.WriteError(w, http.StatusNotFound, "not found")
			return nil, false
		}
		log.Printf("Get submission failed: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load submission")
		return nil, false
	}
	return sub, true
}
