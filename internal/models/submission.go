package models

import (
	"time"

	"github.com/google/uuid"
)

// Status is the review state of a submission. Transitions are unguarded:
// a reviewer may re-approve or re-reject and the latest outcome wins.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

type Submission struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	AlbumName   string    `json:"albumName" gorm:"not null"`
	ReleaseDate string    `json:"releaseDate"`
	Platforms   []string  `json:"platforms" gorm:"serializer:json"`
	// NumSongs is the count declared by the artist. It is stored verbatim
	// and never reconciled against len(Tracks).
	NumSongs  int       `json:"numSongs"`
	Tracks    []Track   `json:"tracks" gorm:"foreignKey:SubmissionID;constraint:OnDelete:CASCADE"` // one-to-many relation
	CoverPath string    `json:"cover,omitempty"`                                                   // relative to the uploads root
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	Status    Status    `json:"status" gorm:"not null;default:pending"`
	AdminNote string    `json:"adminNote,omitempty"`
}
