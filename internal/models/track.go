package models

import "github.com/google/uuid"

type Track struct {
	ID               uint      `json:"-" gorm:"primaryKey;autoIncrement"`
	SubmissionID     uuid.UUID `json:"-" gorm:"type:uuid;index;not null"` // foreign key
	Index            int       `json:"index"`                             // 1-based, caller-supplied
	Title            string    `json:"title" gorm:"not null"`
	Featured         string    `json:"featured,omitempty"`
	Explicit         bool      `json:"explicit"`
	FilePath         string    `json:"file,omitempty"` // relative to the uploads root, empty if unmatched
	OriginalFileName string    `json:"originalFileName,omitempty"`

	// Best-effort embedded tag data, filled during ingestion when the
	// uploaded audio carries readable tags.
	Format    string `json:"format,omitempty"`
	TagTitle  string `json:"tagTitle,omitempty"`
	TagArtist string `json:"tagArtist,omitempty"`
}
