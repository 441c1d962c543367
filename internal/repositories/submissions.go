package repositories

import (
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kavya-builds/demodrop/internal/models"
)

// ErrNotFound indicates an unknown submission identifier.
var ErrNotFound = errors.New("submission not found")

// SubmissionRepo is the canonical owner of the submission list. It replaces
// the flat-file load-then-save cycle with per-record writes inside SQLite
// transactions, so two concurrent ingestions can no longer lose an update.
type SubmissionRepo struct {
	db *gorm.DB
}

// Open opens (or creates) the database at path and runs migrations.
// SQLite embeds in-process, matching the single-process deployment model.
func Open(path string) (*SubmissionRepo, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&models.Submission{}, &models.Track{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SubmissionRepo{db: db}, nil
}

func (r *SubmissionRepo) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Create appends one submission with its tracks in a single transaction.
func (r *SubmissionRepo) Create(sub *models.Submission) error {
	if err := r.db.Create(sub).Error; err != nil {
		return fmt.Errorf("create submission: %w", err)
	}
	return nil
}

// List returns every submission in ingestion order, tracks in declared order.
func (r *SubmissionRepo) List() ([]models.Submission, error) {
	var subs []models.Submission
	err := r.db.
		Preload("Tracks", tracksInOrder).
		Order("created_at, rowid").
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return subs, nil
}

// Get returns one submission by id, or ErrNotFound.
func (r *SubmissionRepo) Get(id uuid.UUID) (*models.Submission, error) {
	var sub models.Submission
	err := r.db.
		Preload("Tracks", tracksInOrder).
		First(&sub, "id = ?", id).Error
	switch {
	case err == nil:
		return &sub, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("get submission: %w", err)
	}
}

// SetReview records a review outcome. The transition is unconditional: the
// current status is not consulted, and the note always overwrites the
// previous one (including with the empty string).
func (r *SubmissionRepo) SetReview(id uuid.UUID, status models.Status, note string) (*models.Submission, error) {
	res := r.db.Model(&models.Submission{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "admin_note": note})
	if res.Error != nil {
		return nil, fmt.Errorf("set review: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.Get(id)
}

// LoadAll is the whole-list read kept for contract compatibility with the
// original flat-file store.
func (r *SubmissionRepo) LoadAll() ([]models.Submission, error) {
	return r.List()
}

// SaveAll replaces the entire list, preserving slice order, inside one
// transaction. It mirrors the original overwrite-on-write persistence.
func (r *SubmissionRepo) SaveAll(subs []models.Submission) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Track{}).Error; err != nil {
			return fmt.Errorf("clear tracks: %w", err)
		}
		if err := tx.Where("1 = 1").Delete(&models.Submission{}).Error; err != nil {
			return fmt.Errorf("clear submissions: %w", err)
		}
		for i := range subs {
			sub := subs[i]
			for j := range sub.Tracks {
				sub.Tracks[j].ID = 0 // let SQLite assign fresh track keys
			}
			if err := tx.Create(&sub).Error; err != nil {
				return fmt.Errorf("save submission %s: %w", sub.ID, err)
			}
		}
		return nil
	})
}

func tracksInOrder(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}
