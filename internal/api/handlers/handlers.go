package handlers

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/kavya-builds/demodrop/internal/assets"
	"github.com/kavya-builds/demodrop/internal/config"
	"github.com/kavya-builds/demodrop/internal/ingest"
	"github.com/kavya-builds/demodrop/internal/repositories"
)

// Handlers bundles the HTTP handlers with their dependencies.
type Handlers struct {
	repo     *repositories.SubmissionRepo
	store    assets.Store
	ingestor *ingest.Ingestor
	cfg      config.Config

	adminHash []byte
	limiter   *loginLimiter
}

// New wires the handler set. The admin credential is always held as a
// bcrypt hash: ADMIN_PASSWORD_HASH when configured, otherwise the plaintext
// ADMIN_PASSWORD is hashed once here.
func New(repo *repositories.SubmissionRepo, store assets.Store, ingestor *ingest.Ingestor, cfg config.Config) (*Handlers, error) {
	hash := []byte(cfg.AdminPasswordHash)
	if len(hash) == 0 {
		generated, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
		hash = generated
	}

	return &Handlers{
		repo:      repo,
		store:     store,
		ingestor:  ingestor,
		cfg:       cfg,
		adminHash: hash,
		limiter:   newLoginLimiter(cfg.LoginPerMinute, cfg.LoginBurst),
	}, nil
}
