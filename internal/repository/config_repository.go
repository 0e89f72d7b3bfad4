package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/titan-online/registrar-api/internal/models"
)

// ConfigRepository reads and writes the single global registrar config row.
type ConfigRepository struct {
	db *sqlx.DB
}

// NewConfigRepository constructs the repository.
func NewConfigRepository(db *sqlx.DB) *ConfigRepository {
	return &ConfigRepository{db: db}
}

// Get returns the global config row.
func (r *ConfigRepository) Get(ctx context.Context) (*models.RegistrarConfig, error) {
	const query = `SELECT automatic_enrollment, updated_at FROM configs LIMIT 1`
	var cfg models.RegistrarConfig
	if err := r.db.GetContext(ctx, &cfg, query); err != nil {
		return nil, fmt.Errorf("get registrar config: %w", err)
	}
	return &cfg, nil
}

// AutoEnrollmentTx re-reads the flag inside the caller's transaction so the
// decision it gates sees the committed value.
func (r *ConfigRepository) AutoEnrollmentTx(ctx context.Context, tx *sqlx.Tx) (bool, error) {
	var enabled bool
	if err := tx.GetContext(ctx, &enabled, `SELECT automatic_enrollment FROM configs LIMIT 1`); err != nil {
		return false, fmt.Errorf("read automatic enrollment flag: %w", err)
	}
	return enabled, nil
}

// SetAutoEnrollment updates the flag on the single config row.
func (r *ConfigRepository) SetAutoEnrollment(ctx context.Context, enabled bool) error {
	const query = `UPDATE configs SET automatic_enrollment = $1, updated_at = $2`
	if _, err := r.db.ExecContext(ctx, query, enabled, time.Now().UTC()); err != nil {
		return fmt.Errorf("set automatic enrollment flag: %w", err)
	}
	return nil
}
