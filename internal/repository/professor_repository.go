package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/titan-online/registrar-api/internal/models"
)

// ProfessorRepository handles professor lookups.
type ProfessorRepository struct {
	db *sqlx.DB
}

// NewProfessorRepository constructs the repository.
func NewProfessorRepository(db *sqlx.DB) *ProfessorRepository {
	return &ProfessorRepository{db: db}
}

// FindByID returns a professor by ID.
func (r *ProfessorRepository) FindByID(ctx context.Context, id int64) (*models.Professor, error) {
	const query = `SELECT id, first_name, last_name, email FROM professors WHERE id = $1`
	var prof models.Professor
	if err := r.db.GetContext(ctx, &prof, query, id); err != nil {
		return nil, err
	}
	return &prof, nil
}

// Exists reports whether a professor with the given ID is on record.
func (r *ProfessorRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists int
	err := r.db.GetContext(ctx, &exists, `SELECT 1 FROM professors WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check professor: %w", err)
	}
	return true, nil
}
