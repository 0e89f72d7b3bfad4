package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/titan-online/registrar-api/internal/models"
)

// DroplistRepository appends to the drop audit trail. Rows are write-once.
type DroplistRepository struct {
	db *sqlx.DB
}

// NewDroplistRepository constructs the repository.
func NewDroplistRepository(db *sqlx.DB) *DroplistRepository {
	return &DroplistRepository{db: db}
}

// InsertTx appends a drop record inside the caller's transaction.
func (r *DroplistRepository) InsertTx(ctx context.Context, tx *sqlx.Tx, entry *models.DroplistEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.DropDate.IsZero() {
		entry.DropDate = time.Now().UTC()
	}
	const query = `INSERT INTO droplist (id, section_id, student_id, drop_date, administrative)
VALUES (:id, :section_id, :student_id, :drop_date, :administrative)`
	if _, err := tx.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("insert droplist entry: %w", err)
	}
	return nil
}

// ListByProfessor returns drop records across the professor's sections.
func (r *DroplistRepository) ListByProfessor(ctx context.Context, profID int64) ([]models.DroplistEntry, error) {
	const query = `SELECT d.id, d.section_id, d.student_id, d.drop_date, d.administrative
FROM droplist d
INNER JOIN course_section cs ON cs.id = d.section_id
WHERE cs.prof_id = $1
ORDER BY d.drop_date DESC`
	var entries []models.DroplistEntry
	if err := r.db.SelectContext(ctx, &entries, query, profID); err != nil {
		return nil, fmt.Errorf("list professor droplist: %w", err)
	}
	return entries, nil
}
