package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/titan-online/registrar-api/internal/models"
)

// WaitlistRepository handles persistence of waitlist entries. The section
// waitlist is a FIFO queue ordered by waitlist_date.
type WaitlistRepository struct {
	db *sqlx.DB
}

// NewWaitlistRepository constructs the repository.
func NewWaitlistRepository(db *sqlx.DB) *WaitlistRepository {
	return &WaitlistRepository{db: db}
}

// CountBySectionTx returns the section's waitlist occupancy.
func (r *WaitlistRepository) CountBySectionTx(ctx context.Context, tx *sqlx.Tx, sectionID int64) (int, error) {
	var count int
	if err := tx.GetContext(ctx, &count, `SELECT COUNT(*) FROM waitlist WHERE section_id = $1`, sectionID); err != nil {
		return 0, fmt.Errorf("count section waitlist: %w", err)
	}
	return count, nil
}

// CountByStudentTx returns how many waitlists the student sits on
// system-wide.
func (r *WaitlistRepository) CountByStudentTx(ctx context.Context, tx *sqlx.Tx, studentID int64) (int, error) {
	var count int
	if err := tx.GetContext(ctx, &count, `SELECT COUNT(*) FROM waitlist WHERE student_id = $1`, studentID); err != nil {
		return 0, fmt.Errorf("count student waitlist: %w", err)
	}
	return count, nil
}

// InsertTx queues a student at the tail of a section's waitlist.
func (r *WaitlistRepository) InsertTx(ctx context.Context, tx *sqlx.Tx, entry *models.WaitlistEntry) error {
	if entry.WaitlistDate.IsZero() {
		entry.WaitlistDate = time.Now().UTC()
	}
	const query = `INSERT INTO waitlist (section_id, student_id, waitlist_date)
VALUES (:section_id, :student_id, :waitlist_date)`
	if _, err := tx.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("insert waitlist entry: %w", err)
	}
	return nil
}

// DeleteTx removes the student's waitlist entry for a section, reporting
// whether one existed.
func (r *WaitlistRepository) DeleteTx(ctx context.Context, tx *sqlx.Tx, sectionID, studentID int64) (bool, error) {
	result, err := tx.ExecContext(ctx, `DELETE FROM waitlist WHERE section_id = $1 AND student_id = $2`, sectionID, studentID)
	if err != nil {
		return false, fmt.Errorf("delete waitlist entry: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete waitlist rows affected: %w", err)
	}
	return affected > 0, nil
}

// Delete is the non-transactional variant used by the student self-drop.
func (r *WaitlistRepository) Delete(ctx context.Context, sectionID, studentID int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM waitlist WHERE section_id = $1 AND student_id = $2`, sectionID, studentID)
	if err != nil {
		return false, fmt.Errorf("delete waitlist entry: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete waitlist rows affected: %w", err)
	}
	return affected > 0, nil
}

// HeadTx returns up to limit entries from the front of the section's queue,
// oldest first.
func (r *WaitlistRepository) HeadTx(ctx context.Context, tx *sqlx.Tx, sectionID int64, limit int) ([]models.WaitlistEntry, error) {
	const query = `SELECT section_id, student_id, waitlist_date FROM waitlist
WHERE section_id = $1 ORDER BY waitlist_date ASC LIMIT $2`
	var entries []models.WaitlistEntry
	if err := tx.SelectContext(ctx, &entries, query, sectionID, limit); err != nil {
		return nil, fmt.Errorf("waitlist head: %w", err)
	}
	return entries, nil
}

// ListBySection returns the full queue for a section in FIFO order.
func (r *WaitlistRepository) ListBySection(ctx context.Context, sectionID int64) ([]models.WaitlistEntry, error) {
	const query = `SELECT section_id, student_id, waitlist_date FROM waitlist
WHERE section_id = $1 ORDER BY waitlist_date ASC`
	var entries []models.WaitlistEntry
	if err := r.db.SelectContext(ctx, &entries, query, sectionID); err != nil {
		return nil, fmt.Errorf("list section waitlist: %w", err)
	}
	return entries, nil
}
