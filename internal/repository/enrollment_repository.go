package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/titan-online/registrar-api/internal/models"
)

// EnrollmentRepository handles persistence of enrollments. The mutating
// methods are transaction-scoped: the admission controller and the promotion
// engine call them under a section row lock.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// CountBySectionTx returns the number of seats taken in a section.
func (r *EnrollmentRepository) CountBySectionTx(ctx context.Context, tx *sqlx.Tx, sectionID int64) (int, error) {
	var count int
	if err := tx.GetContext(ctx, &count, `SELECT COUNT(*) FROM enrollments WHERE section_id = $1`, sectionID); err != nil {
		return 0, fmt.Errorf("count section enrollments: %w", err)
	}
	return count, nil
}

// ExistsTx reports whether the student already holds a seat in the section.
func (r *EnrollmentRepository) ExistsTx(ctx context.Context, tx *sqlx.Tx, sectionID, studentID int64) (bool, error) {
	var exists int
	err := tx.GetContext(ctx, &exists, `SELECT 1 FROM enrollments WHERE section_id = $1 AND student_id = $2 LIMIT 1`, sectionID, studentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return true, nil
}

// InsertTx creates an enrollment row. A unique violation means a concurrent
// request won the seat first; callers translate it to a conflict.
func (r *EnrollmentRepository) InsertTx(ctx context.Context, tx *sqlx.Tx, enrollment *models.Enrollment) error {
	if enrollment.EnrollmentDate.IsZero() {
		enrollment.EnrollmentDate = time.Now().UTC()
	}
	const query = `INSERT INTO enrollments (section_id, student_id, enrollment_date)
VALUES (:section_id, :student_id, :enrollment_date)`
	if _, err := tx.NamedExecContext(ctx, query, enrollment); err != nil {
		return fmt.Errorf("insert enrollment: %w", err)
	}
	return nil
}

// DeleteTx removes the student's enrollment row, reporting whether one
// existed.
func (r *EnrollmentRepository) DeleteTx(ctx context.Context, tx *sqlx.Tx, sectionID, studentID int64) (bool, error) {
	result, err := tx.ExecContext(ctx, `DELETE FROM enrollments WHERE section_id = $1 AND student_id = $2`, sectionID, studentID)
	if err != nil {
		return false, fmt.Errorf("delete enrollment: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete enrollment rows affected: %w", err)
	}
	return affected > 0, nil
}

// ListBySection returns the section roster ordered by enrollment date.
func (r *EnrollmentRepository) ListBySection(ctx context.Context, sectionID int64) ([]models.Enrollment, error) {
	const query = `SELECT section_id, student_id, enrollment_date FROM enrollments WHERE section_id = $1 ORDER BY enrollment_date ASC`
	var enrollments []models.Enrollment
	if err := r.db.SelectContext(ctx, &enrollments, query, sectionID); err != nil {
		return nil, fmt.Errorf("list section enrollments: %w", err)
	}
	return enrollments, nil
}

// ListByProfessor returns every enrollment across the professor's sections.
func (r *EnrollmentRepository) ListByProfessor(ctx context.Context, profID int64) ([]models.Enrollment, error) {
	const query = `SELECT e.section_id, e.student_id, e.enrollment_date
FROM enrollments e
INNER JOIN course_section cs ON cs.id = e.section_id
WHERE cs.prof_id = $1
ORDER BY e.section_id, e.enrollment_date ASC`
	var enrollments []models.Enrollment
	if err := r.db.SelectContext(ctx, &enrollments, query, profID); err != nil {
		return nil, fmt.Errorf("list professor enrollments: %w", err)
	}
	return enrollments, nil
}
