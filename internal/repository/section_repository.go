package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/titan-online/registrar-api/internal/models"
)

const sectionColumns = `id, dept_code, course_num, section_no, semester, year, prof_id, room_num, room_capacity, course_start_date, enrollment_start, enrollment_end`

// SectionRepository handles persistence of course sections.
type SectionRepository struct {
	db *sqlx.DB
}

// NewSectionRepository constructs the repository.
func NewSectionRepository(db *sqlx.DB) *SectionRepository {
	return &SectionRepository{db: db}
}

// FindByID returns a section by its ID.
func (r *SectionRepository) FindByID(ctx context.Context, id int64) (*models.Section, error) {
	query := fmt.Sprintf(`SELECT %s FROM course_section WHERE id = $1`, sectionColumns)
	var section models.Section
	if err := r.db.GetContext(ctx, &section, query, id); err != nil {
		return nil, err
	}
	return &section, nil
}

// LockByID loads a section inside tx and takes a row lock on it. Concurrent
// admissions and promotions for the same section serialize on this lock,
// which keeps the capacity check-then-write atomic.
func (r *SectionRepository) LockByID(ctx context.Context, tx *sqlx.Tx, id int64) (*models.Section, error) {
	query := fmt.Sprintf(`SELECT %s FROM course_section WHERE id = $1 FOR UPDATE`, sectionColumns)
	var section models.Section
	if err := tx.GetContext(ctx, &section, query, id); err != nil {
		return nil, err
	}
	return &section, nil
}

// Create persists a new section and fills in the generated ID.
func (r *SectionRepository) Create(ctx context.Context, section *models.Section) error {
	const query = `INSERT INTO course_section (dept_code, course_num, section_no, semester, year, prof_id, room_num, room_capacity, course_start_date, enrollment_start, enrollment_end)
VALUES (:dept_code, :course_num, :section_no, :semester, :year, :prof_id, :room_num, :room_capacity, :course_start_date, :enrollment_start, :enrollment_end)
RETURNING id`
	rows, err := r.db.NamedQueryContext(ctx, query, section)
	if err != nil {
		return fmt.Errorf("create section: %w", err)
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&section.ID); err != nil {
			return fmt.Errorf("scan section id: %w", err)
		}
	}
	return rows.Err()
}

// Patch applies the set fields of patch to a section. It returns
// sql.ErrNoRows semantics via found=false when the section does not exist.
func (r *SectionRepository) Patch(ctx context.Context, id int64, patch models.SectionPatch) (bool, error) {
	var sets []string
	var args []interface{}

	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.SectionNo != nil {
		add("section_no", *patch.SectionNo)
	}
	if patch.ProfID != nil {
		add("prof_id", *patch.ProfID)
	}
	if patch.RoomNum != nil {
		add("room_num", *patch.RoomNum)
	}
	if patch.RoomCapacity != nil {
		add("room_capacity", *patch.RoomCapacity)
	}
	if patch.CourseStartDate != nil {
		add("course_start_date", *patch.CourseStartDate)
	}
	if patch.EnrollmentStart != nil {
		add("enrollment_start", *patch.EnrollmentStart)
	}
	if patch.EnrollmentEnd != nil {
		add("enrollment_end", *patch.EnrollmentEnd)
	}
	if len(sets) == 0 {
		return false, fmt.Errorf("patch section: no fields set")
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE course_section SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("patch section: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("patch section rows affected: %w", err)
	}
	return affected > 0, nil
}

// Delete removes a section. Returns false when no row matched.
func (r *SectionRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM course_section WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete section: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete section rows affected: %w", err)
	}
	return affected > 0, nil
}

// ListByProfessor returns the sections taught by a professor.
func (r *SectionRepository) ListByProfessor(ctx context.Context, profID int64) ([]models.Section, error) {
	query := fmt.Sprintf(`SELECT %s FROM course_section WHERE prof_id = $1 ORDER BY id ASC`, sectionColumns)
	var sections []models.Section
	if err := r.db.SelectContext(ctx, &sections, query, profID); err != nil {
		return nil, fmt.Errorf("list professor sections: %w", err)
	}
	return sections, nil
}

// ListOpenSectionIDs returns sections with free seats that have not started
// more than graceDays ago, the candidate set for waitlist promotion.
func (r *SectionRepository) ListOpenSectionIDs(ctx context.Context, maxCapacity, graceDays int) ([]int64, error) {
	const query = `SELECT cs.id
FROM course_section cs
WHERE CURRENT_DATE <= cs.course_start_date + ($2 * INTERVAL '1 day')
  AND (SELECT COUNT(*) FROM enrollments e WHERE e.section_id = cs.id) < $1
ORDER BY cs.id ASC`
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, maxCapacity, graceDays); err != nil {
		return nil, fmt.Errorf("list open sections: %w", err)
	}
	return ids, nil
}
