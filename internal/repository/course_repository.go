package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/titan-online/registrar-api/internal/models"
)

// CourseRepository handles persistence of catalog courses.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// Create persists a new course. Duplicate (department_code, course_no) pairs
// surface as a unique violation.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	const query = `INSERT INTO course (department_code, course_no, title, description)
VALUES (:department_code, :course_no, :title, :description)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// ListClasses returns the student-facing catalog: every course joined with
// its scheduled sections.
func (r *CourseRepository) ListClasses(ctx context.Context) ([]models.ClassRow, error) {
	const query = `SELECT c.department_code, c.course_no, c.title, c.description,
       cs.id AS section_id, cs.section_no, cs.semester, cs.year
FROM course c
INNER JOIN course_section cs
        ON c.department_code = cs.dept_code AND c.course_no = cs.course_num
ORDER BY c.department_code, c.course_no, cs.section_no`
	var rows []models.ClassRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return rows, nil
}
