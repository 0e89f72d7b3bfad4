package models

// Course is a catalog entry owned by a department. Sections reference it by
// (department_code, course_no).
type Course struct {
	DepartmentCode string `db:"department_code" json:"department_code"`
	CourseNo       int    `db:"course_no" json:"course_no"`
	Title          string `db:"title" json:"title"`
	Description    string `db:"description" json:"description"`
}

// ClassRow is one row of the student-facing catalog listing: a course joined
// with one of its scheduled sections.
type ClassRow struct {
	Course
	SectionID int64  `db:"section_id" json:"section_id"`
	SectionNo int    `db:"section_no" json:"section_no"`
	Semester  string `db:"semester" json:"semester"`
	Year      int    `db:"year" json:"year"`
}
