package models

import "time"

// Section is one scheduled offering of a course: a term, a room, a professor
// and an enrollment window. RoomCapacity describes the physical room; the
// effective seat limit is the configured max enrollment capacity, evaluated by
// counting enrollment rows.
type Section struct {
	ID              int64     `db:"id" json:"id"`
	DeptCode        string    `db:"dept_code" json:"dept_code"`
	CourseNum       int       `db:"course_num" json:"course_num"`
	SectionNo       int       `db:"section_no" json:"section_no"`
	Semester        string    `db:"semester" json:"semester"`
	Year            int       `db:"year" json:"year"`
	ProfID          int64     `db:"prof_id" json:"prof_id"`
	RoomNum         int       `db:"room_num" json:"room_num"`
	RoomCapacity    int       `db:"room_capacity" json:"room_capacity"`
	CourseStartDate time.Time `db:"course_start_date" json:"course_start_date"`
	EnrollmentStart time.Time `db:"enrollment_start" json:"enrollment_start"`
	EnrollmentEnd   time.Time `db:"enrollment_end" json:"enrollment_end"`
}

// SectionPatch enumerates the optional fields of a partial section update.
// Only non-nil fields are written.
type SectionPatch struct {
	SectionNo       *int       `json:"section_no,omitempty"`
	ProfID          *int64     `json:"prof_id,omitempty"`
	RoomNum         *int       `json:"room_num,omitempty"`
	RoomCapacity    *int       `json:"room_capacity,omitempty"`
	CourseStartDate *time.Time `json:"course_start_date,omitempty"`
	EnrollmentStart *time.Time `json:"enrollment_start,omitempty"`
	EnrollmentEnd   *time.Time `json:"enrollment_end,omitempty"`
}

// IsEmpty reports whether the patch sets no fields.
func (p SectionPatch) IsEmpty() bool {
	return p.SectionNo == nil && p.ProfID == nil && p.RoomNum == nil &&
		p.RoomCapacity == nil && p.CourseStartDate == nil &&
		p.EnrollmentStart == nil && p.EnrollmentEnd == nil
}
