package models

import "time"

// AdmissionOutcome is the result of the admission decision for one
// (student, section) request. Rejections are reported as typed errors, not
// outcomes.
type AdmissionOutcome string

const (
	AdmissionEnrolled   AdmissionOutcome = "ENROLLED"
	AdmissionWaitlisted AdmissionOutcome = "WAITLISTED"
)

// Enrollment is an active seat held by a student in a section. At most one
// row exists per (section_id, student_id); the database enforces it with a
// unique constraint.
type Enrollment struct {
	SectionID      int64     `db:"section_id" json:"section_id"`
	StudentID      int64     `db:"student_id" json:"student_id"`
	EnrollmentDate time.Time `db:"enrollment_date" json:"enrollment_date"`
}
