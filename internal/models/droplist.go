package models

import "time"

// DroplistEntry is an append-only audit record written when a student is
// removed from a section administratively. Rows are never mutated or deleted.
type DroplistEntry struct {
	ID             string    `db:"id" json:"id"`
	SectionID      int64     `db:"section_id" json:"section_id"`
	StudentID      int64     `db:"student_id" json:"student_id"`
	DropDate       time.Time `db:"drop_date" json:"drop_date"`
	Administrative bool      `db:"administrative" json:"administrative"`
}
