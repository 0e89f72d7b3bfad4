package models

import "time"

// WaitlistEntry queues a student for a seat in a full section. Entries are
// strictly ordered by WaitlistDate ascending; promotion consumes from the
// head. A student holds at most three entries system-wide.
type WaitlistEntry struct {
	SectionID    int64     `db:"section_id" json:"section_id"`
	StudentID    int64     `db:"student_id" json:"student_id"`
	WaitlistDate time.Time `db:"waitlist_date" json:"waitlist_date"`
}
