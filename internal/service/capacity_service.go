package service

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// txProvider hands out database transactions to the services that need
// atomic check-then-write sequences.
type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type seatCounter interface {
	CountBySectionTx(ctx context.Context, tx *sqlx.Tx, sectionID int64) (int, error)
}

type waitlistCounter interface {
	CountBySectionTx(ctx context.Context, tx *sqlx.Tx, sectionID int64) (int, error)
	CountByStudentTx(ctx context.Context, tx *sqlx.Tx, studentID int64) (int, error)
}

// CapacityEvaluator computes seat and waitlist occupancy for a section. It is
// read-only and always runs inside the transaction of the operation that
// consumes its numbers, so the counts cannot race the subsequent write.
//
// Seat availability is counting-based: the configured maximum minus the
// enrollment rows on record. The section's room_capacity column is
// descriptive and never decremented, so the enrollments table stays the
// single source of truth.
type CapacityEvaluator struct {
	enrollments seatCounter
	waitlist    waitlistCounter
	maxCapacity int
}

// NewCapacityEvaluator constructs the evaluator.
func NewCapacityEvaluator(enrollments seatCounter, waitlist waitlistCounter, maxCapacity int) *CapacityEvaluator {
	if maxCapacity <= 0 {
		maxCapacity = 30
	}
	return &CapacityEvaluator{enrollments: enrollments, waitlist: waitlist, maxCapacity: maxCapacity}
}

// MaxCapacity returns the configured per-section seat limit.
func (e *CapacityEvaluator) MaxCapacity() int {
	return e.maxCapacity
}

// SeatsAvailable returns the number of free seats in the section.
func (e *CapacityEvaluator) SeatsAvailable(ctx context.Context, tx *sqlx.Tx, sectionID int64) (int, error) {
	taken, err := e.enrollments.CountBySectionTx(ctx, tx, sectionID)
	if err != nil {
		return 0, err
	}
	return e.maxCapacity - taken, nil
}

// WaitlistCount returns the section's waitlist occupancy.
func (e *CapacityEvaluator) WaitlistCount(ctx context.Context, tx *sqlx.Tx, sectionID int64) (int, error) {
	return e.waitlist.CountBySectionTx(ctx, tx, sectionID)
}

// StudentWaitlistCount returns how many waitlists the student holds across
// all sections.
func (e *CapacityEvaluator) StudentWaitlistCount(ctx context.Context, tx *sqlx.Tx, studentID int64) (int, error) {
	return e.waitlist.CountByStudentTx(ctx, tx, studentID)
}
