package service

import (
	"context"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/titan-online/registrar-api/internal/models"
	appErrors "github.com/titan-online/registrar-api/pkg/errors"
)

type professorChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type dropEnrollmentRepo interface {
	DeleteTx(ctx context.Context, tx *sqlx.Tx, sectionID, studentID int64) (bool, error)
}

type dropWaitlistRepo interface {
	DeleteTx(ctx context.Context, tx *sqlx.Tx, sectionID, studentID int64) (bool, error)
}

type droplistWriter interface {
	InsertTx(ctx context.Context, tx *sqlx.Tx, entry *models.DroplistEntry) error
}

type autoEnrollmentReader interface {
	AutoEnrollmentTx(ctx context.Context, tx *sqlx.Tx) (bool, error)
}

type sectionPromoter interface {
	PromoteSectionTx(ctx context.Context, tx *sqlx.Tx, sectionID int64) (int, error)
}

// DropResult summarises an administrative drop.
type DropResult struct {
	SectionID       int64 `json:"section_id"`
	StudentID       int64 `json:"student_id"`
	RemovedSeat     bool  `json:"removed_seat"`
	RemovedWaitlist bool  `json:"removed_waitlist"`
	Promoted        int   `json:"promoted"`
}

// DropService removes a student from a section on a professor's behalf,
// audits the drop, and backfills the freed seat from the waitlist when
// automatic enrollment is on. Everything after the professor check runs in
// one transaction.
type DropService struct {
	tx          txProvider
	professors  professorChecker
	enrollments dropEnrollmentRepo
	waitlist    dropWaitlistRepo
	droplist    droplistWriter
	config      autoEnrollmentReader
	promotions  sectionPromoter
	logger      *zap.Logger
}

// NewDropService constructs DropService.
func NewDropService(tx txProvider, professors professorChecker, enrollments dropEnrollmentRepo, waitlist dropWaitlistRepo, droplist droplistWriter, config autoEnrollmentReader, promotions sectionPromoter, logger *zap.Logger) *DropService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DropService{
		tx:          tx,
		professors:  professors,
		enrollments: enrollments,
		waitlist:    waitlist,
		droplist:    droplist,
		config:      config,
		promotions:  promotions,
		logger:      logger,
	}
}

// AdministrativeDrop removes the student from both the enrollment and the
// waitlist of the section (whichever held a row), appends the audit record,
// and promotes from the waitlist if the global flag allows. A failure at any
// step rolls the whole drop back.
func (s *DropService) AdministrativeDrop(ctx context.Context, profID, sectionID, studentID int64) (result *DropResult, err error) {
	known, err := s.professors.Exists(ctx, profID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check professor")
	}
	if !known {
		return nil, appErrors.ErrProfessorNotFound
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin drop transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// The caller does not know which table holds the student, so both
	// deletes are attempted.
	removedSeat, err := s.enrollments.DeleteTx(ctx, tx, sectionID, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete enrollment")
	}
	removedWaitlist, err := s.waitlist.DeleteTx(ctx, tx, sectionID, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete waitlist entry")
	}

	entry := &models.DroplistEntry{SectionID: sectionID, StudentID: studentID, Administrative: true}
	if err = s.droplist.InsertTx(ctx, tx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record drop")
	}

	promoted := 0
	enabled, err := s.config.AutoEnrollmentTx(ctx, tx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read automatic enrollment flag")
	}
	if enabled {
		promoted, err = s.promotions.PromoteSectionTx(ctx, tx, sectionID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to promote waitlist")
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit drop")
	}

	s.logger.Info("student dropped administratively",
		zap.Int64("prof_id", profID),
		zap.Int64("section_id", sectionID),
		zap.Int64("student_id", studentID),
		zap.Bool("removed_seat", removedSeat),
		zap.Bool("removed_waitlist", removedWaitlist),
		zap.Int("promoted", promoted),
	)

	return &DropResult{
		SectionID:       sectionID,
		StudentID:       studentID,
		RemovedSeat:     removedSeat,
		RemovedWaitlist: removedWaitlist,
		Promoted:        promoted,
	}, nil
}
