package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/titan-online/registrar-api/internal/models"
	"github.com/titan-online/registrar-api/internal/repository"
	appErrors "github.com/titan-online/registrar-api/pkg/errors"
)

type admissionSectionRepo interface {
	LockByID(ctx context.Context, tx *sqlx.Tx, id int64) (*models.Section, error)
}

type admissionEnrollmentRepo interface {
	ExistsTx(ctx context.Context, tx *sqlx.Tx, sectionID, studentID int64) (bool, error)
	InsertTx(ctx context.Context, tx *sqlx.Tx, enrollment *models.Enrollment) error
}

type admissionWaitlistRepo interface {
	InsertTx(ctx context.Context, tx *sqlx.Tx, entry *models.WaitlistEntry) error
	DeleteTx(ctx context.Context, tx *sqlx.Tx, sectionID, studentID int64) (bool, error)
}

// EnrollRequest is the admission payload.
type EnrollRequest struct {
	StudentID int64 `json:"student_id" validate:"required,gt=0"`
	SectionID int64 `json:"section_id" validate:"required,gt=0"`
}

// AdmissionResult reports a successful admission decision. Rejections
// surface as typed errors carrying the specific reason.
type AdmissionResult struct {
	Outcome   models.AdmissionOutcome `json:"outcome"`
	SectionID int64                   `json:"section_id"`
	StudentID int64                   `json:"student_id"`
	Message   string                  `json:"message"`
}

// AdmissionService decides, for one (student, section) request, whether to
// admit, waitlist, or reject. The whole decision runs in a single
// transaction under a section row lock, so two requests racing for the last
// seat serialize at the database and only one enrolls.
type AdmissionService struct {
	tx          txProvider
	sections    admissionSectionRepo
	enrollments admissionEnrollmentRepo
	waitlist    admissionWaitlistRepo
	capacity    *CapacityEvaluator
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger

	waitlistCapacity    int
	maxStudentWaitlists int
}

// NewAdmissionService constructs AdmissionService.
func NewAdmissionService(tx txProvider, sections admissionSectionRepo, enrollments admissionEnrollmentRepo, waitlist admissionWaitlistRepo, capacity *CapacityEvaluator, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, waitlistCapacity, maxStudentWaitlists int) *AdmissionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if waitlistCapacity <= 0 {
		waitlistCapacity = 15
	}
	if maxStudentWaitlists <= 0 {
		maxStudentWaitlists = 3
	}
	return &AdmissionService{
		tx:                  tx,
		sections:            sections,
		enrollments:         enrollments,
		waitlist:            waitlist,
		capacity:            capacity,
		metrics:             metrics,
		validator:           validate,
		logger:              logger,
		waitlistCapacity:    waitlistCapacity,
		maxStudentWaitlists: maxStudentWaitlists,
	}
}

// Admit applies the admission policy for the request. Exactly one of
// {enrollment insert, waitlist insert} happens on success; every rejection
// path leaves no writes behind.
func (s *AdmissionService) Admit(ctx context.Context, req EnrollRequest) (result *AdmissionResult, err error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin admission transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	section, lockErr := s.sections.LockByID(ctx, tx, req.SectionID)
	if lockErr != nil {
		if lockErr == sql.ErrNoRows {
			err = appErrors.ErrSectionNotFound
			return nil, err
		}
		err = appErrors.Wrap(lockErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load section")
		return nil, err
	}

	if !withinEnrollmentWindow(time.Now().UTC(), section.EnrollmentStart, section.EnrollmentEnd) {
		err = appErrors.ErrWindowClosed
		return nil, err
	}

	seats, seatsErr := s.capacity.SeatsAvailable(ctx, tx, section.ID)
	if seatsErr != nil {
		err = appErrors.Wrap(seatsErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to evaluate capacity")
		return nil, err
	}

	if seats > 0 {
		result, err = s.enroll(ctx, tx, section, req)
	} else {
		result, err = s.joinWaitlist(ctx, tx, section, req)
	}
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit admission")
		return nil, err
	}

	s.metrics.RecordAdmissionOutcome(result.Outcome)
	s.logger.Info("admission decided",
		zap.Int64("student_id", req.StudentID),
		zap.Int64("section_id", req.SectionID),
		zap.String("outcome", string(result.Outcome)),
	)
	return result, nil
}

func (s *AdmissionService) enroll(ctx context.Context, tx *sqlx.Tx, section *models.Section, req EnrollRequest) (*AdmissionResult, error) {
	exists, err := s.enrollments.ExistsTx(ctx, tx, section.ID, req.StudentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if exists {
		return nil, appErrors.ErrAlreadyEnrolled
	}

	enrollment := &models.Enrollment{SectionID: section.ID, StudentID: req.StudentID, EnrollmentDate: time.Now().UTC()}
	if err := s.enrollments.InsertTx(ctx, tx, enrollment); err != nil {
		// A concurrent request for the same student slipped past the
		// existence check; the unique constraint is the arbiter.
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.ErrAlreadyEnrolled
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to insert enrollment")
	}

	// A student admitted directly must not linger on the same section's
	// waitlist.
	if _, err := s.waitlist.DeleteTx(ctx, tx, section.ID, req.StudentID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear waitlist entry")
	}

	return &AdmissionResult{
		Outcome:   models.AdmissionEnrolled,
		SectionID: section.ID,
		StudentID: req.StudentID,
		Message:   fmt.Sprintf("Student %d enrolled successfully for section_id %d", req.StudentID, section.ID),
	}, nil
}

func (s *AdmissionService) joinWaitlist(ctx context.Context, tx *sqlx.Tx, section *models.Section, req EnrollRequest) (*AdmissionResult, error) {
	// A student holding a seat must never gain a waitlist row for the same
	// section, even when it is full.
	enrolled, err := s.enrollments.ExistsTx(ctx, tx, section.ID, req.StudentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if enrolled {
		return nil, appErrors.ErrAlreadyEnrolled
	}

	waitlisted, err := s.capacity.WaitlistCount(ctx, tx, section.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count section waitlist")
	}
	held, err := s.capacity.StudentWaitlistCount(ctx, tx, req.StudentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count student waitlists")
	}
	if waitlisted >= s.waitlistCapacity || held >= s.maxStudentWaitlists {
		return nil, appErrors.ErrSectionFull
	}

	entry := &models.WaitlistEntry{SectionID: section.ID, StudentID: req.StudentID, WaitlistDate: time.Now().UTC()}
	if err := s.waitlist.InsertTx(ctx, tx, entry); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.ErrAlreadyWaitlisted
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to insert waitlist entry")
	}

	return &AdmissionResult{
		Outcome:   models.AdmissionWaitlisted,
		SectionID: section.ID,
		StudentID: req.StudentID,
		Message:   fmt.Sprintf("Student %d waitlisted successfully for section_id %d", req.StudentID, section.ID),
	}, nil
}

// withinEnrollmentWindow checks the inclusive [start, end] window at day
// granularity.
func withinEnrollmentWindow(now, start, end time.Time) bool {
	today := dateOnly(now)
	return !today.Before(dateOnly(start)) && !today.After(dateOnly(end))
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
