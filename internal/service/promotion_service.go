package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/titan-online/registrar-api/internal/models"
	"github.com/titan-online/registrar-api/pkg/jobs"
)

type promotionSectionRepo interface {
	LockByID(ctx context.Context, tx *sqlx.Tx, id int64) (*models.Section, error)
	ListOpenSectionIDs(ctx context.Context, maxCapacity, graceDays int) ([]int64, error)
}

type promotionEnrollmentRepo interface {
	InsertTx(ctx context.Context, tx *sqlx.Tx, enrollment *models.Enrollment) error
}

type promotionWaitlistRepo interface {
	HeadTx(ctx context.Context, tx *sqlx.Tx, sectionID int64, limit int) ([]models.WaitlistEntry, error)
	DeleteTx(ctx context.Context, tx *sqlx.Tx, sectionID, studentID int64) (bool, error)
}

// PromotionService moves the longest-waiting students of a section into its
// free seats. Each section is promoted in its own transaction so a failure
// rolls back that section alone and leaves the rest of a batch untouched.
type PromotionService struct {
	tx          txProvider
	sections    promotionSectionRepo
	enrollments promotionEnrollmentRepo
	waitlist    promotionWaitlistRepo
	capacity    *CapacityEvaluator
	metrics     *MetricsService
	logger      *zap.Logger

	graceDays int
}

// NewPromotionService constructs PromotionService.
func NewPromotionService(tx txProvider, sections promotionSectionRepo, enrollments promotionEnrollmentRepo, waitlist promotionWaitlistRepo, capacity *CapacityEvaluator, metrics *MetricsService, logger *zap.Logger, graceDays int) *PromotionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if graceDays <= 0 {
		graceDays = 14
	}
	return &PromotionService{
		tx:          tx,
		sections:    sections,
		enrollments: enrollments,
		waitlist:    waitlist,
		capacity:    capacity,
		metrics:     metrics,
		logger:      logger,
		graceDays:   graceDays,
	}
}

// DiscoverOpenSections returns the sections with free seats that are still
// inside their start-date window.
func (s *PromotionService) DiscoverOpenSections(ctx context.Context) ([]int64, error) {
	return s.sections.ListOpenSectionIDs(ctx, s.capacity.MaxCapacity(), s.graceDays)
}

// Promote backfills free seats from the waitlist for each requested section
// and returns the total number of students promoted. A failed section is
// rolled back and logged; the remaining sections still run.
func (s *PromotionService) Promote(ctx context.Context, sectionIDs []int64) (int, error) {
	total := 0
	for _, sectionID := range sectionIDs {
		promoted, err := s.promoteSection(ctx, sectionID)
		if err != nil {
			s.logger.Warn("section promotion failed",
				zap.Int64("section_id", sectionID),
				zap.Error(err),
			)
			continue
		}
		total += promoted
	}
	if total > 0 {
		s.metrics.RecordPromotions(total)
	}
	return total, nil
}

func (s *PromotionService) promoteSection(ctx context.Context, sectionID int64) (promoted int, err error) {
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	promoted, err = s.PromoteSectionTx(ctx, tx, sectionID)
	if err != nil {
		return 0, err
	}
	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return promoted, nil
}

// PromoteSectionTx runs one section's promotion inside the caller's
// transaction. The administrative drop handler uses it to make the
// drop-then-backfill sequence a single atomic unit.
func (s *PromotionService) PromoteSectionTx(ctx context.Context, tx *sqlx.Tx, sectionID int64) (int, error) {
	// Lock the section row so promotion cannot interleave with an
	// admission for the same section.
	if _, err := s.sections.LockByID(ctx, tx, sectionID); err != nil {
		return 0, err
	}

	free, err := s.capacity.SeatsAvailable(ctx, tx, sectionID)
	if err != nil {
		return 0, err
	}
	if free <= 0 {
		return 0, nil
	}

	entries, err := s.waitlist.HeadTx(ctx, tx, sectionID, free)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	for _, entry := range entries {
		enrollment := &models.Enrollment{SectionID: entry.SectionID, StudentID: entry.StudentID, EnrollmentDate: now}
		if err := s.enrollments.InsertTx(ctx, tx, enrollment); err != nil {
			return 0, err
		}
		if _, err := s.waitlist.DeleteTx(ctx, tx, entry.SectionID, entry.StudentID); err != nil {
			return 0, err
		}
	}

	if len(entries) > 0 {
		s.logger.Info("waitlist promoted",
			zap.Int64("section_id", sectionID),
			zap.Int("promoted", len(entries)),
		)
	}
	return len(entries), nil
}

const promoteSectionJob = "promote_section"

// PromotionDispatcher fans section promotions out to a background worker
// pool. Enabling the auto-enrollment flag enqueues one job per open section;
// each job promotes independently, which keeps the per-section transaction
// isolation of the engine.
type PromotionDispatcher struct {
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewPromotionDispatcher builds a dispatcher backed by the shared job queue.
func NewPromotionDispatcher(promotions *PromotionService, workers, buffer int, logger *zap.Logger) *PromotionDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	handler := func(ctx context.Context, job jobs.Job) error {
		sectionID, ok := job.Payload.(int64)
		if !ok {
			logger.Error("promotion job with unexpected payload", zap.String("job_id", job.ID))
			return nil
		}
		_, err := promotions.Promote(ctx, []int64{sectionID})
		return err
	}
	queue := jobs.NewQueue(promoteSectionJob, handler, jobs.QueueConfig{
		Workers:    workers,
		BufferSize: buffer,
		Logger:     logger,
	})
	return &PromotionDispatcher{queue: queue, logger: logger}
}

// Start launches the worker pool.
func (d *PromotionDispatcher) Start(ctx context.Context) {
	d.queue.Start(ctx)
}

// Stop drains the worker pool.
func (d *PromotionDispatcher) Stop() {
	d.queue.Stop()
}

// DispatchSections enqueues one promotion job per section.
func (d *PromotionDispatcher) DispatchSections(sectionIDs []int64) error {
	for _, sectionID := range sectionIDs {
		job := jobs.Job{ID: uuid.NewString(), Type: promoteSectionJob, Payload: sectionID}
		if err := d.queue.Enqueue(job); err != nil {
			return err
		}
	}
	return nil
}
