package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/titan-online/registrar-api/internal/models"
	appErrors "github.com/titan-online/registrar-api/pkg/errors"
)

type registrarConfigRepo interface {
	Get(ctx context.Context) (*models.RegistrarConfig, error)
	SetAutoEnrollment(ctx context.Context, enabled bool) error
}

type openSectionFinder interface {
	DiscoverOpenSections(ctx context.Context) ([]int64, error)
}

type promotionJobDispatcher interface {
	DispatchSections(sectionIDs []int64) error
}

// RegistrarConfigService owns the global automatic enrollment flag. Turning
// the flag on schedules a promotion sweep over every section that is still
// accepting students, so seats freed while the flag was off get backfilled.
type RegistrarConfigService struct {
	config     registrarConfigRepo
	promotions openSectionFinder
	dispatcher promotionJobDispatcher
	logger     *zap.Logger
}

// NewRegistrarConfigService constructs RegistrarConfigService.
func NewRegistrarConfigService(config registrarConfigRepo, promotions openSectionFinder, dispatcher promotionJobDispatcher, logger *zap.Logger) *RegistrarConfigService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistrarConfigService{
		config:     config,
		promotions: promotions,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Get returns the current registrar configuration.
func (s *RegistrarConfigService) Get(ctx context.Context) (*models.RegistrarConfig, error) {
	cfg, err := s.config.Get(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registrar config")
	}
	return cfg, nil
}

// SetAutoEnrollment updates the automatic enrollment flag. When the flag
// transitions from off to on, open sections are discovered and a promotion
// job is queued per section.
func (s *RegistrarConfigService) SetAutoEnrollment(ctx context.Context, enabled bool) error {
	current, err := s.config.Get(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registrar config")
	}

	if err := s.config.SetAutoEnrollment(ctx, enabled); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update auto enrollment flag")
	}
	s.logger.Info("auto enrollment flag updated",
		zap.Bool("enabled", enabled),
		zap.Bool("previous", current.AutomaticEnrollment),
	)

	if enabled && !current.AutomaticEnrollment {
		if err := s.scheduleSweep(ctx); err != nil {
			s.logger.Warn("failed to schedule promotion sweep", zap.Error(err))
		}
	}
	return nil
}

func (s *RegistrarConfigService) scheduleSweep(ctx context.Context) error {
	sectionIDs, err := s.promotions.DiscoverOpenSections(ctx)
	if err != nil {
		return err
	}
	if len(sectionIDs) == 0 {
		return nil
	}
	if s.dispatcher == nil {
		return nil
	}
	if err := s.dispatcher.DispatchSections(sectionIDs); err != nil {
		return err
	}
	s.logger.Info("promotion sweep scheduled", zap.Int("sections", len(sectionIDs)))
	return nil
}
