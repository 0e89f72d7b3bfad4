package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/titan-online/registrar-api/internal/models"
	appErrors "github.com/titan-online/registrar-api/pkg/errors"
)

type professorEnrollmentLister interface {
	ListByProfessor(ctx context.Context, profID int64) ([]models.Enrollment, error)
}

type professorDroplistLister interface {
	ListByProfessor(ctx context.Context, profID int64) ([]models.DroplistEntry, error)
}

// ProfessorService serves the professor-facing roster views: current
// enrollments and the administrative drop log across all of a professor's
// sections.
type ProfessorService struct {
	professors  professorChecker
	enrollments professorEnrollmentLister
	droplists   professorDroplistLister
	logger      *zap.Logger
}

// NewProfessorService constructs ProfessorService.
func NewProfessorService(professors professorChecker, enrollments professorEnrollmentLister, droplists professorDroplistLister, logger *zap.Logger) *ProfessorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfessorService{
		professors:  professors,
		enrollments: enrollments,
		droplists:   droplists,
		logger:      logger,
	}
}

// Enrollments lists every active enrollment across the professor's sections.
func (s *ProfessorService) Enrollments(ctx context.Context, profID int64) ([]models.Enrollment, error) {
	if err := s.requireProfessor(ctx, profID); err != nil {
		return nil, err
	}
	rows, err := s.enrollments.ListByProfessor(ctx, profID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list professor enrollments")
	}
	return rows, nil
}

// Droplists lists the drop audit entries across the professor's sections.
func (s *ProfessorService) Droplists(ctx context.Context, profID int64) ([]models.DroplistEntry, error) {
	if err := s.requireProfessor(ctx, profID); err != nil {
		return nil, err
	}
	rows, err := s.droplists.ListByProfessor(ctx, profID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list professor droplists")
	}
	return rows, nil
}

func (s *ProfessorService) requireProfessor(ctx context.Context, profID int64) error {
	exists, err := s.professors.Exists(ctx, profID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check professor")
	}
	if !exists {
		return appErrors.ErrProfessorNotFound
	}
	return nil
}
