package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/titan-online/registrar-api/internal/models"
	"github.com/titan-online/registrar-api/internal/repository"
	appErrors "github.com/titan-online/registrar-api/pkg/errors"
)

const classCatalogCacheKey = "catalog:classes"

type courseRepo interface {
	Create(ctx context.Context, course *models.Course) error
	ListClasses(ctx context.Context) ([]models.ClassRow, error)
}

type sectionCatalogRepo interface {
	Create(ctx context.Context, section *models.Section) error
	Patch(ctx context.Context, id int64, patch models.SectionPatch) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type catalogCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CreateCourseRequest is the catalog course payload.
type CreateCourseRequest struct {
	DepartmentCode string `json:"department_code" validate:"required"`
	CourseNo       int    `json:"course_no" validate:"required,gt=0"`
	Title          string `json:"title" validate:"required"`
	Description    string `json:"description"`
}

// CreateSectionRequest is the section payload. Dates arrive as YYYY-MM-DD.
type CreateSectionRequest struct {
	DeptCode        string `json:"dept_code" validate:"required"`
	CourseNum       int    `json:"course_num" validate:"required,gt=0"`
	SectionNo       int    `json:"section_no" validate:"required,gt=0"`
	Semester        string `json:"semester" validate:"required,oneof=SP SU FA WI"`
	Year            int    `json:"year" validate:"required,gte=2000"`
	ProfID          int64  `json:"prof_id" validate:"required,gt=0"`
	RoomNum         int    `json:"room_num" validate:"required,gt=0"`
	RoomCapacity    int    `json:"room_capacity" validate:"gte=0"`
	CourseStartDate string `json:"course_start_date" validate:"required,datetime=2006-01-02"`
	EnrollmentStart string `json:"enrollment_start" validate:"required,datetime=2006-01-02"`
	EnrollmentEnd   string `json:"enrollment_end" validate:"required,datetime=2006-01-02"`
}

// PatchSectionRequest enumerates the optional fields of a partial update.
type PatchSectionRequest struct {
	SectionNo       *int    `json:"section_no,omitempty" validate:"omitempty,gt=0"`
	ProfID          *int64  `json:"prof_id,omitempty" validate:"omitempty,gt=0"`
	RoomNum         *int    `json:"room_num,omitempty" validate:"omitempty,gt=0"`
	RoomCapacity    *int    `json:"room_capacity,omitempty" validate:"omitempty,gte=0"`
	CourseStartDate *string `json:"course_start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EnrollmentStart *string `json:"enrollment_start,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EnrollmentEnd   *string `json:"enrollment_end,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// CatalogService maintains courses and sections and serves the class
// catalog. The catalog listing is cached; every catalog mutation invalidates
// it.
type CatalogService struct {
	courses   courseRepo
	sections  sectionCatalogRepo
	cache     catalogCache
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cacheTTL  time.Duration
}

// NewCatalogService constructs CatalogService.
func NewCatalogService(courses courseRepo, sections sectionCatalogRepo, cache catalogCache, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cacheTTL time.Duration) *CatalogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &CatalogService{
		courses:   courses,
		sections:  sections,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cacheTTL:  cacheTTL,
	}
}

// ListClasses returns every course joined with its scheduled sections.
func (s *CatalogService) ListClasses(ctx context.Context) ([]models.ClassRow, error) {
	if s.cache != nil {
		var cached []models.ClassRow
		start := time.Now()
		err := s.cache.Get(ctx, classCatalogCacheKey, &cached)
		s.metrics.RecordCacheOperation(err == nil, time.Since(start))
		if err == nil {
			return cached, nil
		}
	}

	rows, err := s.courses.ListClasses(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, classCatalogCacheKey, rows, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache class catalog", zap.Error(err))
		}
	}
	return rows, nil
}

// CreateCourse registers a new catalog course.
func (s *CatalogService) CreateCourse(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	course := &models.Course{
		DepartmentCode: req.DepartmentCode,
		CourseNo:       req.CourseNo,
		Title:          req.Title,
		Description:    req.Description,
	}
	if err := s.courses.Create(ctx, course); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "course already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	s.invalidateCatalog(ctx)
	return course, nil
}

// CreateSection schedules a new section for an existing course.
func (s *CatalogService) CreateSection(ctx context.Context, req CreateSectionRequest) (*models.Section, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid section payload")
	}
	section := &models.Section{
		DeptCode:        req.DeptCode,
		CourseNum:       req.CourseNum,
		SectionNo:       req.SectionNo,
		Semester:        req.Semester,
		Year:            req.Year,
		ProfID:          req.ProfID,
		RoomNum:         req.RoomNum,
		RoomCapacity:    req.RoomCapacity,
		CourseStartDate: mustDate(req.CourseStartDate),
		EnrollmentStart: mustDate(req.EnrollmentStart),
		EnrollmentEnd:   mustDate(req.EnrollmentEnd),
	}
	if err := s.sections.Create(ctx, section); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "section already exists")
		}
		if repository.IsForeignKeyViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "section references an unknown course or professor")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create section")
	}
	s.invalidateCatalog(ctx)
	return section, nil
}

// PatchSection applies a partial update to a section.
func (s *CatalogService) PatchSection(ctx context.Context, id int64, req PatchSectionRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid section patch")
	}
	patch := models.SectionPatch{
		SectionNo:    req.SectionNo,
		ProfID:       req.ProfID,
		RoomNum:      req.RoomNum,
		RoomCapacity: req.RoomCapacity,
	}
	if req.CourseStartDate != nil {
		d := mustDate(*req.CourseStartDate)
		patch.CourseStartDate = &d
	}
	if req.EnrollmentStart != nil {
		d := mustDate(*req.EnrollmentStart)
		patch.EnrollmentStart = &d
	}
	if req.EnrollmentEnd != nil {
		d := mustDate(*req.EnrollmentEnd)
		patch.EnrollmentEnd = &d
	}
	if patch.IsEmpty() {
		return appErrors.Clone(appErrors.ErrValidation, "no fields to update")
	}

	found, err := s.sections.Patch(ctx, id, patch)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to patch section")
	}
	if !found {
		return appErrors.Clone(appErrors.ErrNotFound, "section not found")
	}
	s.invalidateCatalog(ctx)
	return nil
}

// DeleteSection removes a section from the catalog.
func (s *CatalogService) DeleteSection(ctx context.Context, id int64) error {
	found, err := s.sections.Delete(ctx, id)
	if err != nil {
		if repository.IsForeignKeyViolation(err) {
			return appErrors.Clone(appErrors.ErrConflict, "section still has enrollments")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete section")
	}
	if !found {
		return appErrors.Clone(appErrors.ErrNotFound, "section not found")
	}
	s.invalidateCatalog(ctx)
	return nil
}

func (s *CatalogService) invalidateCatalog(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "catalog:*"); err != nil {
		s.logger.Warn("failed to invalidate class catalog cache", zap.Error(err))
	}
}

// mustDate parses a validator-checked YYYY-MM-DD value.
func mustDate(value string) time.Time {
	t, _ := time.Parse("2006-01-02", value)
	return t
}
