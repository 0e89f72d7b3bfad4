package service

import (
	"context"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/titan-online/registrar-api/internal/models"
	appErrors "github.com/titan-online/registrar-api/pkg/errors"
)

type courseRepoStub struct {
	created []models.Course
	rows    []models.ClassRow
	err     error
	listed  int
}

func (s *courseRepoStub) Create(ctx context.Context, course *models.Course) error {
	if s.err != nil {
		return s.err
	}
	s.created = append(s.created, *course)
	return nil
}

func (s *courseRepoStub) ListClasses(ctx context.Context) ([]models.ClassRow, error) {
	s.listed++
	return s.rows, s.err
}

type sectionRepoStub struct {
	created   []models.Section
	createErr error
	found     bool
	patchErr  error
	patched   []models.SectionPatch
	deleted   []int64
}

func (s *sectionRepoStub) Create(ctx context.Context, section *models.Section) error {
	if s.createErr != nil {
		return s.createErr
	}
	section.ID = 7
	s.created = append(s.created, *section)
	return nil
}

func (s *sectionRepoStub) Patch(ctx context.Context, id int64, patch models.SectionPatch) (bool, error) {
	if s.patchErr != nil {
		return false, s.patchErr
	}
	s.patched = append(s.patched, patch)
	return s.found, nil
}

func (s *sectionRepoStub) Delete(ctx context.Context, id int64) (bool, error) {
	s.deleted = append(s.deleted, id)
	return s.found, nil
}

type cacheStub struct {
	stored      []models.ClassRow
	hasValue    bool
	sets        int
	invalidated []string
}

func (s *cacheStub) Get(ctx context.Context, key string, dest interface{}) error {
	if !s.hasValue {
		return appErrors.ErrCacheMiss
	}
	rows, ok := dest.(*[]models.ClassRow)
	if !ok {
		return appErrors.ErrCacheMiss
	}
	*rows = s.stored
	return nil
}

func (s *cacheStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if rows, ok := value.([]models.ClassRow); ok {
		s.stored = rows
		s.hasValue = true
	}
	s.sets++
	return nil
}

func (s *cacheStub) DeleteByPattern(ctx context.Context, pattern string) error {
	s.invalidated = append(s.invalidated, pattern)
	s.hasValue = false
	return nil
}

type catalogFixture struct {
	courses  *courseRepoStub
	sections *sectionRepoStub
	cache    *cacheStub
	svc      *CatalogService
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()
	f := &catalogFixture{
		courses:  &courseRepoStub{},
		sections: &sectionRepoStub{found: true},
		cache:    &cacheStub{},
	}
	f.svc = NewCatalogService(f.courses, f.sections, f.cache, nil, nil, zap.NewNop(), time.Minute)
	return f
}

func catalogRow(dept string, courseNo int) models.ClassRow {
	return models.ClassRow{
		Course:    models.Course{DepartmentCode: dept, CourseNo: courseNo, Title: "Web Back-End Engineering"},
		SectionID: 7,
		SectionNo: 1,
		Semester:  "FA",
		Year:      2026,
	}
}

func TestCatalogServiceListClassesPopulatesCache(t *testing.T) {
	f := newCatalogFixture(t)
	f.courses.rows = []models.ClassRow{catalogRow("CPSC", 449)}

	rows, err := f.svc.ListClasses(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, f.courses.listed)
	assert.Equal(t, 1, f.cache.sets)
}

func TestCatalogServiceListClassesServedFromCache(t *testing.T) {
	f := newCatalogFixture(t)
	f.cache.stored = []models.ClassRow{catalogRow("CPSC", 449)}
	f.cache.hasValue = true

	rows, err := f.svc.ListClasses(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Zero(t, f.courses.listed, "cache hit must not touch the database")
}

func TestCatalogServiceCreateCourse(t *testing.T) {
	f := newCatalogFixture(t)

	course, err := f.svc.CreateCourse(context.Background(), CreateCourseRequest{
		DepartmentCode: "CPSC",
		CourseNo:       449,
		Title:          "Web Back-End Engineering",
	})
	require.NoError(t, err)
	assert.Equal(t, "CPSC", course.DepartmentCode)
	assert.Equal(t, []string{"catalog:*"}, f.cache.invalidated)
}

func TestCatalogServiceCreateCourseDuplicate(t *testing.T) {
	f := newCatalogFixture(t)
	f.courses.err = &pq.Error{Code: "23505"}

	_, err := f.svc.CreateCourse(context.Background(), CreateCourseRequest{
		DepartmentCode: "CPSC",
		CourseNo:       449,
		Title:          "Web Back-End Engineering",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestCatalogServiceCreateSectionParsesDates(t *testing.T) {
	f := newCatalogFixture(t)

	section, err := f.svc.CreateSection(context.Background(), CreateSectionRequest{
		DeptCode:        "CPSC",
		CourseNum:       449,
		SectionNo:       1,
		Semester:        "FA",
		Year:            2026,
		ProfID:          5,
		RoomNum:         101,
		RoomCapacity:    35,
		CourseStartDate: "2026-08-24",
		EnrollmentStart: "2026-07-01",
		EnrollmentEnd:   "2026-08-31",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), section.ID)
	assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), section.CourseStartDate)
	assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), section.EnrollmentEnd)
}

func TestCatalogServiceCreateSectionRejectsBadSemester(t *testing.T) {
	f := newCatalogFixture(t)

	_, err := f.svc.CreateSection(context.Background(), CreateSectionRequest{
		DeptCode:        "CPSC",
		CourseNum:       449,
		SectionNo:       1,
		Semester:        "XX",
		Year:            2026,
		ProfID:          5,
		RoomNum:         101,
		CourseStartDate: "2026-08-24",
		EnrollmentStart: "2026-07-01",
		EnrollmentEnd:   "2026-08-31",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, f.sections.created)
}

func TestCatalogServicePatchSectionNotFound(t *testing.T) {
	f := newCatalogFixture(t)
	f.sections.found = false

	room := 202
	err := f.svc.PatchSection(context.Background(), 99, PatchSectionRequest{RoomNum: &room})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCatalogServicePatchSectionEmpty(t *testing.T) {
	f := newCatalogFixture(t)

	err := f.svc.PatchSection(context.Background(), 7, PatchSectionRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, f.sections.patched)
}

func TestCatalogServiceDeleteSectionInvalidatesCache(t *testing.T) {
	f := newCatalogFixture(t)

	require.NoError(t, f.svc.DeleteSection(context.Background(), 7))
	assert.Equal(t, []int64{7}, f.sections.deleted)
	assert.Equal(t, []string{"catalog:*"}, f.cache.invalidated)
}
