package service

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/titan-online/registrar-api/internal/models"
	appErrors "github.com/titan-online/registrar-api/pkg/errors"
)

type professorStub struct {
	known bool
	err   error
}

func (s *professorStub) Exists(ctx context.Context, id int64) (bool, error) {
	return s.known, s.err
}

type droplistStub struct {
	entries []models.DroplistEntry
	err     error
}

func (s *droplistStub) InsertTx(ctx context.Context, tx *sqlx.Tx, entry *models.DroplistEntry) error {
	if s.err != nil {
		return s.err
	}
	s.entries = append(s.entries, *entry)
	return nil
}

type autoFlagStub struct {
	enabled bool
	err     error
}

func (s *autoFlagStub) AutoEnrollmentTx(ctx context.Context, tx *sqlx.Tx) (bool, error) {
	return s.enabled, s.err
}

type promoterStub struct {
	promoted int
	err      error
	sections []int64
}

func (s *promoterStub) PromoteSectionTx(ctx context.Context, tx *sqlx.Tx, sectionID int64) (int, error) {
	s.sections = append(s.sections, sectionID)
	return s.promoted, s.err
}

type dropFixture struct {
	professors  *professorStub
	enrollments *enrollmentStoreStub
	waitlist    *waitlistStoreStub
	droplist    *droplistStub
	flag        *autoFlagStub
	promoter    *promoterStub
	svc         *DropService
}

func newDropFixture(t *testing.T) *dropFixture {
	t.Helper()
	tx, mock := newTxProviderMock(t)
	mock.MatchExpectationsInOrder(false)
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectRollback()

	f := &dropFixture{
		professors:  &professorStub{known: true},
		enrollments: &enrollmentStoreStub{removed: true},
		waitlist:    &waitlistStoreStub{},
		droplist:    &droplistStub{},
		flag:        &autoFlagStub{},
		promoter:    &promoterStub{},
	}
	f.svc = NewDropService(tx, f.professors, f.enrollments, f.waitlist, f.droplist, f.flag, f.promoter, zap.NewNop())
	return f
}

func TestDropServiceAdministrativeDrop(t *testing.T) {
	f := newDropFixture(t)

	result, err := f.svc.AdministrativeDrop(context.Background(), 5, 7, 42)
	require.NoError(t, err)
	assert.True(t, result.RemovedSeat)
	assert.False(t, result.RemovedWaitlist)
	assert.Zero(t, result.Promoted)

	require.Len(t, f.droplist.entries, 1)
	entry := f.droplist.entries[0]
	assert.Equal(t, int64(7), entry.SectionID)
	assert.Equal(t, int64(42), entry.StudentID)
	assert.True(t, entry.Administrative)
	assert.Empty(t, f.promoter.sections, "no promotion while the flag is off")
}

func TestDropServicePromotesWhenFlagOn(t *testing.T) {
	f := newDropFixture(t)
	f.flag.enabled = true
	f.promoter.promoted = 1

	result, err := f.svc.AdministrativeDrop(context.Background(), 5, 7, 42)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Promoted)
	assert.Equal(t, []int64{7}, f.promoter.sections)
}

func TestDropServiceRemovesWaitlistPresence(t *testing.T) {
	f := newDropFixture(t)
	f.enrollments.removed = false
	f.waitlist.removed = true

	result, err := f.svc.AdministrativeDrop(context.Background(), 5, 7, 42)
	require.NoError(t, err)
	assert.False(t, result.RemovedSeat)
	assert.True(t, result.RemovedWaitlist)
	assert.Len(t, f.droplist.entries, 1, "the drop is audited even when only a waitlist row existed")
}

func TestDropServiceUnknownProfessor(t *testing.T) {
	f := newDropFixture(t)
	f.professors.known = false

	_, err := f.svc.AdministrativeDrop(context.Background(), 99, 7, 42)
	assert.ErrorIs(t, err, appErrors.ErrProfessorNotFound)
	assert.Empty(t, f.droplist.entries)
}

func TestDropServicePromotionFailureRollsBack(t *testing.T) {
	f := newDropFixture(t)
	f.flag.enabled = true
	f.promoter.err = assert.AnError

	_, err := f.svc.AdministrativeDrop(context.Background(), 5, 7, 42)
	require.Error(t, err)
}
