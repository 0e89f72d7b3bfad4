package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/titan-online/registrar-api/internal/models"
	appErrors "github.com/titan-online/registrar-api/pkg/errors"
	"github.com/titan-online/registrar-api/pkg/export"
)

type waitlistQueryStub struct {
	entries []models.WaitlistEntry
	err     error
	removed bool
	deleted [][2]int64
}

func (s *waitlistQueryStub) ListBySection(ctx context.Context, sectionID int64) ([]models.WaitlistEntry, error) {
	return s.entries, s.err
}

func (s *waitlistQueryStub) Delete(ctx context.Context, sectionID, studentID int64) (bool, error) {
	s.deleted = append(s.deleted, [2]int64{sectionID, studentID})
	return s.removed, nil
}

func newWaitlistFixture(entries ...models.WaitlistEntry) (*waitlistQueryStub, *WaitlistService) {
	stub := &waitlistQueryStub{entries: entries}
	svc := NewWaitlistService(stub, export.NewCSVExporter(), export.NewPDFExporter(), zap.NewNop())
	return stub, svc
}

func queuedAt(sectionID, studentID int64, minute int) models.WaitlistEntry {
	return models.WaitlistEntry{
		SectionID:    sectionID,
		StudentID:    studentID,
		WaitlistDate: time.Date(2026, 8, 1, 9, minute, 0, 0, time.UTC),
	}
}

func TestWaitlistServicePosition(t *testing.T) {
	_, svc := newWaitlistFixture(queuedAt(7, 101, 0), queuedAt(7, 102, 1), queuedAt(7, 103, 2))

	pos, err := svc.Position(context.Background(), 7, 102)
	require.NoError(t, err)
	assert.Equal(t, 2, pos)
}

func TestWaitlistServicePositionAbsent(t *testing.T) {
	_, svc := newWaitlistFixture(queuedAt(7, 101, 0))

	pos, err := svc.Position(context.Background(), 7, 999)
	require.NoError(t, err)
	assert.Equal(t, -1, pos)
}

func TestWaitlistServiceSectionWaitlistOrder(t *testing.T) {
	_, svc := newWaitlistFixture(queuedAt(7, 103, 0), queuedAt(7, 101, 1), queuedAt(7, 102, 2))

	ids, err := svc.SectionWaitlist(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, []int64{103, 101, 102}, ids, "repository order is preserved")
}

func TestWaitlistServiceSelfDrop(t *testing.T) {
	stub, svc := newWaitlistFixture()
	stub.removed = true

	require.NoError(t, svc.SelfDrop(context.Background(), 7, 42))
	assert.Equal(t, [][2]int64{{7, 42}}, stub.deleted)
}

func TestWaitlistServiceSelfDropMissing(t *testing.T) {
	stub, svc := newWaitlistFixture()
	stub.removed = false

	err := svc.SelfDrop(context.Background(), 7, 42)
	assert.ErrorIs(t, err, appErrors.ErrWaitlistEntryMissing)
}

func TestWaitlistServiceExportCSV(t *testing.T) {
	_, svc := newWaitlistFixture(queuedAt(7, 101, 0), queuedAt(7, 102, 1))

	payload, contentType, err := svc.ExportSectionWaitlist(context.Background(), 7, "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)

	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "position,student_id,waitlist_date", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "1,101,"))
	assert.True(t, strings.HasPrefix(lines[2], "2,102,"))
}

func TestWaitlistServiceExportPDF(t *testing.T) {
	_, svc := newWaitlistFixture(queuedAt(7, 101, 0))

	payload, contentType, err := svc.ExportSectionWaitlist(context.Background(), 7, "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.True(t, strings.HasPrefix(string(payload), "%PDF"))
}

func TestWaitlistServiceExportUnknownFormat(t *testing.T) {
	_, svc := newWaitlistFixture()

	_, _, err := svc.ExportSectionWaitlist(context.Background(), 7, "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
