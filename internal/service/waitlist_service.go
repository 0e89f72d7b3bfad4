package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/titan-online/registrar-api/internal/models"
	appErrors "github.com/titan-online/registrar-api/pkg/errors"
	"github.com/titan-online/registrar-api/pkg/export"
)

type waitlistQueryRepo interface {
	ListBySection(ctx context.Context, sectionID int64) ([]models.WaitlistEntry, error)
	Delete(ctx context.Context, sectionID, studentID int64) (bool, error)
}

type datasetExporter interface {
	Render(data export.Dataset) ([]byte, error)
}

type titledDatasetExporter interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// WaitlistService answers waitlist queries and handles the student-initiated
// self-drop. Self-drops are deliberately not audited in the droplist; only
// administrative drops are.
type WaitlistService struct {
	waitlist waitlistQueryRepo
	csv      datasetExporter
	pdf      titledDatasetExporter
	logger   *zap.Logger
}

// NewWaitlistService constructs WaitlistService.
func NewWaitlistService(waitlist waitlistQueryRepo, csv datasetExporter, pdf titledDatasetExporter, logger *zap.Logger) *WaitlistService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WaitlistService{waitlist: waitlist, csv: csv, pdf: pdf, logger: logger}
}

// Position returns the student's 1-based place in the section's FIFO queue,
// or -1 when the student is not waitlisted.
func (s *WaitlistService) Position(ctx context.Context, sectionID, studentID int64) (int, error) {
	entries, err := s.waitlist.ListBySection(ctx, sectionID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load waitlist")
	}
	for i, entry := range entries {
		if entry.StudentID == studentID {
			return i + 1, nil
		}
	}
	return -1, nil
}

// SectionWaitlist returns the queued student IDs in FIFO order.
func (s *WaitlistService) SectionWaitlist(ctx context.Context, sectionID int64) ([]int64, error) {
	entries, err := s.waitlist.ListBySection(ctx, sectionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load waitlist")
	}
	ids := make([]int64, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.StudentID)
	}
	return ids, nil
}

// SelfDrop removes the requesting student's own waitlist entry.
func (s *WaitlistService) SelfDrop(ctx context.Context, sectionID, studentID int64) error {
	removed, err := s.waitlist.Delete(ctx, sectionID, studentID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete waitlist entry")
	}
	if !removed {
		return appErrors.ErrWaitlistEntryMissing
	}
	s.logger.Info("student left waitlist",
		zap.Int64("section_id", sectionID),
		zap.Int64("student_id", studentID),
	)
	return nil
}

// ExportSectionWaitlist renders the section's queue as CSV or PDF and
// returns the payload with its content type.
func (s *WaitlistService) ExportSectionWaitlist(ctx context.Context, sectionID int64, format string) ([]byte, string, error) {
	entries, err := s.waitlist.ListBySection(ctx, sectionID)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load waitlist")
	}

	data := export.Dataset{
		Headers: []string{"position", "student_id", "waitlist_date"},
		Rows:    make([]map[string]string, 0, len(entries)),
	}
	for i, entry := range entries {
		data.Rows = append(data.Rows, map[string]string{
			"position":      strconv.Itoa(i + 1),
			"student_id":    strconv.FormatInt(entry.StudentID, 10),
			"waitlist_date": entry.WaitlistDate.Format("2006-01-02 15:04:05"),
		})
	}

	switch format {
	case "", "csv":
		payload, err := s.csv.Render(data)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return payload, "text/csv", nil
	case "pdf":
		title := fmt.Sprintf("Waitlist for section %d", sectionID)
		payload, err := s.pdf.Render(data, title)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return payload, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}
