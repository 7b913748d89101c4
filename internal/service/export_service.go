package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/coursematch/tutor-api/internal/models"
	appErrors "github.com/coursematch/tutor-api/pkg/errors"
	"github.com/coursematch/tutor-api/pkg/export"
)

type exportEnrollmentRepository interface {
	ListDetailByUser(ctx context.Context, userID string) ([]models.EnrollmentDetail, error)
}

// ExportFile is a rendered download with its transport metadata.
type ExportFile struct {
	FileName    string
	ContentType string
	Content     []byte
}

// ExportService renders a user's own course history as CSV or PDF.
type ExportService struct {
	enrollments exportEnrollmentRepository
	csv         *export.CSVExporter
	pdf         *export.PDFExporter
	logger      *zap.Logger
}

// NewExportService constructs an ExportService instance.
func NewExportService(enrollments exportEnrollmentRepository, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		enrollments: enrollments,
		csv:         export.NewCSVExporter(),
		pdf:         export.NewPDFExporter(),
		logger:      logger,
	}
}

// CourseHistoryCSV renders the user's full course history as CSV. Grades
// are included; the export is for the owner only.
func (s *ExportService) CourseHistoryCSV(ctx context.Context, userID string) (*ExportFile, error) {
	data, err := s.courseHistoryDataset(ctx, userID)
	if err != nil {
		return nil, err
	}
	content, err := s.csv.Render(*data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	return &ExportFile{
		FileName:    fmt.Sprintf("course-history-%s.csv", time.Now().UTC().Format("2006-01-02")),
		ContentType: "text/csv",
		Content:     content,
	}, nil
}

// CourseHistoryPDF renders the user's full course history as PDF.
func (s *ExportService) CourseHistoryPDF(ctx context.Context, userID string) (*ExportFile, error) {
	data, err := s.courseHistoryDataset(ctx, userID)
	if err != nil {
		return nil, err
	}
	content, err := s.pdf.Render(*data, "Course History")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
	}
	return &ExportFile{
		FileName:    fmt.Sprintf("course-history-%s.pdf", time.Now().UTC().Format("2006-01-02")),
		ContentType: "application/pdf",
		Content:     content,
	}, nil
}

func (s *ExportService) courseHistoryDataset(ctx context.Context, userID string) (*export.Dataset, error) {
	details, err := s.enrollments.ListDetailByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}

	data := &export.Dataset{
		Headers: []string{"Course", "Title", "Grade", "Tutoring", "Listed", "Added"},
		Rows:    make([]map[string]string, 0, len(details)),
	}
	for _, d := range details {
		grade := ""
		if d.Grade != nil {
			grade = *d.Grade
		}
		data.Rows = append(data.Rows, map[string]string{
			"Course":   fmt.Sprintf("%s %s", d.CoursePrefix, d.CourseNumber),
			"Title":    d.CourseTitle,
			"Grade":    grade,
			"Tutoring": yesNo(d.CanTutor),
			"Listed":   yesNo(d.ShowAsTutor),
			"Added":    d.CreatedAt.UTC().Format("2006-01-02"),
		})
	}
	return data, nil
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
