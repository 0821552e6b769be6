package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/literasia/reading-service/internal/models"
	"github.com/literasia/reading-service/internal/repositories"
	"github.com/literasia/reading-service/internal/utils"
)

// ReportService produces teacher-facing progress exports.
type ReportService interface {
	ExportProgressReport(ctx context.Context) ([]byte, error)
}

type reportService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *utils.Validator
}

func NewReportService(repo repositories.Repository, logger *slog.Logger, validator *utils.Validator) ReportService {
	return &reportService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

const progressSheetName = "Progress"

// ExportProgressReport renders one row per (student, touched text) with
// read, quiz and HOTS standing as an xlsx workbook.
func (s *reportService) ExportProgressReport(ctx context.Context) ([]byte, error) {
	students, err := s.repo.User().GetByRole(ctx, models.RoleStudent, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}

	texts, _, err := s.repo.Text().List(ctx, repositories.TextFilters{IncludeArchived: true})
	if err != nil {
		return nil, fmt.Errorf("list texts: %w", err)
	}
	textByID := make(map[uint]*models.Text)
	for _, t := range texts {
		textByID[t.ID] = t
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(progressSheetName)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{
		"Student", "Email", "Text", "Genre",
		"Read", "Quiz Status", "Reading Score", "HOTS Status", "HOTS Score",
		"Last Accessed",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(progressSheetName, cell, header); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	row := 2
	for _, student := range students {
		progressRows, err := s.repo.Progress().GetByUser(ctx, student.ID)
		if err != nil {
			return nil, fmt.Errorf("get progress for student %s: %w", student.ID, err)
		}
		for _, progress := range progressRows {
			title, genre := "unknown", ""
			if text, ok := textByID[progress.TextID]; ok {
				title = text.Title
				genre = string(text.Genre)
			}

			values := []interface{}{
				student.FullName,
				student.Email,
				title,
				genre,
				progress.ReadStatus,
				string(progress.QuizStatus),
				progress.ReadingScore,
				string(progress.HOTSStatus),
				progress.HOTSScore,
				progress.LastAccessed.Format(time.RFC3339),
			}
			for i, value := range values {
				cell, _ := excelize.CoordinatesToCellName(i+1, row)
				if err := f.SetCellValue(progressSheetName, cell, value); err != nil {
					return nil, fmt.Errorf("write row %d: %w", row, err)
				}
			}
			row++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}

	s.logger.Info("Progress report exported", "students", len(students), "rows", row-2)
	return buf.Bytes(), nil
}
