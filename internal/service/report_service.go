package service

import (
	"context"
	"fmt"
	"io"

	"github.com/contoso/university/internal/model"
	"github.com/contoso/university/internal/repository"
	"github.com/xuri/excelize/v2"
)

const enrollmentSheet = "Enrollment"

// ReportService serves the read-only statistics shown on the About page.
type ReportService struct {
	reportRepo repository.ReportRepository
}

// NewReportService creates a new ReportService.
func NewReportService(reportRepo repository.ReportRepository) *ReportService {
	return &ReportService{reportRepo: reportRepo}
}

// EnrollmentByDate returns the number of students per enrollment date.
func (s *ReportService) EnrollmentByDate(ctx context.Context) ([]model.EnrollmentDateGroup, error) {
	return s.reportRepo.EnrollmentDateGroups(ctx)
}

// ExportEnrollment writes the enrollment report as an xlsx workbook to w.
func (s *ReportService) ExportEnrollment(ctx context.Context, w io.Writer) error {
	groups, err := s.reportRepo.EnrollmentDateGroups(ctx)
	if err != nil {
		return err
	}

	f, err := buildEnrollmentWorkbook(groups)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func buildEnrollmentWorkbook(groups []model.EnrollmentDateGroup) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), enrollmentSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header := []interface{}{"Enrollment Date", "Students"}
	if err := f.SetSheetRow(enrollmentSheet, "A1", &header); err != nil {
		f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, g := range groups {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		var date interface{} = ""
		if g.EnrollmentDate != nil {
			date = g.EnrollmentDate.Format("2006-01-02")
		}
		row := []interface{}{date, g.StudentCount}
		if err := f.SetSheetRow(enrollmentSheet, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	_ = f.SetColWidth(enrollmentSheet, "A", "A", 18)
	return f, nil
}
