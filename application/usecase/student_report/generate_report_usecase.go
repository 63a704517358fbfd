package student_report

import (
	"context"
	"fmt"

	"github.com/campusdesk/students/application/port/inbound"
	"github.com/campusdesk/students/application/port/outbound"
	"github.com/campusdesk/students/domain"
)

type GenerateReportUseCase struct {
	source   outbound.StudentSource
	renderer outbound.ReportRenderer
}

func NewGenerateReportUseCase(source outbound.StudentSource, renderer outbound.ReportRenderer) inbound.ReportUseCase {
	return &GenerateReportUseCase{
		source:   source,
		renderer: renderer,
	}
}

func (uc *GenerateReportUseCase) GenerateStudentReport(ctx context.Context, id int64) (*inbound.StudentReport, error) {
	if id <= 0 {
		return nil, domain.ErrStudentNotFound
	}

	student, err := uc.source.FetchStudent(ctx, id)
	if err != nil {
		return nil, err
	}

	content, err := uc.renderer.Render(student)
	if err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	return &inbound.StudentReport{
		Filename:    ReportFilename(id),
		ContentType: uc.renderer.ContentType(),
		Content:     content,
	}, nil
}

func ReportFilename(id int64) string {
	return fmt.Sprintf("student_report_%d.pdf", id)
}
