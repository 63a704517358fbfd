package inbound

import "context"

// StudentReport is a rendered report ready to be served as a download
type StudentReport struct {
	Filename    string
	ContentType string
	Content     []byte
}

type ReportUseCase interface {
	GenerateStudentReport(ctx context.Context, id int64) (*StudentReport, error)
}
