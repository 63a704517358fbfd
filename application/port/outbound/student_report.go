package outbound

import (
	"context"
	"errors"

	"github.com/campusdesk/students/domain"
)

// ErrStudentSourceUnavailable is returned when the student API cannot be reached
// or answers with anything other than the student or a 404.
var ErrStudentSourceUnavailable = errors.New("student source unavailable")

// StudentSource fetches a single student from the student API.
// A missing student is reported as domain.ErrStudentNotFound.
type StudentSource interface {
	FetchStudent(ctx context.Context, id int64) (*domain.Student, error)
}

// ReportRenderer renders a student into a printable document
type ReportRenderer interface {
	Render(student *domain.Student) ([]byte, error)
	ContentType() string
}
