package student_management

import (
	"context"
	"strings"

	"github.com/campusdesk/students/application/port/outbound"
	"github.com/campusdesk/students/domain"
)

type SetStudentStatusUseCase struct {
	studentRepo outbound.StudentRepository
}

func NewSetStudentStatusUseCase(studentRepo outbound.StudentRepository) *SetStudentStatusUseCase {
	return &SetStudentStatusUseCase{
		studentRepo: studentRepo,
	}
}

func (uc *SetStudentStatusUseCase) Execute(ctx context.Context, id int64, status string) (*domain.Student, error) {
	if id <= 0 {
		return nil, domain.ErrStudentNotFound
	}

	next := domain.StudentStatus(strings.ToLower(strings.TrimSpace(status)))
	if !next.IsValid() {
		return nil, domain.ErrInvalidStudentStatus
	}

	return uc.studentRepo.UpdateStatus(ctx, id, next)
}
