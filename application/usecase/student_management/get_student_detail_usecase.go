package student_management

import (
	"context"

	"github.com/campusdesk/students/application/port/outbound"
	"github.com/campusdesk/students/domain"
)

type GetStudentDetailUseCase struct {
	studentRepo outbound.StudentRepository
}

func NewGetStudentDetailUseCase(studentRepo outbound.StudentRepository) *GetStudentDetailUseCase {
	return &GetStudentDetailUseCase{
		studentRepo: studentRepo,
	}
}

func (uc *GetStudentDetailUseCase) Execute(ctx context.Context, id int64) (*domain.Student, error) {
	if id <= 0 {
		return nil, domain.ErrStudentNotFound
	}
	return uc.studentRepo.FindByID(ctx, id)
}
