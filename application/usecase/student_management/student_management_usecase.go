package student_management

import (
	"context"

	"github.com/campusdesk/students/application/port/inbound"
	"github.com/campusdesk/students/application/port/outbound"
	"github.com/campusdesk/students/domain"
)

type StudentManagementUseCaseImpl struct {
	addStudentUseCase       *AddStudentUseCase
	updateStudentUseCase    *UpdateStudentUseCase
	getStudentDetailUseCase *GetStudentDetailUseCase
	listStudentsUseCase     *ListStudentsUseCase
	setStudentStatusUseCase *SetStudentStatusUseCase
}

func NewStudentManagementUseCase(
	studentRepo outbound.StudentRepository,
	passwordSvc outbound.PasswordService,
) inbound.StudentUseCase {
	return &StudentManagementUseCaseImpl{
		addStudentUseCase:       NewAddStudentUseCase(studentRepo, passwordSvc),
		updateStudentUseCase:    NewUpdateStudentUseCase(studentRepo, passwordSvc),
		getStudentDetailUseCase: NewGetStudentDetailUseCase(studentRepo),
		listStudentsUseCase:     NewListStudentsUseCase(studentRepo),
		setStudentStatusUseCase: NewSetStudentStatusUseCase(studentRepo),
	}
}

func (uc *StudentManagementUseCaseImpl) ListStudents(ctx context.Context, req inbound.ListStudentsRequest) (*inbound.ListStudentsResponse, error) {
	return uc.listStudentsUseCase.Execute(ctx, req)
}

func (uc *StudentManagementUseCaseImpl) AddStudent(ctx context.Context, req inbound.CreateStudentRequest) (*domain.Student, error) {
	return uc.addStudentUseCase.Execute(ctx, req)
}

func (uc *StudentManagementUseCaseImpl) UpdateStudent(ctx context.Context, id int64, req inbound.UpdateStudentRequest) (*domain.Student, error) {
	return uc.updateStudentUseCase.Execute(ctx, id, req)
}

func (uc *StudentManagementUseCaseImpl) GetStudentDetail(ctx context.Context, id int64) (*domain.Student, error) {
	return uc.getStudentDetailUseCase.Execute(ctx, id)
}

func (uc *StudentManagementUseCaseImpl) SetStudentStatus(ctx context.Context, id int64, status string) (*domain.Student, error) {
	return uc.setStudentStatusUseCase.Execute(ctx, id, status)
}
