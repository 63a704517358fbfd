package student_management

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/campusdesk/students/application/port/inbound"
	"github.com/campusdesk/students/application/port/outbound"
	"github.com/campusdesk/students/domain"
)

type UpdateStudentUseCase struct {
	studentRepo outbound.StudentRepository
	passwordSvc outbound.PasswordService
}

func NewUpdateStudentUseCase(
	studentRepo outbound.StudentRepository,
	passwordSvc outbound.PasswordService,
) *UpdateStudentUseCase {
	return &UpdateStudentUseCase{
		studentRepo: studentRepo,
		passwordSvc: passwordSvc,
	}
}

func (uc *UpdateStudentUseCase) Execute(ctx context.Context, id int64, req inbound.UpdateStudentRequest) (*domain.Student, error) {
	if id <= 0 {
		return nil, domain.ErrStudentNotFound
	}

	student, err := uc.studentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	emailChanged := false
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		emailChanged = email != student.Email
		student.Email = email
	}
	if req.Name != nil {
		student.Name = strings.TrimSpace(*req.Name)
	}
	applyString(&student.Phone, req.Phone)
	applyString(&student.Gender, req.Gender)
	applyString(&student.Dob, req.Dob)
	applyString(&student.Class, req.Class)
	applyString(&student.Section, req.Section)
	applyString(&student.FatherName, req.FatherName)
	applyString(&student.FatherPhone, req.FatherPhone)
	applyString(&student.MotherName, req.MotherName)
	applyString(&student.MotherPhone, req.MotherPhone)
	applyString(&student.GuardianName, req.GuardianName)
	applyString(&student.GuardianPhone, req.GuardianPhone)
	applyString(&student.RelationOfGuardian, req.RelationOfGuardian)
	applyString(&student.CurrentAddress, req.CurrentAddress)
	applyString(&student.PermanentAddress, req.PermanentAddress)
	applyString(&student.AdmissionDate, req.AdmissionDate)
	applyString(&student.ReporterName, req.ReporterName)
	if req.Roll != nil {
		student.Roll = *req.Roll
	}
	if req.SystemAccess != nil {
		student.SystemAccess = *req.SystemAccess
	}

	if err := student.Validate(); err != nil {
		return nil, err
	}

	switch {
	case !student.SystemAccess:
		student.PasswordHash = ""
	case req.Password != nil:
		if err := validatePassword(*req.Password); err != nil {
			return nil, err
		}
	case student.PasswordHash == "":
		return nil, domain.ErrPasswordRequired
	}

	if emailChanged {
		exists, err := uc.studentRepo.ExistsByEmail(ctx, student.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to check email existence: %w", err)
		}
		if exists {
			return nil, domain.ErrEmailAlreadyExists
		}
	}

	if student.SystemAccess && req.Password != nil {
		hash, err := uc.passwordSvc.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		student.PasswordHash = hash
	}

	student.UpdatedAt = time.Now().UTC()
	if err := uc.studentRepo.Update(ctx, student); err != nil {
		return nil, fmt.Errorf("failed to update student: %w", err)
	}

	return student, nil
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
