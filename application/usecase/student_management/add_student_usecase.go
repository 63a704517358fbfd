package student_management

import (
	"context"
	"fmt"
	"strings"

	"github.com/campusdesk/students/application/port/inbound"
	"github.com/campusdesk/students/application/port/outbound"
	"github.com/campusdesk/students/domain"
)

const minPasswordLength = 8

type AddStudentUseCase struct {
	studentRepo outbound.StudentRepository
	passwordSvc outbound.PasswordService
}

func NewAddStudentUseCase(
	studentRepo outbound.StudentRepository,
	passwordSvc outbound.PasswordService,
) *AddStudentUseCase {
	return &AddStudentUseCase{
		studentRepo: studentRepo,
		passwordSvc: passwordSvc,
	}
}

func (uc *AddStudentUseCase) Execute(ctx context.Context, req inbound.CreateStudentRequest) (*domain.Student, error) {
	student := domain.NewStudent(req.Name, req.Email)
	student.SystemAccess = req.SystemAccess
	student.Phone = req.Phone
	student.Gender = req.Gender
	student.Dob = req.Dob
	student.Class = req.Class
	student.Section = req.Section
	student.Roll = req.Roll
	student.FatherName = req.FatherName
	student.FatherPhone = req.FatherPhone
	student.MotherName = req.MotherName
	student.MotherPhone = req.MotherPhone
	student.GuardianName = req.GuardianName
	student.GuardianPhone = req.GuardianPhone
	student.RelationOfGuardian = req.RelationOfGuardian
	student.CurrentAddress = req.CurrentAddress
	student.PermanentAddress = req.PermanentAddress
	student.AdmissionDate = req.AdmissionDate
	student.ReporterName = req.ReporterName

	if err := student.Validate(); err != nil {
		return nil, err
	}

	if student.SystemAccess {
		if err := validatePassword(req.Password); err != nil {
			return nil, err
		}
	}

	exists, err := uc.studentRepo.ExistsByEmail(ctx, student.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, domain.ErrEmailAlreadyExists
	}

	if student.SystemAccess {
		hash, err := uc.passwordSvc.HashPassword(req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		student.PasswordHash = hash
	}

	if err := uc.studentRepo.Create(ctx, student); err != nil {
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	return student, nil
}

func validatePassword(password string) error {
	if strings.TrimSpace(password) == "" {
		return domain.ErrPasswordRequired
	}
	if len(password) < minPasswordLength {
		return domain.ErrPasswordTooShort
	}
	return nil
}
