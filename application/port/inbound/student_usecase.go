package inbound

import (
	"context"

	"github.com/campusdesk/students/domain"
)

// Create Student
type CreateStudentRequest struct {
	Name               string `json:"name"`
	Email              string `json:"email"`
	SystemAccess       bool   `json:"systemAccess"`
	Password           string `json:"password,omitempty"`
	Phone              string `json:"phone"`
	Gender             string `json:"gender"`
	Dob                string `json:"dob"`
	Class              string `json:"class"`
	Section            string `json:"section"`
	Roll               int    `json:"roll"`
	FatherName         string `json:"fatherName"`
	FatherPhone        string `json:"fatherPhone"`
	MotherName         string `json:"motherName"`
	MotherPhone        string `json:"motherPhone"`
	GuardianName       string `json:"guardianName"`
	GuardianPhone      string `json:"guardianPhone"`
	RelationOfGuardian string `json:"relationOfGuardian"`
	CurrentAddress     string `json:"currentAddress"`
	PermanentAddress   string `json:"permanentAddress"`
	AdmissionDate      string `json:"admissionDate"`
	ReporterName       string `json:"reporterName"`
}

// Update Student. Nil fields are left unchanged.
type UpdateStudentRequest struct {
	Name               *string `json:"name,omitempty"`
	Email              *string `json:"email,omitempty"`
	SystemAccess       *bool   `json:"systemAccess,omitempty"`
	Password           *string `json:"password,omitempty"`
	Phone              *string `json:"phone,omitempty"`
	Gender             *string `json:"gender,omitempty"`
	Dob                *string `json:"dob,omitempty"`
	Class              *string `json:"class,omitempty"`
	Section            *string `json:"section,omitempty"`
	Roll               *int    `json:"roll,omitempty"`
	FatherName         *string `json:"fatherName,omitempty"`
	FatherPhone        *string `json:"fatherPhone,omitempty"`
	MotherName         *string `json:"motherName,omitempty"`
	MotherPhone        *string `json:"motherPhone,omitempty"`
	GuardianName       *string `json:"guardianName,omitempty"`
	GuardianPhone      *string `json:"guardianPhone,omitempty"`
	RelationOfGuardian *string `json:"relationOfGuardian,omitempty"`
	CurrentAddress     *string `json:"currentAddress,omitempty"`
	PermanentAddress   *string `json:"permanentAddress,omitempty"`
	AdmissionDate      *string `json:"admissionDate,omitempty"`
	ReporterName       *string `json:"reporterName,omitempty"`
}

// List Students
type ListStudentsRequest struct {
	Name    string `json:"name,omitempty"`
	Class   string `json:"class,omitempty"`
	Section string `json:"section,omitempty"`
	Roll    *int   `json:"roll,omitempty"`
	Status  string `json:"status,omitempty"`
	Page    int    `json:"page"`
	Limit   int    `json:"limit"`
}

type ListStudentsResponse struct {
	Students   []*domain.Student `json:"students"`
	Pagination PaginationInfo    `json:"pagination"`
}

type PaginationInfo struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// StudentUseCase is the application boundary the HTTP handlers depend on.
type StudentUseCase interface {
	ListStudents(ctx context.Context, req ListStudentsRequest) (*ListStudentsResponse, error)
	AddStudent(ctx context.Context, req CreateStudentRequest) (*domain.Student, error)
	UpdateStudent(ctx context.Context, id int64, req UpdateStudentRequest) (*domain.Student, error)
	GetStudentDetail(ctx context.Context, id int64) (*domain.Student, error)
	SetStudentStatus(ctx context.Context, id int64, status string) (*domain.Student, error)
}
