package domain

import (
	"net/mail"
	"strings"
	"time"
)

// StudentStatus represents the enrolment status of a student
type StudentStatus string

const (
	StudentStatusActive    StudentStatus = "active"
	StudentStatusInactive  StudentStatus = "inactive"
	StudentStatusGraduated StudentStatus = "graduated"
	StudentStatusSuspended StudentStatus = "suspended"
)

// IsValid reports whether s is a known status
func (s StudentStatus) IsValid() bool {
	switch s {
	case StudentStatusActive, StudentStatusInactive, StudentStatusGraduated, StudentStatusSuspended:
		return true
	}
	return false
}

// Student represents an enrolled student and their guardian/contact details
type Student struct {
	ID                 int64         `json:"id"`
	Name               string        `json:"name"`
	Email              string        `json:"email"`
	SystemAccess       bool          `json:"systemAccess"`
	PasswordHash       string        `json:"-"`
	Phone              string        `json:"phone"`
	Gender             string        `json:"gender"`
	Dob                string        `json:"dob"`
	Class              string        `json:"class"`
	Section            string        `json:"section"`
	Roll               int           `json:"roll"`
	FatherName         string        `json:"fatherName"`
	FatherPhone        string        `json:"fatherPhone"`
	MotherName         string        `json:"motherName"`
	MotherPhone        string        `json:"motherPhone"`
	GuardianName       string        `json:"guardianName"`
	GuardianPhone      string        `json:"guardianPhone"`
	RelationOfGuardian string        `json:"relationOfGuardian"`
	CurrentAddress     string        `json:"currentAddress"`
	PermanentAddress   string        `json:"permanentAddress"`
	AdmissionDate      string        `json:"admissionDate"`
	ReporterName       string        `json:"reporterName"`
	Status             StudentStatus `json:"status"`
	CreatedAt          time.Time     `json:"createdAt"`
	UpdatedAt          time.Time     `json:"updatedAt"`
}

// NewStudent creates a new active student. The ID is assigned by the repository.
func NewStudent(name, email string) *Student {
	now := time.Now().UTC()
	return &Student{
		Name:      strings.TrimSpace(name),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Status:    StudentStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks the invariants every persisted student must satisfy
func (s *Student) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrStudentNameRequired
	}
	if addr, err := mail.ParseAddress(s.Email); err != nil || addr.Address != s.Email {
		return ErrInvalidStudentEmail
	}
	if s.Roll < 0 {
		return ErrInvalidRoll
	}
	if !s.Status.IsValid() {
		return ErrInvalidStudentStatus
	}
	return nil
}

// SetStatus moves the student to a new status
func (s *Student) SetStatus(status StudentStatus) error {
	if !status.IsValid() {
		return ErrInvalidStudentStatus
	}
	s.Status = status
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// StudentFilter represents filters for listing students
type StudentFilter struct {
	Name    string         `json:"name,omitempty"`
	Class   string         `json:"class,omitempty"`
	Section string         `json:"section,omitempty"`
	Roll    *int           `json:"roll,omitempty"`
	Status  *StudentStatus `json:"status,omitempty"`
	Limit   int            `json:"limit"`
	Offset  int            `json:"offset"`
}

var (
	ErrStudentNotFound      = NewDomainError("student not found")
	ErrStudentNameRequired  = NewDomainError("student name is required")
	ErrInvalidStudentEmail  = NewDomainError("invalid student email")
	ErrInvalidStudentStatus = NewDomainError("invalid student status")
	ErrInvalidRoll          = NewDomainError("roll must not be negative")
	ErrPasswordRequired     = NewDomainError("password is required when system access is enabled")
	ErrPasswordTooShort     = NewDomainError("password must be at least 8 characters")
	ErrEmailAlreadyExists   = NewDomainError("email already exists")
)

// DomainError represents a domain rule violation
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}
