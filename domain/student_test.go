package domain

import (
	"testing"
)

func TestNewStudent(t *testing.T) {
	student := NewStudent("  Jane Doe ", " Jane@Example.COM ")

	if student.Name != "Jane Doe" {
		t.Errorf("Expected name %q, got %q", "Jane Doe", student.Name)
	}

	if student.Email != "jane@example.com" {
		t.Errorf("Expected email %q, got %q", "jane@example.com", student.Email)
	}

	if student.Status != StudentStatusActive {
		t.Errorf("Expected status %s, got %s", StudentStatusActive, student.Status)
	}

	if student.CreatedAt.IsZero() || !student.CreatedAt.Equal(student.UpdatedAt) {
		t.Errorf("Expected matching non-zero timestamps, got %v / %v", student.CreatedAt, student.UpdatedAt)
	}

	if err := student.Validate(); err != nil {
		t.Errorf("Unexpected validation error: %v", err)
	}
}

func TestStudent_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *Student)
		wantErr error
	}{
		{"valid", func(s *Student) {}, nil},
		{"missing name", func(s *Student) { s.Name = "   " }, ErrStudentNameRequired},
		{"invalid email", func(s *Student) { s.Email = "not-an-email" }, ErrInvalidStudentEmail},
		{"display name email", func(s *Student) { s.Email = "Jane <jane@example.com>" }, ErrInvalidStudentEmail},
		{"negative roll", func(s *Student) { s.Roll = -1 }, ErrInvalidRoll},
		{"unknown status", func(s *Student) { s.Status = "expelled" }, ErrInvalidStudentStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			student := NewStudent("Jane Doe", "jane@example.com")
			tt.mutate(student)

			err := student.Validate()
			if err != tt.wantErr {
				t.Errorf("Expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestStudent_SetStatus(t *testing.T) {
	student := NewStudent("Jane Doe", "jane@example.com")
	before := student.UpdatedAt

	if err := student.SetStatus(StudentStatusGraduated); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if student.Status != StudentStatusGraduated {
		t.Errorf("Expected status %s, got %s", StudentStatusGraduated, student.Status)
	}

	if student.UpdatedAt.Before(before) {
		t.Error("Expected UpdatedAt to move forward")
	}
}

func TestStudent_SetInvalidStatus(t *testing.T) {
	student := NewStudent("Jane Doe", "jane@example.com")

	err := student.SetStatus("unknown")
	if err != ErrInvalidStudentStatus {
		t.Errorf("Expected ErrInvalidStudentStatus, got %v", err)
	}

	if student.Status != StudentStatusActive {
		t.Errorf("Status should be unchanged, got %s", student.Status)
	}
}
