package validator

import (
	"testing"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"jane@example.com", true},
		{"jane.doe+class8@school.edu", true},
		{"", false},
		{"jane", false},
		{"jane@localhost", false},
		{"Jane <jane@example.com>", false},
	}

	for _, tt := range tests {
		if got := ValidateEmail(tt.email); got != tt.want {
			t.Errorf("ValidateEmail(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}

func TestValidatePhone(t *testing.T) {
	for _, phone := range []string{"", "+62 812-3456-7890", "(021) 555 0101"} {
		if !ValidatePhone(phone) {
			t.Errorf("Expected %q to be valid", phone)
		}
	}
	for _, phone := range []string{"call me", "12", "+"} {
		if ValidatePhone(phone) {
			t.Errorf("Expected %q to be invalid", phone)
		}
	}
}

func TestValidateDate(t *testing.T) {
	for _, value := range []string{"", "2010-05-17", "2010-05-17T00:00:00Z"} {
		if !ValidateDate(value) {
			t.Errorf("Expected %q to be valid", value)
		}
	}
	for _, value := range []string{"17/05/2010", "2010-13-01", "yesterday"} {
		if ValidateDate(value) {
			t.Errorf("Expected %q to be invalid", value)
		}
	}
}

func TestValidateRequired(t *testing.T) {
	if ValidateRequired("   ") {
		t.Error("Whitespace should not satisfy required")
	}
	if !ValidateRequired("x") {
		t.Error("Non-empty value should satisfy required")
	}
}
