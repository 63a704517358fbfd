package validator

import (
	"net/mail"
	"regexp"
	"strings"
	"time"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^\+?[0-9(][0-9 ()-]{5,19}$`)
)

// DateLayouts are the date formats accepted for dob and admissionDate
var DateLayouts = []string{time.RFC3339, "2006-01-02"}

func ValidateEmail(email string) bool {
	if email == "" {
		return false
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}

	return emailRegex.MatchString(strings.ToLower(email))
}

func ValidateRequired(value string) bool {
	return strings.TrimSpace(value) != ""
}

// ValidatePhone accepts an empty value
func ValidatePhone(phone string) bool {
	return phone == "" || phoneRegex.MatchString(phone)
}

// ValidateDate accepts an empty value or one of DateLayouts
func ValidateDate(value string) bool {
	if value == "" {
		return true
	}
	_, ok := ParseDate(value)
	return ok
}

func ParseDate(value string) (time.Time, bool) {
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
