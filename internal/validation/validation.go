package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidationError represents a validation error on a single input field
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidateRequired checks that a field is non-empty after trimming
func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return ValidationError{Field: field, Message: field + " is required"}
	}
	return nil
}

// ValidatePasswords checks that a password is present and matches its confirmation
func ValidatePasswords(password, confirm string) error {
	if password == "" {
		return ValidationError{Field: "password", Message: "password is required"}
	}
	if confirm == "" {
		return ValidationError{Field: "confirmPassword", Message: "confirmPassword is required"}
	}
	if password != confirm {
		return ValidationError{Field: "confirmPassword", Message: "passwords do not match"}
	}
	return nil
}

// ValidateName checks if a profile name is valid
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	if len(name) < 2 {
		return ValidationError{Field: "name", Message: "name must be at least 2 characters"}
	}
	return nil
}

// ValidateAge checks if a profile age is plausible
func ValidateAge(age int) error {
	if age <= 0 {
		return ValidationError{Field: "age", Message: "age must be greater than zero"}
	}
	if age > 120 {
		return ValidationError{Field: "age", Message: "age is out of range"}
	}
	return nil
}
