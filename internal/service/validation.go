package service

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"qa-forum-web/internal/domain"
)

const (
	MinUsernameLength = 6
	MinPasswordLength = 8
	MinPasswordDigits = 3
	MaxTitleLength    = 50
)

// ValidationError is a client-side rejection. It is shown inline and the
// request it guards is never sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	passwordCharset = regexp.MustCompile(`^[A-Za-z\d]+$`)
	digit           = regexp.MustCompile(`\d`)
)

// ValidatePassword requires letters and digits only, at least
// MinPasswordLength characters, and at least MinPasswordDigits digits
// anywhere in the string.
func ValidatePassword(password string) bool {
	if len(password) < MinPasswordLength || !passwordCharset.MatchString(password) {
		return false
	}
	return len(digit.FindAllStringIndex(password, -1)) >= MinPasswordDigits
}

// ValidateRegistration checks the password first, then the username.
func ValidateRegistration(reg domain.Registration) error {
	if !ValidatePassword(reg.Password) {
		return &ValidationError{
			Field:   "password",
			Message: "Password must be at least 8 characters long and contain at least 3 numbers.",
		}
	}
	if utf8.RuneCountInString(reg.Username) < MinUsernameLength {
		return &ValidationError{
			Field:   "username",
			Message: "Username must be at least 6 characters long.",
		}
	}
	return nil
}

func validateQuestionInput(in domain.QuestionInput) error {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return &ValidationError{Field: "title", Message: "Title is required."}
	case utf8.RuneCountInString(in.Title) > MaxTitleLength:
		return &ValidationError{Field: "title", Message: "Title must be at most 50 characters long."}
	case in.CategoryID <= 0:
		return &ValidationError{Field: "category_id", Message: "Select a category."}
	case strings.TrimSpace(in.Description) == "":
		return &ValidationError{Field: "description", Message: "Description is required."}
	}
	return nil
}
