package utils

import (
	"regexp"
	"strings"
)

var (
	emailRegex    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	nonDigitRegex = regexp.MustCompile(`\D`)
)

// NormalizeEmail trims and lower-cases an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeDigits strips every non-digit character
func NormalizeDigits(value string) string {
	return nonDigitRegex.ReplaceAllString(value, "")
}

// ValidateEmail validates a normalized email address
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidateName requires a trimmed length of at least 3
func ValidateName(name string) bool {
	return len(strings.TrimSpace(name)) >= 3
}

// ValidateCPF requires exactly 11 digits after normalization
func ValidateCPF(cpf string) bool {
	return len(cpf) == 11
}

// ValidatePhone requires 10 or 11 digits (DDD plus number) after normalization
func ValidatePhone(phone string) bool {
	return len(phone) >= 10 && len(phone) <= 11
}

// ValidatePassword enforces the credential policy: minimum 8 characters with
// at least one letter and one digit.
func ValidatePassword(password string) bool {
	if len(password) < 8 {
		return false
	}

	hasLetter := false
	hasDigit := false

	for _, char := range password {
		switch {
		case ('a' <= char && char <= 'z') || ('A' <= char && char <= 'Z'):
			hasLetter = true
		case '0' <= char && char <= '9':
			hasDigit = true
		}
	}

	return hasLetter && hasDigit
}
