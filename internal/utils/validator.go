package utils

import (
	"regexp"
	"strings"
)

var (
	documentRegex   = regexp.MustCompile(`^[0-9]{8,12}$`)
	personNameRegex = regexp.MustCompile(`^[A-Za-zÁÉÍÓÚáéíóúÑñ ]+$`)
	identifierRegex = regexp.MustCompile(`^[A-Za-z0-9@._+\-]{5,64}$`)
)

// ValidateDocument validates a national ID document: 8 to 12 digits
func ValidateDocument(document string) bool {
	return documentRegex.MatchString(document)
}

// ValidatePersonName accepts Latin letters, including accented vowels and ñ, and spaces
func ValidatePersonName(name string) bool {
	return personNameRegex.MatchString(name)
}

// ValidateIdentifier validates an email, phone or document used to find an account
func ValidateIdentifier(identifier string) bool {
	return identifierRegex.MatchString(identifier)
}

// SanitizeEmail sanitizes an email address
func SanitizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
