package domain

import "strings"

// PurposeAuth is the only token purpose this service issues or accepts.
const PurposeAuth = "auth"

// MaxPasswordBytes is bcrypt's input limit. Longer passwords are refused
// rather than silently truncated.
const MaxPasswordBytes = 72

type User struct {
	ID           string
	Email        string
	PasswordHash string
}

type SessionToken struct {
	Purpose string
	Token   string
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
