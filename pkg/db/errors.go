package db

import "strings"

// IsUniqueViolation reports whether the provided error references a Postgres
// unique constraint. When constraintName is set, the match is scoped to it.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if constraintName != "" {
		return strings.Contains(msg, constraintName)
	}
	return strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "UNIQUE constraint failed")
}
