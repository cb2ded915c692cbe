package logger

import "strings"

// RedactEmail masks an email address for safe logging. The first two
// characters of the local part survive ("john.doe@example.com" becomes
// "jo***@example.com"); shorter local parts are masked entirely.
func RedactEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return "***@***"
	}
	local := parts[0]
	if len(local) > 2 {
		return local[:2] + "***@" + parts[1]
	}
	return "***@" + parts[1]
}
