// Package logger emits structured JSON log lines. Values of fields that
// look like email addresses are redacted before they are written, since
// requester and approver identities flow through most log calls.
package logger

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"
)

// Level represents the severity of a log entry.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

var levelNames = map[Level]string{
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
}

// Logger writes JSON entries to stderr.
type Logger struct {
	level     Level
	mu        sync.Mutex
	redactPII bool
}

var std = &Logger{level: INFO, redactPII: true}

// SetLevel sets the minimum level the default logger emits.
func SetLevel(l Level) { std.level = l }

// SetRedactPII toggles email redaction on the default logger.
func SetRedactPII(r bool) { std.redactPII = r }

// Debug emits a DEBUG entry with alternating key/value fields.
func Debug(msg string, fields ...interface{}) { std.log(DEBUG, msg, fields...) }

// Info emits an INFO entry.
func Info(msg string, fields ...interface{}) { std.log(INFO, msg, fields...) }

// Warn emits a WARN entry.
func Warn(msg string, fields ...interface{}) { std.log(WARN, msg, fields...) }

// Error emits an ERROR entry.
func Error(msg string, fields ...interface{}) { std.log(ERROR, msg, fields...) }

func (l *Logger) log(level Level, msg string, fields ...interface{}) {
	if level < l.level {
		return
	}

	entry := map[string]interface{}{
		"time":  time.Now().UTC().Format(time.RFC3339),
		"level": levelNames[level],
		"msg":   msg,
	}
	for i := 0; i+1 < len(fields); i += 2 {
		key := fmt.Sprintf("%v", fields[i])
		val := fmt.Sprintf("%v", fields[i+1])
		if l.redactPII {
			val = redactValue(key, val)
		}
		entry[key] = val
	}

	line, _ := json.Marshal(entry)
	l.mu.Lock()
	fmt.Fprintln(os.Stderr, string(line))
	l.mu.Unlock()
}

var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

func redactValue(key, val string) string {
	k := strings.ToLower(key)
	if strings.Contains(k, "email") || strings.Contains(k, "requester") || strings.Contains(k, "authorizer") {
		return RedactEmail(val)
	}
	return emailPattern.ReplaceAllStringFunc(val, RedactEmail)
}
