package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactEmail(t *testing.T) {
	assert.Equal(t, "jo***@example.com", RedactEmail("john.doe@example.com"))
	assert.Equal(t, "***@example.com", RedactEmail("ab@example.com"))
	assert.Equal(t, "***@***", RedactEmail("not-an-email"))
}

func TestRedactValueByFieldName(t *testing.T) {
	assert.Equal(t, "jo***@example.com", redactValue("requester_email", "john.doe@example.com"))
	assert.Equal(t, "jo***@example.com", redactValue("authorizer", "john.doe@example.com"))
	assert.Equal(t, "approved by jo***@example.com", redactValue("msg_detail", "approved by john.doe@example.com"))
	assert.Equal(t, "sheet-1", redactValue("spreadsheet_id", "sheet-1"))
}
