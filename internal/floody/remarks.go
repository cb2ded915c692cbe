package floody

import (
	"fmt"
	"strings"
)

// Remarks accumulates human-readable lines for one sheet row. Validation
// appends every violated rule so the user sees all problems in one pass.
type Remarks struct {
	lines []string
}

// Addf appends one formatted line.
func (r *Remarks) Addf(format string, args ...interface{}) {
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

// Add appends one line. Blank lines are dropped.
func (r *Remarks) Add(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	r.lines = append(r.lines, line)
}

// Len returns the number of accumulated lines.
func (r *Remarks) Len() int { return len(r.lines) }

// String joins the accumulated lines.
func (r *Remarks) String() string { return strings.Join(r.lines, "\n") }
