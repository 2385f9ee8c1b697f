package reference

import (
	"fmt"
	"strings"
)

// SchemaError reports a reference file whose layout does not provide the
// expected index column, or whose column holds a non-integer value.
type SchemaError struct {
	Path   string
	Column string
	Header []string // set when the column is missing
	Row    int      // 1-based CSV line, 0 for header problems
	Reason string
	Err    error
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("reference")
	if e.Path != "" {
		b.WriteString(" " + e.Path)
	}
	if e.Row > 0 {
		fmt.Fprintf(&b, " row %d", e.Row)
	}
	fmt.Fprintf(&b, ": column %q: %s", e.Column, e.Reason)
	if e.Header != nil {
		fmt.Fprintf(&b, " (header: %s)", strings.Join(e.Header, ", "))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *SchemaError) Unwrap() error { return e.Err }

// FileAccessError reports a reference file that cannot be opened.
type FileAccessError struct {
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("open reference %s: %v", e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error { return e.Err }
