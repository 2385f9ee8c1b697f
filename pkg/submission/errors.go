package submission

import "fmt"

// ParseError reports a line that could not be decoded into a record.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("parse submission line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("parse %s line %d: %v", e.Path, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// MissingIndexError reports a record without the "index" key.
type MissingIndexError struct {
	Path string
	Line int
}

func (e *MissingIndexError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("submission line %d: record has no %q field", e.Line, IndexKey)
	}
	return fmt.Sprintf("%s line %d: record has no %q field", e.Path, e.Line, IndexKey)
}

// FileAccessError reports a submission file that cannot be opened.
type FileAccessError struct {
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("open submission %s: %v", e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error { return e.Err }
