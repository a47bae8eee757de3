package consumption

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrFormat matches every FormatError.
	ErrFormat = errors.New("consumption: unsupported table format")
	// ErrSchema matches every SchemaError.
	ErrSchema = errors.New("consumption: schema mismatch")
	// ErrMissingFile matches every MissingFileError.
	ErrMissingFile = errors.New("consumption: missing file")
	// ErrEmptyPath is returned when a request carries no input path.
	ErrEmptyPath = errors.New("consumption: empty path")
)

// FormatError is returned when a table cannot be parsed by any supported reader.
type FormatError struct {
	Path   string
	Causes []error
}

func (e *FormatError) Error() string {
	if len(e.Causes) == 0 {
		return fmt.Sprintf("consumption: cannot parse %s", e.Path)
	}
	msgs := make([]string, 0, len(e.Causes))
	for _, cause := range e.Causes {
		msgs = append(msgs, cause.Error())
	}
	return fmt.Sprintf("consumption: cannot parse %s: %s", e.Path, strings.Join(msgs, "; "))
}

func (e *FormatError) Unwrap() []error { return e.Causes }

// Is makes errors.Is(err, ErrFormat) hold.
func (e *FormatError) Is(target error) bool { return target == ErrFormat }

// SchemaError reports required columns that are absent, or a column whose values
// cannot be interpreted.
type SchemaError struct {
	Source  string
	Missing []string
	Detail  string
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("consumption: schema error")
	if e.Source != "" {
		b.WriteString(" in ")
		b.WriteString(e.Source)
	}
	if len(e.Missing) > 0 {
		b.WriteString(": missing columns: ")
		b.WriteString(strings.Join(e.Missing, ", "))
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

// Is makes errors.Is(err, ErrSchema) hold.
func (e *SchemaError) Is(target error) bool { return target == ErrSchema }

// MissingFileError is returned when a referenced file does not exist.
type MissingFileError struct {
	Path string
	Err  error
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("consumption: file not found: %s", e.Path)
}

func (e *MissingFileError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrMissingFile) hold.
func (e *MissingFileError) Is(target error) bool { return target == ErrMissingFile }
