package params

import "fmt"

// ValidationError is a schema-level problem with a parameter file, such as
// an unsupported version or a missing section.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// ParamError is a problem with one CSV column or JSON attribute.
type ParamError struct {
	Path    string // e.g. "csv.columns[1]" or "json.attributes[0].json.attributes[2]"
	ID      string // column id or attribute name, may be empty
	Field   string
	Message string
	Cause   error
}

func (e *ParamError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s (%q): %s: %s", e.Path, e.ID, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Path, e.Field, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *ParamError) Unwrap() error {
	return e.Cause
}
