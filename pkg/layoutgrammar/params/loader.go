package params

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vrclog/layoutgrammar/internal/safefile"
)

const (
	// MaxFileSize is the maximum size of a parameter file.
	MaxFileSize = 1 * 1024 * 1024 // 1 MB

	// MaxLayoutLength bounds every layout string in a file.
	MaxLayoutLength = 64 * 1024

	// MaxColumns bounds the number of CSV columns and of attributes per JSON
	// object.
	MaxColumns = 1000

	// MaxNesting bounds the depth of nested JSON objects.
	MaxNesting = 32

	// SupportedVersion is the parameter file format version.
	SupportedVersion = 1
)

// Load reads and validates a parameter file.
//
// Example:
//
//	f, err := params.Load("nlog-csv.yaml")
//	if err != nil {
//	    log.Fatalf("failed to load parameter file: %v", err)
//	}
func Load(path string) (*File, error) {
	data, err := safefile.ReadFile(path, MaxFileSize)
	if err != nil {
		return nil, fmt.Errorf("failed to read parameter file: %w", err)
	}
	return LoadBytes(data)
}

// LoadBytes parses and validates a parameter file held in memory.
func LoadBytes(data []byte) (*File, error) {
	if len(data) == 0 {
		return nil, errors.New("parameter file is empty")
	}
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("parameter file too large: %d bytes (max %d)", len(data), MaxFileSize)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks the structure of the file. Layout strings are not parsed
// here; the importer reports their problems as diagnostics.
func (f *File) Validate() error {
	if f.Version != SupportedVersion {
		return &ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("unsupported version %d (only version %d is supported)", f.Version, SupportedVersion),
		}
	}

	switch f.Kind {
	case KindPlain:
		if f.Layout == "" {
			return &ValidationError{Field: "layout", Message: "layout is required for kind plain"}
		}
		if len(f.Layout) > MaxLayoutLength {
			return &ValidationError{Field: "layout", Message: fmt.Sprintf("layout too long: %d bytes (max %d)", len(f.Layout), MaxLayoutLength)}
		}
	case KindCSV:
		if f.CSV == nil {
			return &ValidationError{Field: "csv", Message: "csv section is required for kind csv"}
		}
		return f.CSV.Validate()
	case KindJSON:
		if f.JSON == nil {
			return &ValidationError{Field: "json", Message: "json section is required for kind json"}
		}
		return f.JSON.validate("json", 0)
	default:
		return &ValidationError{
			Field:   "kind",
			Message: fmt.Sprintf("unknown kind %q (expected plain, csv or json)", f.Kind),
		}
	}
	return nil
}

// Validate checks the CSV parameters.
func (p *CSVParams) Validate() error {
	if len(p.Columns) == 0 {
		return &ValidationError{Field: "csv.columns", Message: "at least one column is required"}
	}
	if len(p.Columns) > MaxColumns {
		return &ValidationError{
			Field:   "csv.columns",
			Message: fmt.Sprintf("too many columns (%d), maximum allowed is %d", len(p.Columns), MaxColumns),
		}
	}
	if p.Quoting != QuotingNever && p.Quote == 0 {
		return &ValidationError{Field: "csv.quote", Message: fmt.Sprintf("quote character is required with quoting %s", p.Quoting)}
	}
	for i, c := range p.Columns {
		if len(c.Layout) > MaxLayoutLength {
			return &ParamError{
				Path:    fmt.Sprintf("csv.columns[%d]", i),
				ID:      c.ID,
				Field:   "layout",
				Message: fmt.Sprintf("layout too long: %d bytes (max %d)", len(c.Layout), MaxLayoutLength),
			}
		}
	}
	return nil
}

// Validate checks the JSON parameters, including nested objects.
func (p *JSONParams) Validate() error {
	return p.validate("json", 0)
}

func (p *JSONParams) validate(path string, depth int) error {
	if depth > MaxNesting {
		return &ValidationError{Field: path, Message: fmt.Sprintf("objects nested deeper than %d levels", MaxNesting)}
	}
	if len(p.Attributes) == 0 {
		return &ValidationError{Field: path + ".attributes", Message: "at least one attribute is required"}
	}
	if len(p.Attributes) > MaxColumns {
		return &ValidationError{
			Field:   path + ".attributes",
			Message: fmt.Sprintf("too many attributes (%d), maximum allowed is %d", len(p.Attributes), MaxColumns),
		}
	}

	seen := make(map[string]int, len(p.Attributes))
	for i, a := range p.Attributes {
		attrPath := fmt.Sprintf("%s.attributes[%d]", path, i)
		if a.Name == "" {
			return &ParamError{Path: attrPath, Field: "name", Message: "name is required"}
		}
		if prev, exists := seen[a.Name]; exists {
			return &ParamError{
				Path:    attrPath,
				ID:      a.Name,
				Field:   "name",
				Message: fmt.Sprintf("duplicate name (previously defined at %s.attributes[%d])", path, prev),
			}
		}
		seen[a.Name] = i

		if a.Nested != nil {
			if err := a.Nested.validate(attrPath+".json", depth+1); err != nil {
				return err
			}
			continue
		}
		if len(a.Layout) > MaxLayoutLength {
			return &ParamError{
				Path:    attrPath,
				ID:      a.Name,
				Field:   "layout",
				Message: fmt.Sprintf("layout too long: %d bytes (max %d)", len(a.Layout), MaxLayoutLength),
			}
		}
	}
	return nil
}
