package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ValidationError is a config validation failure with enough context to
// point the user at the offending spot: a file position for syntax errors,
// a field path for schema errors.
type ValidationError struct {
	FilePath string
	Line     int
	Column   int
	Field    string
	Message  string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Line > 0:
		return fmt.Sprintf("%s:%d:%d: %s", e.FilePath, e.Line, e.Column, e.Message)
	case e.Field != "":
		return fmt.Sprintf("%s: field '%s': %s", e.FilePath, e.Field, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
	}
}

// ValidateYAMLSyntax parses the file as YAML without binding it to the
// schema, so malformed input fails with a line/column position before koanf
// ever sees it. An empty file is valid; it just means all defaults.
func ValidateYAMLSyntax(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return &ValidationError{FilePath: filePath, Message: err.Error()}
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		var typeErr *yaml.TypeError
		if errors.As(err, &typeErr) {
			return &ValidationError{
				FilePath: filePath,
				Message:  strings.Join(typeErr.Errors, "; "),
			}
		}
		line, column := yamlErrorPosition(err.Error())
		return &ValidationError{
			FilePath: filePath,
			Line:     line,
			Column:   column,
			Message:  stripYAMLPrefix(err.Error()),
		}
	}
	return nil
}

// ValidateSchema checks the merged raw config against its struct tags.
// Group entries missing a title or labels are the common failure here.
func ValidateSchema(s *schema, filePath string) error {
	if filePath == "" {
		filePath = "config"
	}

	err := validator.New().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{FilePath: filePath, Message: err.Error()}
	}

	first := fieldErrs[0]
	msg := describeFieldError(first)
	if len(fieldErrs) > 1 {
		msg = fmt.Sprintf("%s (and %d more problems)", msg, len(fieldErrs)-1)
	}
	return &ValidationError{
		FilePath: filePath,
		Field:    fieldKey(first),
		Message:  msg,
	}
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must have at least %s entries", fe.Param())
	default:
		return fmt.Sprintf("failed validation: %s", fe.Tag())
	}
}

// fieldKey converts a validator field name to the snake_case key the user
// actually wrote in the config file.
func fieldKey(fe validator.FieldError) string {
	var sb strings.Builder
	for i, r := range fe.Field() {
		if i > 0 && r >= 'A' && r <= 'Z' {
			sb.WriteByte('_')
		}
		sb.WriteRune(r)
	}
	return strings.ToLower(sb.String())
}

// yamlErrorPosition extracts line/column from a yaml.v3 error message, which
// looks like "yaml: line 5: could not find expected ':'".
func yamlErrorPosition(msg string) (line, column int) {
	var l, c int
	if n, _ := fmt.Sscanf(msg, "yaml: line %d: column %d:", &l, &c); n == 2 {
		return l, c
	}
	if n, _ := fmt.Sscanf(msg, "yaml: line %d:", &l); n == 1 {
		return l, 1
	}
	return 0, 0
}

func stripYAMLPrefix(msg string) string {
	if strings.HasPrefix(msg, "yaml:") {
		if idx := strings.LastIndex(msg, ": "); idx > 0 {
			return msg[idx+2:]
		}
	}
	return msg
}
