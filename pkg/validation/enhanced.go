// Package validation checks flowchart snapshots with go-playground/validator
// before they are stored or restored.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/flowgraph/flowsave/internal/core/snapshot"
)

const (
	maxVarKeyLength    = 128
	maxBlockNameLength = 256
)

var (
	// Validate is the shared validator instance
	Validate *validator.Validate

	varKeyPattern = regexp.MustCompile(`^[^\s\x00-\x1f\x7f]+$`)
)

func init() {
	Validate = validator.New()

	Validate.RegisterValidation("var_key", validateVarKey)
	Validate.RegisterValidation("block_name", validateBlockName)

	// Report JSON field names
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
}

// ValidateWithPlayground validates using go-playground/validator
func ValidateWithPlayground(s interface{}) error {
	err := Validate.Struct(s)
	if err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

// ValidateSnapshot runs the tag rules over a flowchart snapshot, then the
// snapshot's own structural checks (key uniqueness and cursors).
func ValidateSnapshot(snap *snapshot.Flowchart) error {
	if snap == nil {
		return ValidationErrors{{Field: "flowchart", Message: "field is required"}}
	}
	if err := ValidateWithPlayground(snap); err != nil {
		return err
	}
	if err := snap.Validate(); err != nil {
		return fmt.Errorf("flowchart %q: %w", snap.FlowchartName, err)
	}
	return nil
}

func formatValidationErrors(err error) error {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}

	out := make(ValidationErrors, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		out = append(out, ValidationError{
			Field:   fieldPath(fe.Namespace()),
			Value:   fe.Value(),
			Message: getErrorMessage(fe),
		})
	}
	return out
}

// fieldPath drops the root type name: "Flowchart.vars.ints[0].key" becomes
// "vars.ints[0].key".
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

func getErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	case "min":
		return fmt.Sprintf("minimum value/length is %s", fe.Param())
	case "max":
		return fmt.Sprintf("maximum value/length is %s", fe.Param())
	case "var_key":
		return fmt.Sprintf("must be a variable key without whitespace, at most %d characters", maxVarKeyLength)
	case "block_name":
		return fmt.Sprintf("must be a block name without control characters or surrounding spaces, at most %d characters", maxBlockNameLength)
	default:
		return fmt.Sprintf("validation failed: %s", fe.Tag())
	}
}

func validateVarKey(fl validator.FieldLevel) bool {
	key := fl.Field().String()
	return varKeyPattern.MatchString(key) && utf8.RuneCountInString(key) <= maxVarKeyLength
}

// Block names may contain inner spaces ("New Block").
func validateBlockName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if name == "" || strings.TrimSpace(name) != name {
		return false
	}
	if utf8.RuneCountInString(name) > maxBlockNameLength {
		return false
	}
	return strings.IndexFunc(name, unicode.IsControl) < 0
}

// ValidationConfig holds validation configuration
type ValidationConfig struct {
	MaxErrors int `json:"max_errors" yaml:"max_errors"`
}

// DefaultValidationConfig returns default validation configuration
func DefaultValidationConfig() *ValidationConfig {
	return &ValidationConfig{MaxErrors: 10}
}

// ValidateWithConfig validates a snapshot and caps the number of reported
// field errors.
func ValidateWithConfig(snap *snapshot.Flowchart, config *ValidationConfig) error {
	if config == nil {
		config = DefaultValidationConfig()
	}

	err := ValidateSnapshot(snap)
	var list ValidationErrors
	if errors.As(err, &list) && config.MaxErrors > 0 && len(list) > config.MaxErrors {
		return list[:config.MaxErrors]
	}
	return err
}

type errorResponse struct {
	Errors []ValidationError `json:"errors"`
	Count  int               `json:"count"`
}

// MarshalValidationErrors marshals validation errors to JSON
func MarshalValidationErrors(errs ValidationErrors) ([]byte, error) {
	return sonic.Marshal(errorResponse{Errors: errs, Count: len(errs)})
}

// UnmarshalValidationErrors unmarshals validation errors from JSON
func UnmarshalValidationErrors(data []byte) (ValidationErrors, error) {
	var response errorResponse
	if err := sonic.Unmarshal(data, &response); err != nil {
		return nil, err
	}
	return ValidationErrors(response.Errors), nil
}
