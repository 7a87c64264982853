// Package validation validates coloring-query requests and CLI config.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	MaxRules = 20
)

func init() {
	validate = validator.New()
}

// ColorRequest represents one coloring-query rule from the API or CLI.
type ColorRequest struct {
	Kind       string `json:"kind" validate:"required,oneof=term gene orthogroup size"`
	Term       string `json:"term,omitempty" validate:"required_if=Kind term"`
	Gene       string `json:"gene,omitempty" validate:"required_if=Kind gene"`
	Orthogroup string `json:"orthogroup,omitempty" validate:"required_if=Kind orthogroup"`
	MinSize    int    `json:"minSize,omitempty" validate:"omitempty,min=1"`
	Color      string `json:"color,omitempty" validate:"omitempty,hexcolor"`
}

// QueryRequest is an ordered rule list plus an optional default color.
type QueryRequest struct {
	Rules   []ColorRequest `json:"rules" validate:"required,min=1,dive"`
	Default string         `json:"default,omitempty" validate:"omitempty,hexcolor"`
}

// ValidateQueryRequest validates a coloring-query request.
func ValidateQueryRequest(req *QueryRequest) error {
	if req == nil {
		return errors.New("query request cannot be nil")
	}
	if len(req.Rules) > MaxRules {
		return fmt.Errorf("rules: maximum %d rules allowed, got %d", MaxRules, len(req.Rules))
	}
	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}
	for i, rule := range req.Rules {
		if rule.Kind == "size" && rule.MinSize < 1 {
			return fmt.Errorf("rules[%d]: size rules need minSize >= 1", i)
		}
	}
	return nil
}

// ValidateStruct validates any tagged struct (used for config).
func ValidateStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError converts validator errors to readable messages
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		switch fieldErr.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", fieldErr.Field()))
		case "required_if":
			messages = append(messages, fmt.Sprintf("%s is required for this rule kind", fieldErr.Field()))
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s must be one of: %s", fieldErr.Field(), fieldErr.Param()))
		case "hexcolor":
			messages = append(messages, fmt.Sprintf("%s must be a hex color like #d62728", fieldErr.Field()))
		case "min":
			messages = append(messages, fmt.Sprintf("%s must be at least %s", fieldErr.Field(), fieldErr.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s failed %s validation", fieldErr.Field(), fieldErr.Tag()))
		}
	}

	return errors.New(strings.Join(messages, "; "))
}
