package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// TemplateNamePattern restricts template names to safe tokens: a bare file
// stem with no separators, so a request can never address files outside the
// template directory
var TemplateNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]{0,63}$`)

// ValidateTemplateName ensures a template name is a safe token
func ValidateTemplateName(fl validator.FieldLevel) bool {
	return TemplateNamePattern.MatchString(fl.Field().String())
}

// RegisterGenerationValidators registers all generation-related custom validators
func RegisterGenerationValidators(v *validator.Validate) {
	v.RegisterValidation("template_name", ValidateTemplateName)
}
