// Package validation holds the CLI's startup argument validator. It is
// intentionally small: the editor's interactive command line has its
// own parser and error reporting (internal/command), this package only
// validates what arrives before the terminal takes over.
package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var v *validator.Validate

// Validator returns a singleton validator with the CLI's custom rules
// registered.
func Validator() *validator.Validate {
	if v == nil {
		v = validator.New()
		// Custom: workbook path must have a supported Excel extension.
		_ = v.RegisterValidation("filepath_ext", func(fl validator.FieldLevel) bool {
			s := strings.TrimSpace(fl.Field().String())
			if s == "" {
				return false
			}
			s = strings.ToLower(s)
			return strings.HasSuffix(s, ".xlsx") || strings.HasSuffix(s, ".xlsm") || strings.HasSuffix(s, ".xltx") || strings.HasSuffix(s, ".xltm")
		})
	}
	return v
}

// CLIFlags is the shape validated before the display surface takes over
// the terminal: a malformed flag here fails fast on stderr rather than
// surfacing as a Dialog mid-session.
type CLIFlags struct {
	Path     string `validate:"required,filepath_ext"`
	Locale   string `validate:"required"`
	Timezone string `validate:"required"`
	LogInput string `validate:"omitempty"`
}

// ValidateCLIFlags validates f and returns a user-friendly error string,
// or "" when valid.
func ValidateCLIFlags(f CLIFlags) string {
	if err := Validator().Struct(f); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok && len(ve) > 0 {
			fe := ve[0]
			field := strings.ToLower(fe.Field())
			switch fe.Tag() {
			case "required":
				return fmt.Sprintf("%s is required", field)
			case "filepath_ext":
				return "path must be an Excel file (.xlsx, .xlsm, .xltx, .xltm)"
			}
			return fmt.Sprintf("invalid %s", field)
		}
		return "invalid arguments"
	}
	return ""
}
