package book

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("fields", validateFields)
}

// validateFields checks a comma separated projection list.
func validateFields(fl validator.FieldLevel) bool {
	raw := fl.Field().String()
	if raw == "" {
		return true
	}
	for _, f := range strings.Split(raw, ",") {
		if _, err := ParseField(strings.TrimSpace(f)); err != nil {
			return false
		}
	}
	return true
}

// ValidationError describes one rejected field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// DocumentError carries the validation failures of one document.
type DocumentError struct {
	Index  int
	Errors []ValidationError
}

func (e *DocumentError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, v := range e.Errors {
		msgs = append(msgs, v.Message)
	}
	return fmt.Sprintf("%s at index %d: %s", ErrInvalidDocument, e.Index, strings.Join(msgs, "; "))
}

func (e *DocumentError) Unwrap() error { return ErrInvalidDocument }

// ValidateStruct runs the struct tag rules and returns one entry per failed field.
func ValidateStruct(s any) []ValidationError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []ValidationError{{Field: "", Message: err.Error()}}
	}

	var out []ValidationError
	for _, fe := range verrs {
		field := fe.Field()
		var message string
		switch fe.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", field)
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		case "gte":
			message = fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
		case "gt":
			message = fmt.Sprintf("%s must be greater than %s", field, fe.Param())
		case "oneof":
			message = fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
		case "fields":
			message = fmt.Sprintf("%s lists an unknown field", field)
		default:
			message = fmt.Sprintf("%s is invalid", field)
		}
		out = append(out, ValidationError{
			Field:   strings.ToLower(field[:1]) + field[1:],
			Message: message,
		})
	}
	return out
}

// ValidateBooks checks every book and reports the first invalid one.
func ValidateBooks(books []Book) error {
	for i, b := range books {
		if errs := ValidateStruct(b); len(errs) > 0 {
			return &DocumentError{Index: i, Errors: errs}
		}
	}
	return nil
}
