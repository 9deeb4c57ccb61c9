package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// report fields by their wire name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

// FieldError describes a single invalid request value. Loc follows the
// "where, then which field" convention, e.g. ["body", "title"].
type FieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", strings.Join(e.Loc, "."), e.Msg)
}

func NewFieldError(msg, typ string, loc ...string) *FieldError {
	return &FieldError{
		Loc:  loc,
		Msg:  msg,
		Type: typ,
	}
}

// Validate checks v against its validate struct tags. All violations are
// collected into a single *multierror.Error of *FieldError values.
func Validate(v any) error {
	var result *multierror.Error

	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}

		for _, fe := range verrs {
			result = multierror.Append(result, &FieldError{
				Loc:  []string{"body", fe.Field()},
				Msg:  validationMessage(fe),
				Type: validationType(fe),
			})
		}
	}

	// fields the validator can not inspect check themselves
	if c, ok := v.(checker); ok {
		for _, fe := range c.check() {
			result = multierror.Append(result, fe)
		}
	}

	return result.ErrorOrNil()
}

type checker interface {
	check() []*FieldError
}

// Decode reads a JSON document from r into v and validates it.
func Decode(r io.Reader, v any) error {
	if err := json.NewDecoder(r).Decode(v); err != nil {
		var typeErr *json.UnmarshalTypeError

		switch {
		case errors.Is(err, io.EOF):
			return NewFieldError("field required", "value_error.missing", "body")

		case errors.As(err, &typeErr):
			return NewFieldError(
				fmt.Sprintf("value is not a valid %s", typeErr.Type.Kind()),
				"type_error."+typeErr.Type.Kind().String(),
				"body", typeErr.Field,
			)

		default:
			return NewFieldError("invalid JSON body: "+err.Error(), "value_error.jsondecode", "body")
		}
	}

	return Validate(v)
}

// Details returns the field errors carried by err, if any.
func Details(err error) ([]*FieldError, bool) {
	var merr *multierror.Error
	if errors.As(err, &merr) {
		details := make([]*FieldError, 0, len(merr.Errors))
		for _, e := range merr.Errors {
			var fe *FieldError
			if errors.As(e, &fe) {
				details = append(details, fe)
			}
		}

		return details, len(details) > 0
	}

	var fe *FieldError
	if errors.As(err, &fe) {
		return []*FieldError{fe}, true
	}

	return nil, false
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "min":
		return fmt.Sprintf("ensure this value has at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("ensure this value has at most %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("ensure this value is greater than or equal to %s", fe.Param())
	}

	return fmt.Sprintf("failed on the %q constraint", fe.Tag())
}

func validationType(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "value_error.missing"
	case "min":
		return "value_error.any_str.min_length"
	case "max":
		return "value_error.any_str.max_length"
	case "gte":
		return "value_error.number.not_ge"
	}

	return "value_error." + fe.Tag()
}
