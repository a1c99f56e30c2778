package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields under their json names so nested tag errors
// read as tags[1].name.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct runs the struct tags of s, skipping the named fields, and
// collects failures into errs. overrides replaces the message of a tag.
func validateStruct(s interface{}, errs *ValidationError, overrides map[string]string, skip ...string) error {
	var err error
	if len(skip) > 0 {
		err = validate.StructExcept(s, skip...)
	} else {
		err = validate.Struct(s)
	}
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	for _, fe := range fieldErrs {
		msg, ok := overrides[fe.Tag()]
		if !ok {
			msg = fieldMessage(fe)
		}
		errs.Add(fieldPath(fe), msg)
	}
	return nil
}

// fieldPath drops the struct name from the namespace: TodoPayload.tags[0].name
// becomes tags[0].name.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func fieldMessage(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "min":
		if isString {
			return "This field may not be blank."
		}
		return fmt.Sprintf("\"%v\" is not a valid choice.", fe.Value())
	case "max":
		if isString {
			return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
		}
		return fmt.Sprintf("\"%v\" is not a valid choice.", fe.Value())
	case "oneof":
		return fmt.Sprintf("\"%v\" is not a valid choice.", fe.Value())
	case "hexcolor", "len":
		return "Enter a valid hex color such as #FF0000."
	}
	return "Invalid value."
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
