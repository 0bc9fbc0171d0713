package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	apperrors "github.com/ikkim/bizreview-backend/internal/errors"
)

// tagName matches gin so request structs validate the same with or without HTTP.
const tagName = "binding"

var (
	standalone     *validator.Validate
	standaloneOnce sync.Once
)

// RegisterGinValidators installs the custom rules and json field naming on
// gin's validator engine. Call once during router setup.
func RegisterGinValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not go-playground/validator")
	}
	return configure(v)
}

// Struct validates v outside of gin. The returned error is a validation
// *apperrors.Error carrying per-field messages.
func Struct(v interface{}) error {
	standaloneOnce.Do(func() {
		standalone = validator.New()
		standalone.SetTagName(tagName)
		if err := configure(standalone); err != nil {
			panic(err)
		}
	})

	if err := standalone.Struct(v); err != nil {
		return FromBindError(err)
	}
	return nil
}

// FromBindError converts a gin bind or validation error into a validation *apperrors.Error.
func FromBindError(err error) *apperrors.Error {
	appErr := apperrors.NewValidation(apperrors.ValidationInvalidInput, "invalid input")
	if fields := FormatValidationErrors(err); len(fields) > 0 {
		for field, msg := range fields {
			appErr = appErr.WithField(field, msg)
		}
		return appErr
	}
	return appErr.WithField("body", "malformed request body").Wrap(err)
}

// FormatValidationErrors maps validator errors onto field -> message.
func FormatValidationErrors(err error) map[string]string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return nil
	}

	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		fields[fieldPath(fe)] = message(fe)
	}
	return fields
}

func configure(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	if err := v.RegisterValidation("notblank", notBlank); err != nil {
		return fmt.Errorf("register notblank: %w", err)
	}
	if err := v.RegisterValidation("uuid_list", uuidList); err != nil {
		return fmt.Errorf("register uuid_list: %w", err)
	}
	return nil
}

// notBlank rejects strings that are empty after trimming. Nil pointers pass;
// pair with required when the field is mandatory.
func notBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.String:
		return strings.TrimSpace(field.String()) != ""
	case reflect.Ptr:
		if field.IsNil() {
			return true
		}
		if field.Elem().Kind() == reflect.String {
			return strings.TrimSpace(field.Elem().String()) != ""
		}
	}
	return true
}

// uuidList accepts a slice of strings that all parse as uuids.
func uuidList(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.Slice {
		return false
	}
	for i := 0; i < field.Len(); i++ {
		item := field.Index(i)
		if item.Kind() != reflect.String {
			return false
		}
		if _, err := uuid.Parse(item.String()); err != nil {
			return false
		}
	}
	return true
}

// fieldPath drops the top-level struct name: "Input.locations[0].label" -> "locations[0].label".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "notblank":
		return "must not be blank"
	case "min":
		if fe.Kind() == reflect.String || fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must have at least %s items or characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String || fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must have at most %s items or characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "email":
		return "must be a valid email"
	case "url":
		return "must be a valid url"
	case "uuid", "uuid4":
		return "must be a valid uuid"
	case "uuid_list":
		return "must contain only valid uuids"
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "latitude":
		return "must be a valid latitude"
	case "longitude":
		return "must be a valid longitude"
	}
	return "is invalid"
}
