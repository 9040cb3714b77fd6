package handler

import (
	"errors"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/josh-kwaku/learning-backend/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "password", func(fl validator.FieldLevel) bool {
		return isStrongPassword(fl.Field().String())
	})
	mustRegister(v, "coursetype", func(fl validator.FieldLevel) bool {
		return domain.CourseType(fl.Field().String()).IsValid()
	})
	mustRegister(v, "coursestatus", func(fl validator.FieldLevel) bool {
		return domain.CourseStatus(fl.Field().String()).IsValid()
	})
	mustRegister(v, "category", func(fl validator.FieldLevel) bool {
		return domain.CourseCategory(fl.Field().String()).IsValid()
	})
	mustRegister(v, "enrollmentstatus", func(fl validator.FieldLevel) bool {
		return domain.EnrollmentStatus(fl.Field().String()).IsValid()
	})
	mustRegister(v, "gender", func(fl validator.FieldLevel) bool {
		g := domain.Gender(fl.Field().String())
		return g == domain.GenderMale || g == domain.GenderFemale
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// isStrongPassword requires at least 8 characters with an upper case letter,
// a lower case letter and a digit.
func isStrongPassword(s string) bool {
	if len(s) < 8 {
		return false
	}
	var upper, lower, digit bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}

var tagMessages = map[string]string{
	"required":         "required",
	"email":            "must be a valid email address",
	"password":         "must be at least 8 characters with upper case, lower case and a digit",
	"coursetype":       "must be INDIVIDUAL or GROUP",
	"coursestatus":     "must be a valid course status",
	"category":         "must be a valid category",
	"enrollmentstatus": "must be WAITING_FOR_CONFIRMATION, OPEN_FOR_JOINING, JOINED or COMPLETED",
	"gender":           "must be MALE or FEMALE",
	"alphanum":         "must contain only letters and digits",
}

// validateStruct runs the struct's validate tags and converts failures into
// field errors keyed by JSON name.
func validateStruct(v any) []FieldError {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "body", Message: err.Error()}}
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := tagMessages[fe.Tag()]
		if !ok {
			msg = "must satisfy " + fe.Tag()
			if fe.Param() != "" {
				msg += "=" + fe.Param()
			}
		}
		fields = append(fields, FieldError{Field: fe.Field(), Message: msg})
	}
	return fields
}
