package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/weqtian/user_center/internal/apperrors"
	"github.com/weqtian/user_center/internal/core/domain"
)

const birthdayLayout = "2006-01-02"

var registerValidatorsOnce sync.Once

// registerValidators adds the custom binding tags used by the request DTOs to
// gin's validator and makes field errors report JSON names.
func registerValidators() {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return field.Name
		})
		_ = v.RegisterValidation("gender", validateGender)
		_ = v.RegisterValidation("birthday", validateBirthday)
	})
}

func validateGender(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return domain.Gender(fl.Field().Int()).Valid()
	default:
		return false
	}
}

// validateBirthday accepts a real calendar date in YYYY-MM-DD form.
func validateBirthday(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}
	_, err := time.Parse(birthdayLayout, fl.Field().String())
	return err == nil
}

// fieldCodes picks a more specific business code when the first rejected
// field has one.
type fieldCodes map[string]apperrors.Code

var registerFieldCodes = fieldCodes{
	"email":    apperrors.CodeEmailFormatError,
	"password": apperrors.CodePasswordLengthNotMatch,
	"nickname": apperrors.CodeNicknameLengthNotMatch,
	"gender":   apperrors.CodeGenderError,
}

// bindingError converts a ShouldBind failure into an AppError.
// Field-level failures become a 422 with one entry per field. Anything else,
// such as malformed JSON, is a plain 400.
func bindingError(err error, codes fieldCodes) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.Validation(apperrors.CodeBadRequest, "Invalid request body")
	}

	fields := make([]apperrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperrors.FieldError{
			Field:   fe.Field(),
			Message: fieldMessage(fe),
		})
	}

	appErr := apperrors.RequestValidation("", fields)
	if code, ok := codes[verrs[0].Field()]; ok && verrs[0].Tag() != "required" {
		appErr.Code = code
		appErr.Message = code.Message()
	}
	return appErr
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gender":
		return "must be 1 (male) or 2 (female)"
	case "birthday":
		return "must be a valid date in YYYY-MM-DD format"
	default:
		return fmt.Sprintf("failed the %q rule", fe.Tag())
	}
}
