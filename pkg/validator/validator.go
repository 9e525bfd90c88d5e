package validator

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/solivagant/quote-api/internal/model"
	apperrors "github.com/solivagant/quote-api/pkg/errors"
)

var registerOnce sync.Once
var registerErr error

// RegisterBindings installs the custom validation tags used by request
// structs on gin's default validator. Safe to call more than once.
func RegisterBindings() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
			return
		}

		// Report JSON field names instead of Go struct field names.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})

		registerErr = v.RegisterValidation("tier", validateTier)
	})
	return registerErr
}

func validateTier(fl validator.FieldLevel) bool {
	return model.DurationTier(fl.Field().String()).Valid()
}

// TranslateBindError converts an error from gin's ShouldBind* into an
// AppError. A failed "tier" tag becomes InvalidTier; everything else is a
// malformed request naming the first offending field.
func TranslateBindError(err error) *apperrors.AppError {
	var verrs validator.ValidationErrors
	if stderrors.As(err, &verrs) && len(verrs) > 0 {
		for _, fe := range verrs {
			if fe.Tag() == "tier" {
				return apperrors.NewInvalidTier(fmt.Sprint(fe.Value()))
			}
		}
		fe := verrs[0]
		return apperrors.NewMalformedRequest(fieldMessage(fe), err)
	}

	var typeErr *json.UnmarshalTypeError
	if stderrors.As(err, &typeErr) {
		return apperrors.NewMalformedRequest(fmt.Sprintf("%s must be of type %s", typeErr.Field, typeErr.Type), err)
	}

	return apperrors.NewMalformedRequest("invalid request body", err)
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
