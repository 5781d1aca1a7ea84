package handlers

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/types"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// в деталях ошибок поля называются как в JSON
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := types.ParseDate(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		_, err := types.NewTimeStringFromString(fl.Field().String())
		return err == nil
	})

	return v
}

// Validate проверяет DTO по тегам validate
func Validate(v interface{}) error {
	return validate.Struct(v)
}

// RespondValidationError отправляет 400 со списком невалидных полей
func RespondValidationError(w http.ResponseWriter, message string, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		RespondBadRequest(w, message)
		return
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	RespondErrorWithDetails(w, http.StatusBadRequest, message, map[string]interface{}{"fields": fields})
}
