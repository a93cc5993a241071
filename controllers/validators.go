package controllers

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"HospitalCare/services"
)

// RegisterValidators adds the hhmm and ymd tags to gin's validator and makes
// error messages use JSON field names.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	if err := v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return services.ValidTime(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("ymd", func(fl validator.FieldLevel) bool {
		_, err := services.NormalizeDate(fl.Field().String())
		return err == nil
	})
}
