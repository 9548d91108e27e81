package service

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/markkent-max/schedease/internal/conflict"
	"github.com/markkent-max/schedease/internal/model"
)

// RegisterValidationRules adds the scheduling rules (hhmm, weekday) to v.
// The router registers them on gin's engine as well so binding tags are
// checked identically at both layers.
func RegisterValidationRules(v *validator.Validate) error {
	if err := v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		_, err := conflict.ParseClock(fl.Field().String())
		return err == nil
	}); err != nil {
		return err
	}
	return v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		_, err := model.ParseDayOfWeek(fl.Field().String())
		return err == nil
	})
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.SetTagName("binding")
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		if err := RegisterValidationRules(v); err != nil {
			panic(err)
		}
		validate = v
	})
	return validate
}

// validateStruct runs the binding rules outside HTTP.
func validateStruct(s interface{}) error {
	if err := structValidator().Struct(s); err != nil {
		return fromValidator(err)
	}
	return nil
}
