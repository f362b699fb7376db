package app

import (
	"errors"
	"reflect"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// validRating accepts self-assessment ratings on the 0..100 scale.
func validRating(fl validator.FieldLevel) bool {
	switch v := fl.Field(); v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := v.Int()
		return n >= 0 && n <= 100
	default:
		return false
	}
}

// registerValidators adds the custom binding tags to gin's validator engine.
func registerValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not go-playground/validator")
	}
	return v.RegisterValidation("rating", validRating)
}
