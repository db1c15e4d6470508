package api

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var iataPattern = regexp.MustCompile(`^\s*[A-Za-z]{3}\s*$`)

func iataCode(fl validator.FieldLevel) bool {
	return iataPattern.MatchString(fl.Field().String())
}

// RegisterValidators adds the custom binding tags used by request structs.
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("iata", iataCode)
	}
}
