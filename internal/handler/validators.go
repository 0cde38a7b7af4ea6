package handler

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prperemyshlev/connect-service/internal/utils"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators installs the custom binding tags on gin's validator
// and reports fields by their json or uri names
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("unexpected binding validator engine")
			return
		}

		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			for _, tag := range []string{"json", "uri"} {
				name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return field.Name
		})

		rules := map[string]func(string) bool{
			"document":   utils.ValidateDocument,
			"personname": utils.ValidatePersonName,
			"identifier": utils.ValidateIdentifier,
		}
		for tag, rule := range rules {
			err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
				return rule(fl.Field().String())
			})
			if err != nil {
				registerErr = err
				return
			}
		}
	})
	return registerErr
}
