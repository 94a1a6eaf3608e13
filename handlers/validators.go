package handlers

import (
	"sync"

	"slotbook/services/availability"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators adds the "hhmm" and "isodate" tags to gin's validator.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
			return availability.ValidSlot(fl.Field().String())
		})
		_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
			return availability.ValidDate(fl.Field().String())
		})
	})
}
