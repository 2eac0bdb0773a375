package handlers

import (
	"sync"

	"github.com/arnavshah/shiftdock-api/pkg/scheduler"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators adds the shiftdate (YYYY-MM-DD) and hhmm (HH:mm) tags
// to gin's validator
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("shiftdate", func(fl validator.FieldLevel) bool {
			return scheduler.ValidDate(fl.Field().String())
		})
		_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
			return scheduler.ValidClock(fl.Field().String())
		})
	})
}
