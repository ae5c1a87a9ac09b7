package handlers

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validationOnce sync.Once

// registerCustomValidations installs binding rules for decimal.Decimal fields.
// The validator's built-in numeric comparisons (gt, gte) do not apply to
// struct-typed amounts, so the DTOs use dgt0/dgte0 instead.
func registerCustomValidations() {
	validationOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("dgt0", func(fl validator.FieldLevel) bool {
			d, ok := fl.Field().Interface().(decimal.Decimal)
			return ok && d.IsPositive()
		})
		_ = v.RegisterValidation("dgte0", func(fl validator.FieldLevel) bool {
			d, ok := fl.Field().Interface().(decimal.Decimal)
			return ok && !d.IsNegative()
		})
	})
}
