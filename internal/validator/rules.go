package validator

import (
	"log"

	"jobboard_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

func registerCustomRules(v *validator.Validate) {
	// A rule that fails to register is a programming error; refuse to start.
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-application-status", stringRule(func(s string) bool {
		return models.ApplicationStatus(s).IsValid()
	}))
	mustRegister("is-team-role", stringRule(func(s string) bool {
		return models.TeamRole(s).IsValid()
	}))
	mustRegister("is-credit-type", stringRule(func(s string) bool {
		return models.CreditType(s).IsValid()
	}))
	// Free is never purchased.
	mustRegister("is-plan", stringRule(func(s string) bool {
		p := models.Plan(s)
		return p.IsValid() && p != models.PlanFree
	}))
}

// stringRule skips empty values, "required" handles those.
func stringRule(ok func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true
		}
		return ok(value)
	}
}
