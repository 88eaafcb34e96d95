package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var zipPattern = regexp.MustCompile(`^\d{5}$`)

// registerCustomRules wires the marketplace-specific validation tags.
func registerCustomRules(v *validator.Validate) {
	// uszip: 5-digit US zip codes, used by service areas and load postings
	v.RegisterValidation("uszip", func(fl validator.FieldLevel) bool {
		return zipPattern.MatchString(fl.Field().String())
	})
}
