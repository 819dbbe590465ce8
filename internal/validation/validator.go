package validation

import (
	"reflect"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/draft"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/orders"
)

// New returns a configured validator with the storefront's custom tags registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// report fields by their JSON names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	// errors are only ever about our own registrations, so ignoring is safe at init
	_ = v.RegisterValidation("consumption_method", consumptionMethod)
	_ = v.RegisterValidation("status_target", statusTarget)

	return v
}

// consumptionMethod accepts the wire values and their English aliases.
func consumptionMethod(fl validatorv10.FieldLevel) bool {
	m, err := draft.ParseMethod(fl.Field().String())
	return err == nil && m.IsValid()
}

// statusTarget accepts the statuses staff may move an order to. Orders start
// as novo and never go back.
func statusTarget(fl validatorv10.FieldLevel) bool {
	st, err := orders.ParseStatus(fl.Field().String())
	return err == nil && st != orders.StatusNew
}
