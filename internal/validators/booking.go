package validators

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/beauty-booking/internal/httperr"
	"github.com/BruksfildServices01/beauty-booking/internal/scheduling"
)

var once sync.Once

// Register adds the booking rules to gin's binding validator. Safe to call
// more than once.
func Register() {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		setup(v)
	})
}

func New() *validator.Validate {
	v := validator.New()
	setup(v)
	return v
}

func setup(v *validator.Validate) {
	v.RegisterTagNameFunc(jsonName)
	_ = v.RegisterValidation("hhmm", validateHHMM)
	_ = v.RegisterValidation("isodate", validateISODate)
	_ = v.RegisterValidation("frequency", validateFrequency)
	_ = v.RegisterValidation("occurrences", validateOccurrences)
	_ = v.RegisterValidation("policy_class", validatePolicyClass)
}

func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		name = strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
	}
	return name
}

func validateHHMM(fl validator.FieldLevel) bool {
	_, err := scheduling.ParseClock(fl.Field().String())
	return err == nil
}

func validateISODate(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}

func validateFrequency(fl validator.FieldLevel) bool {
	return scheduling.Frequency(fl.Field().String()).Valid()
}

func validateOccurrences(fl validator.FieldLevel) bool {
	return scheduling.ValidateOccurrenceCount(int(fl.Field().Int()))
}

func validatePolicyClass(fl validator.FieldLevel) bool {
	return scheduling.PolicyClass(fl.Field().String()).Valid()
}

// FieldError turns the first binding failure into a validation error
// naming the JSON field. Malformed bodies come back as invalid_request.
func FieldError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		code := "invalid_" + fe.Field()
		if fe.Tag() == "required" {
			code = fe.Field() + "_required"
		}
		return httperr.ErrValidation(fe.Field(), code)
	}
	return httperr.BusinessError{Kind: httperr.KindValidation, Code: "invalid_request", Message: "Invalid request body."}
}
