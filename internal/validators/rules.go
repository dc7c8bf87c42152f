package validators

import (
	"regexp"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/tour-guide-api/internal/domain/guide"
)

var hhmm = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// Register adds the custom binding rules to gin's validator.
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return RegisterOn(v)
}

func RegisterOn(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"hhmm":      isHHMM,
		"ymd":       isYMD,
		"specialty": isSpecialty,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

func isHHMM(fl validator.FieldLevel) bool {
	return hhmm.MatchString(fl.Field().String())
}

func isYMD(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}

func isSpecialty(fl validator.FieldLevel) bool {
	return guide.IsSpecialty(fl.Field().String())
}
