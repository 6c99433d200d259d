package middleware

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	pkgvalidator "github.com/jwalitptl/clinic-registry/pkg/validator"
)

var configureOnce sync.Once

// ConfigureValidation makes gin's binding validator report json/form field
// names and registers any custom rules. Only the first call has an effect.
func ConfigureValidation(custom map[string]validator.Func) error {
	var err error
	configureOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected binding engine %T", binding.Validator.Engine())
			return
		}

		pkgvalidator.RegisterJSONTagNames(v)
		for tag, fn := range custom {
			if regErr := v.RegisterValidation(tag, fn); regErr != nil {
				err = fmt.Errorf("failed to register validation %q: %w", tag, regErr)
				return
			}
		}
	})
	return err
}
