package cropsession

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"thirdcoast.systems/cropframe/pkg/utils/crops"
)

// DefaultAspectRatios is used when Options.AspectRatios is empty.
var DefaultAspectRatios = []string{"16:9"}

// Options configures a Session.
type Options struct {
	// AspectRatios is the ordered list of "W:H" labels offered as buttons.
	AspectRatios []string `validate:"dive,aspectratio"`

	// DefaultAspectRatio is selected by ApplyDefault once the host reports
	// a stable layout. Empty disables it.
	DefaultAspectRatio string `validate:"omitempty,aspectratio"`

	// OnCropChange receives every Result. It runs synchronously on the
	// caller's goroutine and must not block.
	OnCropChange func(Result) `validate:"-"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator with the "aspectratio" rule
// registered.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("aspectratio", func(fl validator.FieldLevel) bool {
			_, err := crops.ParseAspectRatio(fl.Field().String())
			return err == nil
		})
	})
	return validate
}

func (o Options) withDefaults() Options {
	if len(o.AspectRatios) == 0 {
		o.AspectRatios = append([]string(nil), DefaultAspectRatios...)
	}
	labels := make([]string, 0, len(o.AspectRatios))
	for _, l := range o.AspectRatios {
		labels = append(labels, strings.TrimSpace(l))
	}
	o.AspectRatios = labels
	o.DefaultAspectRatio = strings.TrimSpace(o.DefaultAspectRatio)
	return o
}

// Validate checks every configured label.
func (o Options) Validate() error {
	if err := Validator().Struct(o); err != nil {
		return fmt.Errorf("crop options: %w", err)
	}
	return nil
}
