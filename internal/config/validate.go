package config

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidConfiguration is returned by Validate when a value is present
// but malformed (bad URL, page size out of range).
var ErrInvalidConfiguration = errors.New("invalid configuration")

var validate = newValidator()

// newValidator reports fields by the env var that sets them, so operators
// see the name they have to export in CI.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("env"); name != "" {
			return name
		}
		return fld.Name
	})
	return v
}

// Validate checks that the settings required by platform are present.
// Missing credentials are reported with ErrConfigurationMissing.
func (c Config) Validate(platform string) error {
	var section any
	switch platform {
	case PlatformDevTo:
		section = c.DevTo
	case PlatformHashnode:
		section = c.Hashnode
	default:
		return fmt.Errorf("%w: unknown platform %q", ErrInvalidConfiguration, platform)
	}

	err := validate.Struct(section)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validating %s config: %w", platform, err)
	}

	var missing, invalid []string
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
			continue
		}
		invalid = append(invalid, fmt.Sprintf("%s %s", fe.Field(), friendlyMessage(fe)))
	}
	sort.Strings(missing)

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s requires %s (set in config file or environment)",
			ErrConfigurationMissing, platform, strings.Join(missing, ", "))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, strings.Join(invalid, "; "))
}

func friendlyMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "url":
		return "must be a valid URL"
	case "hostname":
		return "must be a bare host name (e.g. blog.hashnode.dev)"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
