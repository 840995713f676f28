package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/phobologic/envcheck/internal/discover"
)

// ErrInvalidConfig indicates a configuration that cannot drive the checks.
var ErrInvalidConfig = errors.New("invalid configuration")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks that the configuration is complete and its patterns compile.
func Validate(cfg *Config) error {
	var msgs []string

	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
		}
	}

	if _, err := discover.Compile(cfg.Scan.Include); err != nil {
		msgs = append(msgs, "scan.include: "+err.Error())
	}
	if _, err := discover.Compile(cfg.DirectAccess.ExcludeGlobs); err != nil {
		msgs = append(msgs, "direct_access.exclude_globs: "+err.Error())
	}

	switch len(msgs) {
	case 0:
		return nil
	case 1:
		return fmt.Errorf("%w: %s", ErrInvalidConfig, msgs[0])
	}
	return fmt.Errorf("%w:\n  - %s", ErrInvalidConfig, strings.Join(msgs, "\n  - "))
}
