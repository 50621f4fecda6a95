// Package validation provides input validation for streamkit configuration.
//
// It supports both struct tag validation (using the validator library) and
// programmatic validation with error collection. Failures surface as
// INVALID_CONFIG pipeline errors with per-field details.
//
// # Struct Tag Validation
//
//	type Engine struct {
//	    Parallelism int `mapstructure:"parallelism" validate:"gte=0,lte=4096"`
//	}
//	err := validation.Validate(cfg)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.OneOf("level", cfg.Level, []string{"debug", "info", "warn", "error"})
//	err := v.Err()
package validation
