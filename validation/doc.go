// Package validation checks configuration and command input.
//
// Struct tags (go-playground/validator) for configuration structs:
//
//	type Config struct {
//	    BaseURL string `yaml:"base_url" validate:"required,url"`
//	}
//	err := validation.Struct(cfg)
//
// Programmatic checks for command line input:
//
//	v := validation.New()
//	v.Required("base_url", baseURL).OneOf("log_level", level, []string{"none", "verbose"})
//	err := v.Err()
package validation
