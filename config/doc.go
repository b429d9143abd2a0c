// Package config loads the configuration of the jolt command.
//
// Load reads a YAML file with Viper and overlays environment variables
// that carry the application prefix (JOLT_ for "jolt"). A .env file found
// next to the config is loaded into the environment first.
//
//	var cfg config.ClientConfig
//	if err := config.Load("jolt", &cfg); err != nil { ... }
//	cfg.ApplyDefaults()
//
// JOLT_HTTP_BASE_URL=https://api.example.com overrides http.base_url.
package config
