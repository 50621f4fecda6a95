// Package config provides configuration loading and validation for
// streamkit pipelines.
//
// It uses Viper to load engine settings from files and environment
// variables. Environment variables override file values using the
// STREAMKIT_ prefix with underscore-separated paths (e.g.,
// STREAMKIT_PARALLELISM, STREAMKIT_LOGGING_LEVEL). A .env file, when
// present, is loaded via godotenv before binding.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil { ... }
//	stream.SetDefaults(*cfg)
package config
