// Package config loads typed configuration from environment variables.
//
// Struct fields are bound with github.com/caarlos0/env/v11 tags and an
// optional .env file is read through github.com/joho/godotenv. Every
// configuration type is parsed once per process and cached:
//
//	var cfg session.Config
//	config.MustLoad(&cfg)
//
// LoadEnv reads explicit dotenv files, ResetCache and Reload exist for tests.
package config
