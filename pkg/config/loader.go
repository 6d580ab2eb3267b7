package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	// parsed holds one value per configuration type, keyed by reflect.Type.
	parsed sync.Map

	// loading serializes the first parse of each type.
	loading sync.Mutex

	dotenvOnce sync.Once
)

// Load fills v from the environment using caarlos0/env struct tags.
//
// The first call reads a .env file from the working directory if one exists.
// Each configuration type is parsed once; later calls copy the cached value,
// so every component of the process observes the same settings.
//
//	type StoreConfig struct {
//		Driver string `env:"SESSION_STORE" envDefault:"memory"`
//		URL    string `env:"SESSION_STORE_URL"`
//	}
//
//	var cfg StoreConfig
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	dotenvOnce.Do(func() {
		// a missing .env is the normal case outside development
		_ = godotenv.Load()
	})

	key := typeKey[T]()
	if cached, ok := parsed.Load(key); ok {
		*v = cached.(T)
		return nil
	}

	loading.Lock()
	defer loading.Unlock()

	if cached, ok := parsed.Load(key); ok {
		*v = cached.(T)
		return nil
	}

	var fresh T
	if err := env.Parse(&fresh); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}

	parsed.Store(key, fresh)
	*v = fresh
	return nil
}

// MustLoad is like Load but panics on failure. Use it in main.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

// Reload parses T again, replacing the cached value.
func Reload[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	parsed.Delete(typeKey[T]())
	return Load(v)
}

// LoadEnv reads the given dotenv files into the process environment.
// Later files override earlier ones; variables already set in the process
// are replaced as well. Without arguments ".env" is read.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	if err := godotenv.Overload(paths...); err != nil {
		return errors.Join(ErrLoadingEnvFile, err)
	}
	return nil
}

// MustLoadEnv is like LoadEnv but panics on failure.
func MustLoadEnv(paths ...string) {
	if err := LoadEnv(paths...); err != nil {
		panic(fmt.Sprintf("failed to load env files: %v", err))
	}
}

// ResetCache drops every cached configuration. Intended for tests.
func ResetCache() {
	parsed.Clear()
}

func typeKey[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}
