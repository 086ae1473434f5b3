// Package config loads the resolver's ambient runtime configuration from
// environment variables, layered over defaults and validated before use.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// AppConfig holds the ambient configuration values this resolver needs
// beyond the two CLI flags named in spec §6 (--bind-addr, --no-recursive),
// which are parsed separately in cmd/dnsresolverd and layered on top of
// this struct.
type AppConfig struct {
	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	// LogLevel is the minimum level the logger emits: "debug", "info",
	// "warn", or "error".
	LogLevel string `koanf:"log_level" validate:"required,oneof=debug info warn error"`

	// UpstreamQueryTimeout bounds a single UDP round trip to one upstream
	// server during iterative resolution (spec §4.6, §5).
	UpstreamQueryTimeout time.Duration `koanf:"upstream_query_timeout" validate:"required,gt=0"`

	// TotalResolutionTimeout bounds the entire iterative resolution of one
	// client query, across every referral it follows.
	TotalResolutionTimeout time.Duration `koanf:"total_resolution_timeout" validate:"required,gt=0"`

	// MaxReferrals caps the number of NS referrals the resolver will follow
	// before giving up with SERVFAIL (spec §4.6 iteration guard).
	MaxReferrals int `koanf:"max_referrals" validate:"required,gte=1"`

	// MaxGlueRecursionDepth caps the depth of sub-resolution performed to
	// find a missing glue A record for a referred nameserver.
	MaxGlueRecursionDepth int `koanf:"max_glue_recursion_depth" validate:"required,gte=1"`
}

// DefaultAppConfig is the configuration used when no environment variable
// overrides a field.
var DefaultAppConfig = AppConfig{
	Env:                    "prod",
	LogLevel:               "info",
	UpstreamQueryTimeout:   2 * time.Second,
	TotalResolutionTimeout: 10 * time.Second,
	MaxReferrals:           16,
	MaxGlueRecursionDepth:  8,
}

// envPrefix is the environment variable prefix this resolver reads
// configuration overrides from, e.g. RRDNS_UPSTREAM_QUERY_TIMEOUT.
const envPrefix = "RRDNS_"

// envLoader loads environment variables with the RRDNS_ prefix into k,
// lower-cased with the prefix stripped. It is a var so tests can substitute
// a failing loader.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
			return key, strings.TrimSpace(value)
		},
	}), nil)
}

// defaultLoader loads DefaultAppConfig into k via the structs provider. It
// is a var so tests can substitute a failing loader.
var defaultLoader = func(k *koanf.Koanf) error {
	return k.Load(structs.Provider(DefaultAppConfig, "koanf"), nil)
}

// registerValidation is a seam mirroring the teacher's config package
// shape; this package has no custom validation tags today, but tests rely
// on being able to substitute a failing registrar.
var registerValidation = func(v *validator.Validate) error {
	return nil
}

// Load parses environment variables over DefaultAppConfig and validates the
// result.
func Load() (*AppConfig, error) {
	k := koanf.New(".")

	if err := defaultLoader(k); err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}

	if err := envLoader(k); err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := registerValidation(validate); err != nil {
		return nil, fmt.Errorf("error registering validation: %w", err)
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}
