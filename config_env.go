package goSession

import "github.com/caarlos0/env/v11"

// ConfigFromEnv returns [DefaultConfig] overridden by GOSESSION_* environment
// variables, validated. Unset variables keep their defaults.
//
//	GOSESSION_LOGIN_REDIRECT
//	GOSESSION_UNAUTHORIZED_REDIRECT
//	GOSESSION_ADMIN_ROLE
//	GOSESSION_AUDIT_ENABLED
//	GOSESSION_AUDIT_BUFFER
//	GOSESSION_AUDIT_DROP_IF_FULL
//	GOSESSION_METRICS_ENABLED
func ConfigFromEnv() (Config, error) {
	cfg := defaultConfig()
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
