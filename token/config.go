package token

import (
	"os"
	"time"
)

const (
	SecretEnvVar        = "GATEPASS_TOKEN_SECRET"
	AdminUsernameEnvVar = "GATEPASS_ADMIN_USERNAME"
	AdminPasswordEnvVar = "GATEPASS_ADMIN_PASSWORD"

	DefaultTTL = 24 * time.Hour
)

type (
	// Config is read once at startup and never changes afterwards.
	Config struct {
		Secret        []byte
		AdminUsername string
		AdminPassword string
		TTL           time.Duration
	}

	// EnvNames holds the names of the environment variables that carry
	// the secrets. The secrets themselves never appear as flags.
	EnvNames struct {
		Secret        string
		AdminUsername string
		AdminPassword string
	}
)

// DefaultEnvNames returns the standard variable names.
func DefaultEnvNames() EnvNames {
	return EnvNames{
		Secret:        SecretEnvVar,
		AdminUsername: AdminUsernameEnvVar,
		AdminPassword: AdminPasswordEnvVar,
	}
}

// Enabled is false if any of the three secrets is missing.
func (c Config) Enabled() bool {
	return len(c.Secret) > 0 && c.AdminUsername != "" && c.AdminPassword != ""
}

// ConfigFromEnv loads the secrets from the environment and erases each
// variable after reading it. getfn and setfn default to os.Getenv and
// os.Setenv. A missing variable is not an error here: the returned
// config is simply not Enabled.
func ConfigFromEnv(names EnvNames, getfn func(string) string, setfn func(string, string) error) Config {
	if getfn == nil {
		getfn = os.Getenv
	}
	if setfn == nil {
		setfn = os.Setenv
	}
	read := func(name string) string {
		val := getfn(name)
		setfn(name, "")
		return val
	}
	return Config{
		Secret:        []byte(read(names.Secret)),
		AdminUsername: read(names.AdminUsername),
		AdminPassword: read(names.AdminPassword),
		TTL:           DefaultTTL,
	}
}
