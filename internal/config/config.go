// Package config loads the reconciliation service configuration from the
// environment, optionally seeded from a .env file in the working directory.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"discogsrec/internal/sentinel"

	"github.com/spf13/viper"
)

// ErrConfig marks configuration errors: missing required fields or values
// that cannot be cast to the field's type.
const ErrConfig = sentinel.Error("invalid configuration")

// DefaultPort is the listen port used when PORT is not set.
const DefaultPort = 3456

// DefaultEnvFile is the dotenv file consulted before the real environment.
const DefaultEnvFile = ".env"

// Config holds the service settings.
//
// Real environment variables take precedence over the .env file, matching
// dotenv conventions.
type Config struct {
	// DiscogsUser is the Discogs account name. Env: DISCOGS_USER. Required.
	DiscogsUser string
	// Token is the personal Discogs API token. Env: TOKEN. Required.
	Token string
	// Port is the HTTP listen port. Env: PORT. Default 3456.
	Port int
}

// Load reads envFile (ignored when absent) and the environment, validates
// required fields, and returns the resulting Config. Pass DefaultEnvFile
// outside of tests.
func Load(envFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetDefault("PORT", DefaultPort)

	if err := v.ReadInConfig(); err != nil {
		// The dotenv file is optional; everything can come from the
		// environment proper.
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		DiscogsUser: cleanString(v.GetString("DISCOGS_USER")),
		Token:       cleanString(v.GetString("TOKEN")),
	}

	if cfg.DiscogsUser == "" {
		return nil, fmt.Errorf("%w: the DISCOGS_USER field is required", ErrConfig)
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("%w: the TOKEN field is required", ErrConfig)
	}

	rawPort := v.GetString("PORT")
	port, err := strconv.Atoi(strings.TrimSpace(rawPort))
	if err != nil {
		return nil, fmt.Errorf("%w: unable to cast value %q to int for the PORT field", ErrConfig, rawPort)
	}
	cfg.Port = port

	return cfg, nil
}

// cleanString trims whitespace and surrounding single quotes, which dotenv
// files commonly carry around token values.
func cleanString(s string) string {
	return strings.Trim(strings.TrimSpace(s), "'")
}
