/* Copyright 2025 Dnote Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package config builds the server configuration from flags, the environment
// and defaults
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dnote/simplenote/pkg/dirs"
	"github.com/dnote/simplenote/pkg/server/log"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	// DefaultDBDir is the default directory name for the server data
	DefaultDBDir = "simplenote"
	// DefaultDBFilename is the default database filename
	DefaultDBFilename = "server.db"
	// DefaultPort is the port the server listens on by default
	DefaultPort = "8000"
	// DefaultAccessTTL is the default lifetime of an access token
	DefaultAccessTTL = 5 * time.Minute
	// DefaultRefreshTTL is the default lifetime of a refresh token
	DefaultRefreshTTL = 24 * time.Hour
	// DefaultRateLimit is the default number of requests per second accepted from an IP
	DefaultRateLimit = 50
)

var (
	// ErrDBMissingPath is an error for an incomplete configuration missing the database path
	ErrDBMissingPath = errors.New("DB Path is empty")
	// ErrPortInvalid is an error for an incomplete configuration with invalid port
	ErrPortInvalid = errors.New("Invalid Port")
	// ErrJWTSecretMissing is an error for a configuration without a signing secret
	ErrJWTSecretMissing = errors.New("JWT secret is empty")
	// ErrTTLInvalid is an error for a non-positive token lifetime
	ErrTTLInvalid = errors.New("Invalid token lifetime")
	// ErrLogLevelInvalid is an error for an unknown log level
	ErrLogLevelInvalid = errors.New("Invalid log level")
)

// getOrEnv returns value if non-empty, otherwise env var, otherwise default
func getOrEnv(value, envKey, defaultVal string) string {
	if value != "" {
		return value
	}
	if env := os.Getenv(envKey); env != "" {
		return env
	}
	return defaultVal
}

func getDurationOrEnv(value, envKey string, defaultVal time.Duration) (time.Duration, error) {
	s := getOrEnv(value, envKey, "")
	if s == "" {
		return defaultVal, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing %s", envKey)
	}

	return d, nil
}

// LoadEnvFile loads the variables in the given .env file into the
// environment without overriding the ones already set. A missing file is
// not an error.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		return errors.Wrapf(err, "loading %s", path)
	}

	return nil
}

// DefaultDBPath returns the default path to the database file
func DefaultDBPath() string {
	base, err := dirs.Resolve()
	if err != nil {
		return DefaultDBFilename
	}

	return filepath.Join(base.Data, DefaultDBDir, DefaultDBFilename)
}

// Config is an application configuration
type Config struct {
	Port       string
	DBPath     string
	LogLevel   string
	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	// RateLimit is the number of requests per second accepted from an IP.
	// Zero disables rate limiting.
	RateLimit int
}

// Params are the configuration parameters for creating a new Config
type Params struct {
	Port       string
	DBPath     string
	LogLevel   string
	JWTSecret  string
	AccessTTL  string
	RefreshTTL string
	RateLimit  string
}

// New constructs and returns a new validated config.
// Empty string params will fall back to environment variables and defaults.
func New(p Params) (Config, error) {
	accessTTL, err := getDurationOrEnv(p.AccessTTL, "ACCESS_TTL", DefaultAccessTTL)
	if err != nil {
		return Config{}, err
	}
	refreshTTL, err := getDurationOrEnv(p.RefreshTTL, "REFRESH_TTL", DefaultRefreshTTL)
	if err != nil {
		return Config{}, err
	}
	rateLimit, err := strconv.Atoi(getOrEnv(p.RateLimit, "RATE_LIMIT", strconv.Itoa(DefaultRateLimit)))
	if err != nil {
		return Config{}, errors.Wrap(err, "parsing RATE_LIMIT")
	}

	dbPath := getOrEnv(p.DBPath, "DBPath", "")
	if dbPath == "" {
		dbPath = DefaultDBPath()
	}

	c := Config{
		Port:       getOrEnv(p.Port, "PORT", DefaultPort),
		DBPath:     dbPath,
		LogLevel:   getOrEnv(p.LogLevel, "LOG_LEVEL", log.LevelInfo),
		JWTSecret:  getOrEnv(p.JWTSecret, "JWT_SECRET", ""),
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,
		RateLimit:  rateLimit,
	}

	if err := validate(c); err != nil {
		return Config{}, err
	}

	return c, nil
}

func validate(c Config) error {
	if _, err := strconv.ParseUint(c.Port, 10, 16); err != nil {
		return errors.Wrapf(ErrPortInvalid, "'%s'", c.Port)
	}
	if c.DBPath == "" {
		return ErrDBMissingPath
	}
	if c.JWTSecret == "" {
		return ErrJWTSecretMissing
	}
	if c.AccessTTL <= 0 || c.RefreshTTL <= 0 {
		return ErrTTLInvalid
	}
	if !log.ValidLevel(c.LogLevel) {
		return errors.Wrapf(ErrLogLevelInvalid, "'%s'", c.LogLevel)
	}

	return nil
}
