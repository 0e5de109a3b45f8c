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
// Package dirs resolves the base directories following the XDG base
// directory specification
package dirs

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// The environment variable names for the XDG base directories
const (
	envConfigHome = "XDG_CONFIG_HOME"
	envDataHome   = "XDG_DATA_HOME"
	envCacheHome  = "XDG_CACHE_HOME"
)

// Base holds the base directories of the user
type Base struct {
	Home string
	// Config is where user-specific configuration is written
	Config string
	// Data is where user-specific data files are written
	Data string
	// Cache is where non-essential data such as temporary editor files is written
	Cache string
}

// Resolve returns the base directories of the current user, honoring the
// XDG environment variables
func Resolve() (Base, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Base{}, errors.Wrap(err, "getting home dir")
	}

	return ResolveFrom(home, os.Getenv), nil
}

// ResolveFrom returns the base directories under the given home directory,
// reading overrides with getenv
func ResolveFrom(home string, getenv func(string) string) Base {
	read := func(envName, defaultPath string) string {
		if dir := getenv(envName); dir != "" {
			return dir
		}

		return defaultPath
	}

	return Base{
		Home:   home,
		Config: read(envConfigHome, filepath.Join(home, ".config")),
		Data:   read(envDataHome, filepath.Join(home, ".local", "share")),
		Cache:  read(envCacheHome, filepath.Join(home, ".cache")),
	}
}
