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
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/dnote/simplenote/pkg/cli/consts"
	"github.com/dnote/simplenote/pkg/cli/context"
	"github.com/dnote/simplenote/pkg/cli/log"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Config holds simplenote configuration. Durations are written in the
// format accepted by time.ParseDuration.
type Config struct {
	Editor         string `yaml:"editor"`
	APIEndpoint    string `yaml:"apiEndpoint"`
	RequestTimeout string `yaml:"requestTimeout,omitempty"`
	SyncInterval   string `yaml:"syncInterval,omitempty"`
	PageSize       int    `yaml:"pageSize,omitempty"`
	RetryCountdown string `yaml:"retryCountdown,omitempty"`
	AutosaveDelay  string `yaml:"autosaveDelay,omitempty"`
}

// Default returns the config written on the first run
func Default(editor, apiEndpoint string) Config {
	s := context.DefaultSettings()

	return Config{
		Editor:         editor,
		APIEndpoint:    apiEndpoint,
		RequestTimeout: s.RequestTimeout.String(),
		SyncInterval:   s.SyncInterval.String(),
		PageSize:       s.PageSize,
		RetryCountdown: s.RetryCountdown.String(),
		AutosaveDelay:  s.AutosaveDelay.String(),
	}
}

// GetPath returns the path to the simplenote config file
func GetPath(ctx context.SimplenoteCtx) string {
	return fmt.Sprintf("%s/%s/%s", ctx.Paths.Config, consts.SimplenoteDirName, consts.ConfigFilename)
}

// Read reads the config file
func Read(ctx context.SimplenoteCtx) (Config, error) {
	var ret Config

	configPath := GetPath(ctx)
	b, err := os.ReadFile(configPath)
	if err != nil {
		return ret, errors.Wrap(err, "reading config file")
	}

	err = yaml.Unmarshal(b, &ret)
	if err != nil {
		return ret, errors.Wrap(err, "unmarshalling config")
	}

	return ret, nil
}

// Write writes the config to the config file
func Write(ctx context.SimplenoteCtx, cf Config) error {
	path := GetPath(ctx)

	b, err := yaml.Marshal(cf)
	if err != nil {
		return errors.Wrap(err, "marshalling config into YAML")
	}

	err = os.WriteFile(path, b, 0644)
	if err != nil {
		return errors.Wrap(err, "writing the config file")
	}

	return nil
}

func parseDuration(key, val string, fallback time.Duration) (time.Duration, error) {
	if val == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing %s", key)
	}
	if d <= 0 {
		return 0, errors.Errorf("%s must be positive, got %s", key, val)
	}

	return d, nil
}

// Resolve returns the settings described by the config. Missing values fall
// back to the defaults and the sync interval is raised to the minimum.
func Resolve(cf Config) (context.Settings, error) {
	ret := context.DefaultSettings()

	var err error
	if ret.RequestTimeout, err = parseDuration("requestTimeout", cf.RequestTimeout, ret.RequestTimeout); err != nil {
		return ret, err
	}
	if ret.SyncInterval, err = parseDuration("syncInterval", cf.SyncInterval, ret.SyncInterval); err != nil {
		return ret, err
	}
	if ret.RetryCountdown, err = parseDuration("retryCountdown", cf.RetryCountdown, ret.RetryCountdown); err != nil {
		return ret, err
	}
	if ret.AutosaveDelay, err = parseDuration("autosaveDelay", cf.AutosaveDelay, ret.AutosaveDelay); err != nil {
		return ret, err
	}

	if cf.PageSize < 0 {
		return ret, errors.Errorf("pageSize must be positive, got %d", cf.PageSize)
	} else if cf.PageSize > 0 {
		ret.PageSize = cf.PageSize
	}

	if ret.SyncInterval < consts.MinSyncInterval {
		log.Warnf("syncInterval %s is below the minimum. using %s\n", ret.SyncInterval, consts.MinSyncInterval)
		ret.SyncInterval = consts.MinSyncInterval
	}

	return ret, nil
}
