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
package infra

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dnote/simplenote/pkg/assert"
	"github.com/dnote/simplenote/pkg/cli/config"
	"github.com/dnote/simplenote/pkg/cli/context"
	"github.com/pkg/errors"
)

func setTestDirs(t *testing.T) string {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmpDir, "data"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(tmpDir, "cache"))

	return tmpDir
}

func TestInit(t *testing.T) {
	tmpDir := setTestDirs(t)

	ctx, err := Init("1.0.0", "http://example.com/", "")
	if err != nil {
		t.Fatal(errors.Wrap(err, "executing"))
	}
	defer ctx.DB.Close()

	dbPath := filepath.Join(tmpDir, "data", "simplenote", "simplenote.db")
	_, err = os.Stat(dbPath)
	assert.Equal(t, err, nil, "database file should exist")

	assert.Equal(t, ctx.APIEndpoint, "http://example.com/", "endpoint mismatch")
	assert.Equal(t, ctx.Version, "1.0.0", "version mismatch")
	assert.Equal(t, ctx.Settings, context.DefaultSettings(), "settings mismatch")

	var count int
	if err := ctx.DB.QueryRow("SELECT count(*) FROM notes").Scan(&count); err != nil {
		t.Fatal(errors.Wrap(err, "querying the notes table"))
	}
	assert.Equal(t, count, 0, "notes table should be empty")

	loggedIn, err := ctx.Tokens.LoggedIn()
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, loggedIn, false, "new install should be logged out")
}

func TestInitKeepsExistingConfig(t *testing.T) {
	setTestDirs(t)

	ctx, err := Init("1.0.0", "", "")
	if err != nil {
		t.Fatal(errors.Wrap(err, "first init"))
	}

	cf, err := config.Read(*ctx)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, cf.APIEndpoint, DefaultAPIEndpoint, "default endpoint mismatch")

	cf.PageSize = 10
	cf.APIEndpoint = "http://custom/"
	if err := config.Write(*ctx, cf); err != nil {
		t.Fatal(err)
	}
	ctx.DB.Close()

	ctx, err = Init("1.0.0", "http://ignored/", "")
	if err != nil {
		t.Fatal(errors.Wrap(err, "second init"))
	}
	defer ctx.DB.Close()

	assert.Equal(t, ctx.APIEndpoint, "http://custom/", "endpoint should come from the existing config")
	assert.Equal(t, ctx.Settings.PageSize, 10, "page size mismatch")
}
