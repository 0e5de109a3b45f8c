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
package context

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dnote/simplenote/pkg/assert"
	"github.com/dnote/simplenote/pkg/cli/consts"
	"github.com/dnote/simplenote/pkg/cli/credentials"
)

func assertDirExists(t *testing.T, path, name string) {
	t.Helper()

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("%s dir should exist: %v", name, err)
	}
	assert.Equal(t, info.IsDir(), true, name+" should be a directory")
}

func TestInitDirs(t *testing.T) {
	tmpDir := t.TempDir()

	paths := Paths{
		Config: filepath.Join(tmpDir, "config"),
		Data:   filepath.Join(tmpDir, "data"),
		Cache:  filepath.Join(tmpDir, "cache"),
	}

	for i := 0; i < 2; i++ {
		err := InitDirs(paths)
		assert.Equal(t, err, nil, "InitDirs should succeed")

		assertDirExists(t, filepath.Join(paths.Config, consts.SimplenoteDirName), "config")
		assertDirExists(t, filepath.Join(paths.Data, consts.SimplenoteDirName), "data")
		assertDirExists(t, filepath.Join(paths.Cache, consts.SimplenoteDirName), "cache")
	}
}

func TestRedact(t *testing.T) {
	tokens := credentials.NewManager(credentials.NewMemoryStore())
	ctx := SimplenoteCtx{APIEndpoint: "http://localhost:8000", Tokens: tokens}

	assert.Equal(t, Redact(ctx).LoggedIn, false, "logged out context")

	if err := tokens.SaveTokens("secret-access", "secret-refresh"); err != nil {
		t.Fatal(err)
	}

	r := Redact(ctx)
	assert.Equal(t, r.LoggedIn, true, "logged in context")
	assert.Equal(t, r.APIEndpoint, "http://localhost:8000", "endpoint mismatch")
}
