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
	"net/http"
	"testing"

	"github.com/dnote/simplenote/pkg/cli/credentials"
	"github.com/dnote/simplenote/pkg/cli/database"
	"github.com/dnote/simplenote/pkg/cli/session"
	"github.com/dnote/simplenote/pkg/clock"
	"github.com/pkg/errors"
)

// InitTestCtx initializes a test context with an in-memory database, a
// temporary directory for all paths and the default settings
func InitTestCtx(t *testing.T) SimplenoteCtx {
	tmpDir := t.TempDir()
	paths := Paths{
		Home:   tmpDir,
		Cache:  tmpDir,
		Config: tmpDir,
		Data:   tmpDir,
	}

	if err := InitDirs(paths); err != nil {
		t.Fatal(errors.Wrap(err, "creating test directories"))
	}

	db := database.InitTestMemoryDB(t)

	return SimplenoteCtx{
		DB:         db,
		Paths:      paths,
		Clock:      clock.NewMock(), // Use a mock clock to test times
		HTTPClient: &http.Client{},
		Settings:   DefaultSettings(),
		Tokens:     credentials.NewManager(credentials.NewSystemStore(db)),
		Logout:     session.NewSignal(),
	}
}
