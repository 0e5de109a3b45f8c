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
package app

import (
	stdctx "context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dnote/simplenote/pkg/assert"
	"github.com/dnote/simplenote/pkg/cli/client"
	"github.com/dnote/simplenote/pkg/cli/context"
	"github.com/pkg/errors"
)

func TestNewFiresLogoutOnExpiredSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"token not valid"}`))
	}))
	defer server.Close()

	ctx := context.InitTestCtx(t)
	ctx.APIEndpoint = server.URL
	if err := ctx.Tokens.SaveTokens("access", "refresh"); err != nil {
		t.Fatal(errors.Wrap(err, "saving tokens"))
	}

	a := New(ctx)
	_, err := a.Account.UserInfo(stdctx.Background())

	assert.Equal(t, errors.Cause(err), client.ErrAuthExpired, "error mismatch")
	assert.Equal(t, ctx.Logout.Count(), 1, "logout count mismatch")

	loggedIn, err := a.Account.LoggedIn()
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, loggedIn, false, "tokens should be cleared")
}

func TestNewSharesCache(t *testing.T) {
	ctx := context.InitTestCtx(t)
	a := New(ctx)

	n, err := a.Notes.Create("title", "body")
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating a note"))
	}

	pending, err := a.Cache.GetPending()
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, len(pending), 1, "pending count mismatch")
	assert.Equal(t, pending[0].ID, n.ID, "pending id mismatch")
}
