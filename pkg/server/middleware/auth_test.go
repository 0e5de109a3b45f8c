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

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dnote/simplenote/pkg/assert"
	"github.com/dnote/simplenote/pkg/clock"
	"github.com/dnote/simplenote/pkg/server/app"
	"github.com/dnote/simplenote/pkg/server/context"
	"github.com/dnote/simplenote/pkg/server/testutils"
	"github.com/pkg/errors"
)

func TestAuth(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	user := testutils.SetupUserData(db, "alice", "pass1234")

	a := app.NewTest()
	a.DB = db
	mockClock := a.Clock.(*clock.Mock)

	handler := func(w http.ResponseWriter, r *http.Request) {
		u := context.User(r.Context())
		if u == nil {
			t.Error("user is missing from the context")
			return
		}

		w.Write([]byte(u.Username))
	}

	server := httptest.NewServer(Auth(&a, handler))
	defer server.Close()

	access, err := a.Tokens.CreateAccess(user.ID)
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating access"))
	}
	refresh, err := a.Tokens.CreateRefresh(db, user.ID)
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating refresh"))
	}
	orphan, err := a.Tokens.CreateAccess(user.ID + 100)
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating access"))
	}

	decode := func(t *testing.T, res *http.Response) Detail {
		var ret Detail
		if err := json.NewDecoder(res.Body).Decode(&ret); err != nil {
			t.Fatal(errors.Wrap(err, "decoding"))
		}
		return ret
	}

	t.Run("valid token", func(t *testing.T) {
		req := testutils.MakeReq(server.URL, "GET", "/", "")
		req.Header.Set("Authorization", "Bearer "+access)
		res := testutils.HTTPDo(t, req)
		defer res.Body.Close()

		assert.StatusCodeEquals(t, res, http.StatusOK, "status code mismatch")
	})

	t.Run("no auth", func(t *testing.T) {
		req := testutils.MakeReq(server.URL, "GET", "/", "")
		res := testutils.HTTPDo(t, req)
		defer res.Body.Close()

		assert.Equal(t, res.StatusCode, http.StatusUnauthorized, "status code mismatch")
		assert.Equal(t, decode(t, res).Code, CodeNotAuthenticated, "code mismatch")
	})

	t.Run("malformed header", func(t *testing.T) {
		req := testutils.MakeReq(server.URL, "GET", "/", "")
		req.Header.Set("Authorization", "InvalidFormat")
		res := testutils.HTTPDo(t, req)
		defer res.Body.Close()

		assert.Equal(t, res.StatusCode, http.StatusUnauthorized, "status code mismatch")
		assert.Equal(t, decode(t, res).Code, CodeTokenNotValid, "code mismatch")
	})

	t.Run("refresh token as access", func(t *testing.T) {
		req := testutils.MakeReq(server.URL, "GET", "/", "")
		req.Header.Set("Authorization", "Bearer "+refresh)
		res := testutils.HTTPDo(t, req)
		defer res.Body.Close()

		assert.Equal(t, res.StatusCode, http.StatusUnauthorized, "status code mismatch")
		assert.Equal(t, decode(t, res).Code, CodeTokenNotValid, "code mismatch")
	})

	t.Run("unknown user", func(t *testing.T) {
		req := testutils.MakeReq(server.URL, "GET", "/", "")
		req.Header.Set("Authorization", "Bearer "+orphan)
		res := testutils.HTTPDo(t, req)
		defer res.Body.Close()

		assert.Equal(t, res.StatusCode, http.StatusUnauthorized, "status code mismatch")
		assert.Equal(t, decode(t, res).Code, CodeUserNotFound, "code mismatch")
	})

	t.Run("expired token", func(t *testing.T) {
		mockClock.Advance(time.Hour)

		req := testutils.MakeReq(server.URL, "GET", "/", "")
		req.Header.Set("Authorization", "Bearer "+access)
		res := testutils.HTTPDo(t, req)
		defer res.Body.Close()

		assert.Equal(t, res.StatusCode, http.StatusUnauthorized, "status code mismatch")
		assert.Equal(t, decode(t, res).Code, CodeTokenNotValid, "code mismatch")
	})
}
