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

package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dnote/simplenote/pkg/assert"
	"github.com/dnote/simplenote/pkg/server/app"
	"github.com/pkg/errors"
)

func decodeBody(t *testing.T, res *http.Response, dest interface{}) {
	t.Helper()
	defer res.Body.Close()

	assert.Equal(t, res.Header.Get("Content-Type"), "application/json", "content type mismatch")
	if err := json.NewDecoder(res.Body).Decode(dest); err != nil {
		t.Fatal(errors.Wrap(err, "decoding the response body"))
	}
}

// errorAttrs maps the attributes of the failures in a validation response
// to their codes. A failure not bound to a field is keyed by an empty string.
func errorAttrs(t *testing.T, res *http.Response) map[string]string {
	t.Helper()

	var body errorResponse
	decodeBody(t, res, &body)
	assert.Equal(t, body.Type, "validation_error", "error type mismatch")

	ret := map[string]string{}
	for _, e := range body.Errors {
		attr := ""
		if e.Attr != nil {
			attr = *e.Attr
		}
		ret[attr] = e.Code
	}

	return ret
}

func TestParseIntParam(t *testing.T) {
	testCases := []struct {
		input    string
		expected int
		ok       bool
	}{
		{"", 7, true},
		{"1", 1, true},
		{"42", 42, true},
		{"0", 0, false},
		{"-3", 0, false},
		{"abc", 0, false},
		{"1.5", 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, ok := parseIntParam(tc.input, 7)
			assert.Equal(t, ok, tc.ok, "ok mismatch")
			assert.Equal(t, got, tc.expected, "value mismatch")
		})
	}
}

func TestParseDateParam(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
		invalid  bool
	}{
		{input: "2024-03-01T10:00:00Z", expected: "2024-03-01T10:00:00Z"},
		{input: "2024-03-01T10:00:00+09:00", expected: "2024-03-01T01:00:00Z"},
		{input: "2024-03-01T10:00:00", expected: "2024-03-01T10:00:00Z"},
		{input: "2024-03-01", expected: "2024-03-01T00:00:00Z"},
		{input: "yesterday", invalid: true},
		{input: "2024-13-01", invalid: true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			v := &app.ValidationError{}
			got := parseDateParam(v, "updated__gte", tc.input)

			assert.Equal(t, v.Has("updated__gte"), tc.invalid, "invalid mismatch")
			if tc.invalid {
				assert.Equal(t, got == nil, true, "invalid input should yield nil")
				return
			}
			assert.Equal(t, got.UTC().Format("2006-01-02T15:04:05Z07:00"), tc.expected, "time mismatch")
		})
	}

	t.Run("empty", func(t *testing.T) {
		v := &app.ValidationError{}
		got := parseDateParam(v, "updated__gte", "")

		assert.Equal(t, got == nil, true, "empty input should yield nil")
		assert.Equal(t, len(v.Errors), 0, "empty input should not fail")
	})
}

func TestParseRequestData(t *testing.T) {
	t.Run("malformed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{title"))

		var form CreateNoteForm
		err := parseRequestData(req, &form)
		assert.Equal(t, errors.Is(err, errBadRequest), true, "error mismatch")

		handleJSONError(rec, err, "parsing")
		res := rec.Result()
		assert.Equal(t, res.StatusCode, http.StatusBadRequest, "status code mismatch")

		var body errorResponse
		decodeBody(t, res, &body)
		assert.Equal(t, body.Type, "client_error", "type mismatch")
		assert.Equal(t, len(body.Errors), 1, "error count mismatch")
		assert.Equal(t, body.Errors[0].Code, "parse_error", "code mismatch")
	})

	t.Run("empty body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)

		var form CreateNoteForm
		err := parseRequestData(req, &form)
		assert.Equal(t, err, nil, "error mismatch")
	})
}

func TestHandleJSONError(t *testing.T) {
	testCases := []struct {
		name       string
		err        error
		statusCode int
	}{
		{"validation", app.NewValidationError("title", app.CodeBlank, "blank"), http.StatusBadRequest},
		{"not found", errors.Wrap(app.ErrNotFound, "finding"), http.StatusNotFound},
		{"invalid page", app.ErrInvalidPage, http.StatusNotFound},
		{"login", app.ErrLoginInvalid, http.StatusUnauthorized},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleJSONError(rec, tc.err, "testing")

			assert.Equal(t, rec.Code, tc.statusCode, "status code mismatch")
			assert.Equal(t, rec.Header().Get("Content-Type"), "application/json", "content type mismatch")
		})
	}
}
