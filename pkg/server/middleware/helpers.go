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

// Package middleware provides the HTTP middlewares of the server and the
// helpers to write their responses
package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dnote/simplenote/pkg/server/log"
	"github.com/pkg/errors"
)

// ErrMalformedAuthHeader is an error for an Authorization header that does
// not carry a bearer token
var ErrMalformedAuthHeader = errors.New("Authorization header is malformed")

// Detail is the body of a response that carries a message
type Detail struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
}

// getCredentialFromAuth returns the bearer token in the Authorization header
func getCredentialFromAuth(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", nil
	}

	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", ErrMalformedAuthHeader
	}

	return parts[1], nil
}

// GetCredential extracts the bearer credential from the request. It returns
// an empty string if the request carries none.
func GetCredential(r *http.Request) (string, error) {
	ret, err := getCredentialFromAuth(r)
	if err != nil {
		return "", errors.Wrap(err, "getting credential from the Authorization header")
	}

	return ret, nil
}

// RespondJSON writes v as the JSON body of a response with the given status
func RespondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if v == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.ErrorWrap(err, "encoding the response")
	}
}

// RespondDetail writes a response carrying a message
func RespondDetail(w http.ResponseWriter, status int, detail, code string) {
	RespondJSON(w, status, Detail{Detail: detail, Code: code})
}

// RespondUnauthorized responds with 401 and the given reason
func RespondUnauthorized(w http.ResponseWriter, detail, code string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
	RespondDetail(w, http.StatusUnauthorized, detail, code)
}

// DoError logs the error and responds with the given status
func DoError(w http.ResponseWriter, msg string, err error, statusCode int) {
	if err != nil {
		log.WithFields(log.Fields{
			"statusCode": statusCode,
		}).ErrorWrap(err, msg)
	}

	RespondDetail(w, statusCode, http.StatusText(statusCode), "")
}

// NotFound responds with 404
func NotFound(w http.ResponseWriter, r *http.Request) {
	RespondDetail(w, http.StatusNotFound, "Not found.", "not_found")
}

// MethodNotAllowed responds with 405
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	RespondDetail(w, http.StatusMethodNotAllowed, "Method \""+r.Method+"\" not allowed.", "method_not_allowed")
}
