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
	"io"
	"net/http"
	"strconv"

	"github.com/dnote/simplenote/pkg/server/app"
	mw "github.com/dnote/simplenote/pkg/server/middleware"
	"github.com/dnote/simplenote/pkg/server/token"
	"github.com/pkg/errors"
)

// errBadRequest is an error for a request whose body can not be parsed
var errBadRequest = errors.New("JSON parse error")

// fieldError is a validation failure in the response body. A null attr
// means the failure is not bound to a field.
type fieldError struct {
	Code   string  `json:"code"`
	Detail string  `json:"detail"`
	Attr   *string `json:"attr"`
}

// errorResponse is the body of a response to a rejected request
type errorResponse struct {
	Type   string       `json:"type"`
	Errors []fieldError `json:"errors"`
}

func newValidationResponse(verr *app.ValidationError) errorResponse {
	ret := errorResponse{
		Type:   "validation_error",
		Errors: []fieldError{},
	}

	for _, fe := range verr.Errors {
		e := fieldError{
			Code:   fe.Code,
			Detail: fe.Detail,
		}
		if fe.Attr != "" {
			attr := fe.Attr
			e.Attr = &attr
		}

		ret.Errors = append(ret.Errors, e)
	}

	return ret
}

// parseRequestData decodes the JSON body of the request into dest
func parseRequestData(r *http.Request, dest interface{}) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return errors.Wrap(err, "reading the request body")
	}

	if len(body) == 0 {
		body = []byte("{}")
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return errors.Wrap(errBadRequest, err.Error())
	}

	return nil
}

// handleJSONError responds to the failed request with the status and the
// body that err calls for
func handleJSONError(w http.ResponseWriter, err error, msg string) {
	if verr, ok := app.IsValidation(err); ok {
		mw.RespondJSON(w, http.StatusBadRequest, newValidationResponse(verr))
		return
	}

	switch {
	case errors.Is(err, errBadRequest):
		mw.RespondJSON(w, http.StatusBadRequest, errorResponse{
			Type: "client_error",
			Errors: []fieldError{
				{Code: "parse_error", Detail: err.Error()},
			},
		})
	case errors.Is(err, app.ErrNotFound):
		mw.RespondDetail(w, http.StatusNotFound, "Not found.", "not_found")
	case errors.Is(err, app.ErrInvalidPage):
		mw.RespondDetail(w, http.StatusNotFound, app.ErrInvalidPage.Error(), "not_found")
	case errors.Is(err, app.ErrLoginInvalid):
		mw.RespondUnauthorized(w, app.ErrLoginInvalid.Error(), "no_active_account")
	case errors.Is(err, token.ErrInvalid):
		mw.RespondUnauthorized(w, token.ErrInvalid.Error(), mw.CodeTokenNotValid)
	default:
		mw.DoError(w, msg, err, http.StatusInternalServerError)
	}
}

// parseIntParam parses an optional positive integer. An empty string yields def.
func parseIntParam(s string, def int) (int, bool) {
	if s == "" {
		return def, true
	}

	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}

	return n, true
}
