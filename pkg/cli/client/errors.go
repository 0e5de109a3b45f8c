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
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// ErrAuthExpired is an error for a session whose access token was rejected
// and could not be refreshed
var ErrAuthExpired = errors.New("session expired. please login again")

// ErrNotLoggedIn is an error for an authorized call made without credentials
var ErrNotLoggedIn = errors.New("not logged in")

// NetworkError is an error for a request that did not obtain a response
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %s", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Timeout returns true if the request timed out
func (e *NetworkError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(e.Err, &netErr) {
		return netErr.Timeout()
	}

	return false
}

// HTTPError represents a non-2xx response from the server
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf(`response %d "%s"`, e.StatusCode, e.Body)
}

// IsValidation returns true if the server rejected the request payload
func (e *HTTPError) IsValidation() bool {
	return e.StatusCode == http.StatusBadRequest
}

// FieldError is a validation failure reported by the server
type FieldError struct {
	Code   *string `json:"code"`
	Detail *string `json:"detail"`
	Attr   *string `json:"attr"`
}

type errorResponse struct {
	Type   string       `json:"type"`
	Errors []FieldError `json:"errors"`
}

// GeneralField is the key under which errors not bound to a field are reported
const GeneralField = "general"

// FieldErrors decodes the validation errors in the response body into a map
// of field name to messages. It returns nil if the body carries none.
func (e *HTTPError) FieldErrors() map[string][]string {
	var resp errorResponse
	if err := json.Unmarshal([]byte(e.Body), &resp); err != nil {
		return nil
	}
	if len(resp.Errors) == 0 {
		return nil
	}

	ret := map[string][]string{}
	for _, fe := range resp.Errors {
		attr := GeneralField
		if fe.Attr != nil {
			attr = *fe.Attr
		}

		msg := "Invalid value"
		if fe.Detail != nil {
			msg = *fe.Detail
		} else if fe.Code != nil {
			msg = *fe.Code
		}

		ret[attr] = append(ret[attr], msg)
	}

	return ret
}

// DecodeError is an error for a response whose payload could not be decoded
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding the response: %s", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsTimeout returns true if err is caused by a request timing out
func IsTimeout(err error) bool {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	return false
}

// IsNetwork returns true if err is caused by a request that obtained no response
func IsNetwork(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsUnauthorized returns true if err is caused by a rejected credential
func IsUnauthorized(err error) bool {
	if errors.Is(err, ErrAuthExpired) || errors.Is(err, ErrNotLoggedIn) {
		return true
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusUnauthorized
	}

	return false
}

// StatusCode returns the status code of the HTTP error wrapped in err, or 0
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}

	return 0
}

// Describe returns a one-line message for err suitable for the terminal
func Describe(err error) string {
	var httpErr *HTTPError

	switch {
	case IsTimeout(err):
		return "the server did not respond in time"
	case IsNetwork(err):
		return "could not reach the server"
	case errors.Is(err, ErrAuthExpired):
		return ErrAuthExpired.Error()
	case errors.As(err, &httpErr):
		if fields := httpErr.FieldErrors(); fields != nil {
			attrs := make([]string, 0, len(fields))
			for attr := range fields {
				attrs = append(attrs, attr)
			}
			sort.Strings(attrs)

			var parts []string
			for _, attr := range attrs {
				parts = append(parts, fmt.Sprintf("%s: %s", attr, strings.Join(fields[attr], ", ")))
			}
			return strings.Join(parts, "; ")
		}
		return fmt.Sprintf("the server responded with %d", httpErr.StatusCode)
	}

	return err.Error()
}
