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
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrNotFound is an error for a missing record
	ErrNotFound = errors.New("not found")
	// ErrLoginInvalid is an error for credentials that match no account
	ErrLoginInvalid = errors.New("No active account found with the given credentials")
	// ErrInvalidPage is an error for a page outside of a listing
	ErrInvalidPage = errors.New("Invalid page.")
	// ErrUserHasExistingResources is an error for removing a user who still owns notes
	ErrUserHasExistingResources = errors.New("user still has notes")
)

// Codes of the field errors
const (
	CodeRequired = "required"
	CodeBlank    = "blank"
	CodeInvalid  = "invalid"
	CodeUnique   = "unique"
	CodeMaxLen   = "max_length"
	CodeTooShort = "password_too_short"
)

// FieldError is a validation failure of a request field. An empty Attr
// means the failure is not bound to a field.
type FieldError struct {
	Attr   string
	Code   string
	Detail string
}

// ValidationError is an error for a request rejected by validation
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		if fe.Attr == "" {
			parts = append(parts, fe.Detail)
			continue
		}

		parts = append(parts, fmt.Sprintf("%s: %s", fe.Attr, fe.Detail))
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a failure
func (e *ValidationError) Add(attr, code, detail string) {
	e.Errors = append(e.Errors, FieldError{Attr: attr, Code: code, Detail: detail})
}

// Has returns true if a failure was recorded for the given attr
func (e *ValidationError) Has(attr string) bool {
	for _, fe := range e.Errors {
		if fe.Attr == attr {
			return true
		}
	}

	return false
}

// Err returns e if it recorded any failure, and nil otherwise
func (e *ValidationError) Err() error {
	if len(e.Errors) == 0 {
		return nil
	}

	return e
}

// NewValidationError returns an error carrying a single failure
func NewValidationError(attr, code, detail string) *ValidationError {
	e := &ValidationError{}
	e.Add(attr, code, detail)

	return e
}

// IsValidation returns true if err is a validation error and returns it
func IsValidation(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}

	return nil, false
}
