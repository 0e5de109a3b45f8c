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
	"testing"

	"github.com/dnote/simplenote/pkg/assert"
	"github.com/pkg/errors"
)

func TestValidationError(t *testing.T) {
	v := &ValidationError{}
	assert.Equal(t, v.Err(), nil, "empty validation should not be an error")

	v.Add("username", CodeBlank, "This field may not be blank.")
	v.Add("", CodeInvalid, "Something is off.")

	assert.Equal(t, v.Has("username"), true, "username should be recorded")
	assert.Equal(t, v.Has("password"), false, "password should not be recorded")
	assert.Equal(t, v.Error(), "validation failed: username: This field may not be blank.; Something is off.", "message mismatch")

	got, ok := IsValidation(errors.Wrap(v.Err(), "creating user"))
	assert.Equal(t, ok, true, "wrapped validation error should be detected")
	assert.Equal(t, len(got.Errors), 2, "errors count mismatch")

	_, ok = IsValidation(ErrNotFound)
	assert.Equal(t, ok, false, "other errors are not validation errors")
}
