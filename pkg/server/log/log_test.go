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

package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/dnote/simplenote/pkg/assert"
	"github.com/pkg/errors"
)

func TestSetLevel(t *testing.T) {
	// Reset to default after test
	defer SetLevel(LevelInfo)

	SetLevel(LevelDebug)
	assert.Equal(t, currentLevel, LevelDebug, "level mismatch")

	SetLevel(LevelError)
	assert.Equal(t, currentLevel, LevelError, "level mismatch")
}

func TestShouldLog(t *testing.T) {
	defer SetLevel(LevelInfo)

	testCases := []struct {
		currentLevel string
		logLevel     string
		expected     bool
	}{
		{LevelDebug, LevelDebug, true},
		{LevelDebug, LevelError, true},
		{LevelInfo, LevelDebug, false},
		{LevelInfo, LevelInfo, true},
		{LevelInfo, LevelWarn, true},
		{LevelWarn, LevelInfo, false},
		{LevelWarn, LevelWarn, true},
		{LevelError, LevelWarn, false},
		{LevelError, LevelError, true},
		{"unknown", LevelDebug, false},
		{"unknown", LevelInfo, true},
	}

	for _, tc := range testCases {
		SetLevel(tc.currentLevel)
		assert.Equal(t, shouldLog(tc.logLevel), tc.expected, tc.currentLevel+" showing "+tc.logLevel)
	}
}

func TestValidLevel(t *testing.T) {
	assert.Equal(t, ValidLevel(LevelWarn), true, "warn should be valid")
	assert.Equal(t, ValidLevel("verbose"), false, "verbose should be invalid")
	assert.Equal(t, ValidLevel(""), false, "empty level should be invalid")
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	prev := SetOutput(&buf)
	defer SetOutput(prev)
	defer SetLevel(LevelInfo)

	SetLevel(LevelInfo)
	WithFields(Fields{
		"method": "GET",
		"err":    errors.New("boom"),
	}).Info("request")
	Debug("hidden")

	var got map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(errors.Wrap(err, "decoding the entry"))
	}

	assert.Equal(t, got["level"], "info", "level mismatch")
	assert.Equal(t, got["msg"], "request", "msg mismatch")
	assert.Equal(t, got["method"], "GET", "field mismatch")
	assert.Equal(t, got["err"], "boom", "error field mismatch")
}
