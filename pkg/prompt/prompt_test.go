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
package prompt

import (
	"io"
	"strings"
	"testing"

	"github.com/dnote/simplenote/pkg/assert"
)

func TestFormatQuestion(t *testing.T) {
	assert.Equal(t, FormatQuestion("Remove the note?", false), "Remove the note? (y/N)", "pessimistic mismatch")
	assert.Equal(t, FormatQuestion("Continue?", true), "Continue? (Y/n)", "optimistic mismatch")
}

func TestYesNo(t *testing.T) {
	testCases := []struct {
		name       string
		input      string
		optimistic bool
		expected   bool
	}{
		{name: "pessimistic with y", input: "y\n", expected: true},
		{name: "pessimistic with Y", input: "Y\n", expected: true},
		{name: "pessimistic with yes", input: "yes\n", expected: true},
		{name: "pessimistic with n", input: "n\n", expected: false},
		{name: "pessimistic with empty", input: "\n", expected: false},
		{name: "optimistic with n", input: "n\n", optimistic: true, expected: false},
		{name: "optimistic with empty", input: "\n", optimistic: true, expected: true},
		{name: "optimistic with whitespace", input: "  \n", optimistic: true, expected: true},
		{name: "no trailing newline", input: "y", expected: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NewReader(strings.NewReader(tc.input)).YesNo(tc.optimistic)
			if err != nil {
				t.Fatal(err)
			}

			assert.Equal(t, got, tc.expected, "confirmation mismatch")
		})
	}
}

func TestSequentialAnswers(t *testing.T) {
	r := NewReader(strings.NewReader("alice\r\n\nalice@example.com\n"))

	username, err := r.Required()
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, username, "alice", "username mismatch")

	_, err = r.Required()
	assert.Equal(t, err, ErrRequired, "blank answer should be rejected")

	email, err := r.Line()
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, email, "alice@example.com", "email mismatch")

	_, err = r.Line()
	assert.Equal(t, err, io.EOF, "exhausted input should return EOF")
}
