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
package find

import (
	"fmt"
	"testing"
	"time"

	"github.com/dnote/simplenote/pkg/assert"
)

func bracket(s string) string {
	return "<" + s + ">"
}

func TestHighlight(t *testing.T) {
	testCases := []struct {
		input    string
		query    string
		expected string
	}{
		{input: "foo bar", query: "bar", expected: "foo <bar>"},
		{input: "Foo bar foo", query: "foo", expected: "<Foo> bar <foo>"},
		{input: "foo bar", query: "baz", expected: "foo bar"},
		{input: "foo bar", query: "", expected: "foo bar"},
		{input: "aaa", query: "aa", expected: "<aa>a"},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%s/%s", tc.input, tc.query), func(t *testing.T) {
			assert.Equal(t, highlight(tc.input, tc.query, bracket), tc.expected, "result mismatch")
		})
	}
}

func TestExcerpt(t *testing.T) {
	long := "the quick brown fox jumps over the lazy dog and keeps running through the forest until night"

	testCases := []struct {
		input    string
		query    string
		expected string
	}{
		{input: "short text", query: "text", expected: "short text"},
		{input: "line one\nline two", query: "two", expected: "line one line two"},
		{input: long, query: "lazy", expected: "...uick brown fox jumps over the lazy dog and keeps running through..."},
		{input: long, query: "quick", expected: "the quick brown fox jumps over the lazy..."},
	}

	for _, tc := range testCases {
		t.Run(tc.query, func(t *testing.T) {
			assert.Equal(t, excerpt(tc.input, tc.query), tc.expected, "result mismatch")
		})
	}
}

func TestFilterParams(t *testing.T) {
	sinceFlag = "2024-01-02"
	untilFlag = "2024-01-03"
	titleFlag = "groceries"
	pageFlag = 2
	defer func() {
		sinceFlag, untilFlag, titleFlag, pageFlag = "", "", "", 1
	}()

	params, err := filterParams(6)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, params.Title, "groceries", "title mismatch")
	assert.Equal(t, params.Page, 2, "page mismatch")
	assert.Equal(t, params.PageSize, 6, "page size mismatch")
	assert.Equal(t, params.UpdatedGTE.Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.Local)), true, "since mismatch")
	assert.Equal(t, params.UpdatedLTE.Equal(time.Date(2024, 1, 3, 23, 59, 59, 999999999, time.Local)), true, "until mismatch")
}

func TestFilterParamsInvalidDate(t *testing.T) {
	sinceFlag = "yesterday"
	defer func() { sinceFlag = "" }()

	_, err := filterParams(6)
	assert.NotEqual(t, err, nil, "should reject an invalid date")
}
