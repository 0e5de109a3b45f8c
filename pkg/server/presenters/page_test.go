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

package presenters

import (
	"net/http/httptest"
	"testing"

	"github.com/dnote/simplenote/pkg/assert"
)

func TestPresentPage(t *testing.T) {
	testCases := []struct {
		name             string
		target           string
		page             int
		hasNext          bool
		hasPrevious      bool
		expectedNext     *string
		expectedPrevious *string
	}{
		{
			name:             "first page",
			target:           "http://example.com/api/notes/?page_size=6",
			page:             1,
			hasNext:          true,
			expectedNext:     strPtr("http://example.com/api/notes/?page=2&page_size=6"),
			expectedPrevious: nil,
		},
		{
			name:             "second page",
			target:           "http://example.com/api/notes/?page=2&page_size=6",
			page:             2,
			hasNext:          true,
			hasPrevious:      true,
			expectedNext:     strPtr("http://example.com/api/notes/?page=3&page_size=6"),
			expectedPrevious: strPtr("http://example.com/api/notes/?page_size=6"),
		},
		{
			name:             "filter keeps the query",
			target:           "http://example.com/api/notes/filter?title=go&page=3",
			page:             3,
			hasPrevious:      true,
			expectedNext:     nil,
			expectedPrevious: strPtr("http://example.com/api/notes/filter?page=2&title=go"),
		},
		{
			name:   "single page",
			target: "http://example.com/api/notes/",
			page:   1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tc.target, nil)

			got := PresentPage(r, 13, tc.page, tc.hasNext, tc.hasPrevious, []Note{})

			assert.Equal(t, got.Count, int64(13), "count mismatch")
			assert.DeepEqual(t, got.Next, tc.expectedNext, "next mismatch")
			assert.DeepEqual(t, got.Previous, tc.expectedPrevious, "previous mismatch")
		})
	}
}

func TestPresentPageForwardedProto(t *testing.T) {
	r := httptest.NewRequest("GET", "http://example.com/api/notes/", nil)
	r.Header.Set("X-Forwarded-Proto", "https")

	got := PresentPage(r, 20, 1, true, false, []Note{})

	assert.DeepEqual(t, got.Next, strPtr("https://example.com/api/notes/?page=2"), "next mismatch")
}

func strPtr(s string) *string {
	return &s
}
