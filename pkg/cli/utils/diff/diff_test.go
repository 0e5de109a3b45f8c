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
package diff

import (
	"testing"

	"github.com/dnote/simplenote/pkg/assert"
)

func TestLines(t *testing.T) {
	testCases := []struct {
		s1       string
		s2       string
		expected []Line
	}{
		{
			s1:       "a\nb\n",
			s2:       "a\nb\n",
			expected: []Line{{Op: DiffEqual, Text: "a"}, {Op: DiffEqual, Text: "b"}},
		},
		{
			s1: "title\nold body\n",
			s2: "title\nnew body\n",
			expected: []Line{
				{Op: DiffEqual, Text: "title"},
				{Op: DiffDelete, Text: "old body"},
				{Op: DiffInsert, Text: "new body"},
			},
		},
		{
			s1: "",
			s2: "added\n",
			expected: []Line{
				{Op: DiffInsert, Text: "added"},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.s1+"->"+tc.s2, func(t *testing.T) {
			assert.DeepEqual(t, Lines(tc.s1, tc.s2), tc.expected, "lines mismatch")
		})
	}
}

func TestChanged(t *testing.T) {
	assert.Equal(t, Changed("a\n", "a\n"), false, "identical strings")
	assert.Equal(t, Changed("a\n", "b\n"), true, "different strings")
}
