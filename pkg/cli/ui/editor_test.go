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
package ui

import (
	"fmt"
	"os"
	"testing"

	"github.com/dnote/simplenote/pkg/assert"
	"github.com/dnote/simplenote/pkg/cli/context"
	"github.com/pkg/errors"
)

func TestGetTmpContentPath(t *testing.T) {
	testCases := []struct {
		existing int
		expected string
	}{
		{existing: 0, expected: "SIMPLENOTE_TMPCONTENT_0.md"},
		{existing: 1, expected: "SIMPLENOTE_TMPCONTENT_1.md"},
		{existing: 2, expected: "SIMPLENOTE_TMPCONTENT_2.md"},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%d existing sessions", tc.existing), func(t *testing.T) {
			ctx := context.InitTestCtx(t)

			for i := 0; i < tc.existing; i++ {
				p := fmt.Sprintf("%s/SIMPLENOTE_TMPCONTENT_%d.md", ctx.Paths.Cache, i)
				if _, err := os.Create(p); err != nil {
					t.Fatal(errors.Wrap(err, "preparing the conflicting file"))
				}
			}

			res, err := GetTmpContentPath(ctx)
			if err != nil {
				t.Fatal(errors.Wrap(err, "executing"))
			}

			assert.Equal(t, res, fmt.Sprintf("%s/%s", ctx.Paths.Cache, tc.expected), "filename did not match")
		})
	}
}

func TestContentRoundTrip(t *testing.T) {
	testCases := []struct {
		raw         string
		title       string
		description string
	}{
		{raw: "Groceries\n\nmilk\neggs\n", title: "Groceries", description: "milk\neggs"},
		{raw: "Title only\n", title: "Title only", description: ""},
		{raw: "  Spaced  \r\nbody right below\r\n", title: "Spaced", description: "body right below"},
		{raw: "", title: "", description: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.title, func(t *testing.T) {
			title, description := ParseContent(tc.raw)
			assert.Equal(t, title, tc.title, "title mismatch")
			assert.Equal(t, description, tc.description, "description mismatch")

			title, description = ParseContent(FormatContent(title, description))
			assert.Equal(t, title, tc.title, "formatted title mismatch")
			assert.Equal(t, description, tc.description, "formatted description mismatch")
		})
	}
}
