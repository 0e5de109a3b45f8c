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
	"strings"
)

// FormatContent renders a note for editing. The first line holds the title
// and the description follows after a blank line.
func FormatContent(title, description string) string {
	if description == "" {
		return title + "\n"
	}

	return title + "\n\n" + description + "\n"
}

// ParseContent reads a note back from the edited text
func ParseContent(raw string) (title, description string) {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")

	parts := strings.SplitN(raw, "\n", 2)
	title = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		description = strings.TrimSpace(parts[1])
	}

	return title, description
}
