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
// Package prompt reads answers to interactive questions
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// ErrRequired is an error for an empty answer to a required question
var ErrRequired = errors.New("a value is required")

// FormatQuestion formats a yes/no question with the appropriate choice indicator
func FormatQuestion(question string, optimistic bool) string {
	choices := "(y/N)"
	if optimistic {
		choices = "(Y/n)"
	}
	return fmt.Sprintf("%s %s", question, choices)
}

// Reader reads answers line by line. It keeps its buffer across questions so
// that several answers can be read from the same input.
type Reader struct {
	r *bufio.Reader
}

// NewReader returns a reader over r
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Line reads a line without its line ending. The last line may lack a
// trailing newline.
func (r *Reader) Line() (string, error) {
	input, err := r.r.ReadString('\n')
	if err != nil && !(err == io.EOF && input != "") {
		return "", err
	}

	return strings.TrimRight(input, "\r\n"), nil
}

// Required reads a line and fails if it is blank
func (r *Reader) Required() (string, error) {
	input, err := r.Line()
	if err != nil {
		return "", err
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return "", ErrRequired
	}

	return input, nil
}

// YesNo reads and parses a yes/no answer. In optimistic mode, an empty
// answer is treated as confirmation.
func (r *Reader) YesNo(optimistic bool) (bool, error) {
	input, err := r.Line()
	if err != nil {
		return false, err
	}

	input = strings.ToLower(strings.TrimSpace(input))
	confirmed := input == "y" || input == "yes"

	if optimistic {
		confirmed = confirmed || input == ""
	}

	return confirmed, nil
}
