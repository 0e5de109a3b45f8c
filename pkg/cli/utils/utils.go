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
// Package utils provides small helpers shared by the CLI packages
package utils

import (
	"regexp"
	"strconv"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// GenerateUUID returns a uuid v4 in string
func GenerateUUID() (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", errors.Wrap(err, "generating uuid")
	}

	return u.String(), nil
}

// regexNoteID matches a note id. Temporary ids of notes that were never
// synced are negative.
var regexNoteID = regexp.MustCompile(`^-?\d+$`)

// IsNoteID checks if the given string is in the form of a note id
func IsNoteID(s string) bool {
	if s == "" {
		return false
	}

	return regexNoteID.MatchString(s)
}

// ParseNoteID parses a note id given as a command argument
func ParseNoteID(s string) (int64, error) {
	if !IsNoteID(s) {
		return 0, errors.Errorf("invalid note id '%s'", s)
	}

	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing note id '%s'", s)
	}

	return id, nil
}
