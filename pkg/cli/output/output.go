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
// Package output provides functions to print informations on the terminal
// in a consistent manner
package output

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/dnote/simplenote/pkg/cli/client"
	"github.com/dnote/simplenote/pkg/cli/database"
	"github.com/dnote/simplenote/pkg/cli/log"
	"github.com/dnote/simplenote/pkg/cli/syncer"
	"github.com/dnote/simplenote/pkg/cli/ui"
	"github.com/dnote/simplenote/pkg/cli/utils/diff"
)

const timeLayout = "Jan 2, 2006 3:04pm (MST)"

const titleWidth = 40

// PendingLabel returns a short label for a note that is not synced yet
func PendingLabel(n database.Note) string {
	switch n.PendingAction {
	case database.ActionCreate:
		return "not synced"
	case database.ActionUpdate:
		return "modified"
	case database.ActionDelete:
		return "deleted"
	}

	return ""
}

// Truncate shortens s to at most n runes, marking the cut with an ellipsis
func Truncate(s string, n int) string {
	s = strings.SplitN(s, "\n", 2)[0]

	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}

	return string(r[:n-3]) + "..."
}

func displayTitle(title string) string {
	if title == "" {
		return log.ColorGray.Sprint("(untitled)")
	}

	return Truncate(title, titleWidth)
}

// NoteInfo writes a note information
func NoteInfo(w io.Writer, n database.Note) {
	bullet := log.ColorBlue.Sprint("•")

	fmt.Fprintf(w, "  %s title: %s\n", bullet, n.Title)
	fmt.Fprintf(w, "  %s updated at: %s\n", bullet, time.Unix(0, n.UpdatedAt).Format(timeLayout))
	fmt.Fprintf(w, "  %s note id: %d\n", bullet, n.ID)
	if label := PendingLabel(n); label != "" {
		fmt.Fprintf(w, "  %s %s\n", log.ColorYellow.Sprint("•"), label)
	}

	fmt.Fprintf(w, "\n------------------------content------------------------\n")
	fmt.Fprintf(w, "%s", n.Description)
	fmt.Fprintf(w, "\n-------------------------------------------------------\n")
}

// NoteContent writes the raw content of a note, the title on the first line
func NoteContent(w io.Writer, n database.Note) {
	fmt.Fprint(w, ui.FormatContent(n.Title, n.Description))
}

// NoteList prints the cached notes, one per line
func NoteList(notes []database.Note) {
	if len(notes) == 0 {
		log.Info("no notes\n")
		return
	}

	for _, n := range notes {
		line := fmt.Sprintf("(%d) %s", n.ID, displayTitle(n.Title))
		if label := PendingLabel(n); label != "" {
			line = fmt.Sprintf("%s %s", line, log.ColorYellow.Sprintf("[%s]", label))
		}

		log.Plainf("%s %s\n", log.ColorGray.Sprint(time.Unix(0, n.UpdatedAt).Format("2006-01-02")), line)
	}
}

// RemotePage prints a page of the remote listing
func RemotePage(page, total, count int, notes []client.Note) {
	for _, n := range notes {
		log.Plainf("%s (%d) %s\n", log.ColorGray.Sprint(n.UpdatedAt.Format("2006-01-02")), n.ID, displayTitle(n.Title))
	}

	log.Infof("page %d of %d (%d notes)\n", page, total, count)
}

// User prints the user information
func User(u client.User) {
	log.Infof("username: %s\n", u.Username)
	if u.Email != "" {
		log.Infof("email: %s\n", u.Email)
	}
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		log.Infof("name: %s\n", name)
	}
}

// SyncResult prints the outcome of a sync
func SyncResult(r syncer.Result) {
	log.Successf("pushed %d created, %d updated, %d deleted\n", r.Created, r.Updated, r.Deleted)
	if r.Discarded > 0 {
		log.Warnf("%d local edits were dropped because the notes were deleted on the server\n", r.Discarded)
	}
	if r.Failed > 0 {
		log.Warnf("%d changes could not be pushed and will be retried\n", r.Failed)
	}
	if r.PullErr != nil {
		log.Warnf("could not refresh from the server: %s\n", r.PullErr.Error())
	} else {
		log.Successf("pulled %d notes\n", r.Pulled)
	}
}

// Diff prints a line-by-line diff between two contents
func Diff(before, after string) {
	for _, l := range diff.Lines(before, after) {
		switch l.Op {
		case diff.DiffInsert:
			log.Plainf("%s\n", log.ColorGreen.Sprintf("+ %s", l.Text))
		case diff.DiffDelete:
			log.Plainf("%s\n", log.ColorRed.Sprintf("- %s", l.Text))
		default:
			log.Plainf("  %s\n", l.Text)
		}
	}
}

// FieldErrors prints validation messages keyed by input field
func FieldErrors(fields map[string][]string) {
	order := make([]string, 0, len(fields))
	for field := range fields {
		order = append(order, field)
	}
	sort.Strings(order)

	for _, field := range order {
		for _, msg := range fields[field] {
			log.FieldErrorf(field, "%s\n", msg)
		}
	}
}
