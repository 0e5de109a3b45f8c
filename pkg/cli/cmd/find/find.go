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
	stdctx "context"
	"strings"
	"time"

	"github.com/dnote/simplenote/pkg/cli/app"
	"github.com/dnote/simplenote/pkg/cli/client"
	"github.com/dnote/simplenote/pkg/cli/context"
	"github.com/dnote/simplenote/pkg/cli/database"
	"github.com/dnote/simplenote/pkg/cli/infra"
	"github.com/dnote/simplenote/pkg/cli/log"
	"github.com/dnote/simplenote/pkg/cli/output"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var example = `
  # find notes containing a word, in the title or the content
  simplenote find rpoplpush

  # search the server by title, edited since a date
  simplenote find --remote --title groceries --since 2024-01-02
`

var remoteFlag bool
var titleFlag string
var descriptionFlag string
var sinceFlag string
var untilFlag string
var pageFlag int

const dateLayout = "2006-01-02"

// excerptRadius is the number of runes kept on each side of the first match
const excerptRadius = 30

func preRun(cmd *cobra.Command, args []string) error {
	if remoteFlag {
		if len(args) > 0 {
			return errors.New("use --title and --description to search the server")
		}
		return nil
	}
	if len(args) != 1 {
		return errors.New("Incorrect number of argument")
	}

	return nil
}

// NewCmd returns a new find command
func NewCmd(ctx context.SimplenoteCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "find <query>",
		Short:   "Find notes by keywords",
		Aliases: []string{"f"},
		Example: example,
		PreRunE: preRun,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.BoolVarP(&remoteFlag, "remote", "r", false, "search the notes on the server")
	f.StringVar(&titleFlag, "title", "", "with --remote, title to match")
	f.StringVar(&descriptionFlag, "description", "", "with --remote, content to match")
	f.StringVar(&sinceFlag, "since", "", "with --remote, only notes updated on or after the date (YYYY-MM-DD)")
	f.StringVar(&untilFlag, "until", "", "with --remote, only notes updated on or before the date (YYYY-MM-DD)")
	f.IntVarP(&pageFlag, "page", "p", 1, "with --remote, the page of the results")

	return cmd
}

// highlight wraps every case-insensitive occurrence of the query in s
func highlight(s, query string, wrap func(string) string) string {
	if query == "" {
		return s
	}

	lower := strings.ToLower(s)
	q := strings.ToLower(query)
	if len(lower) != len(s) {
		// case folding changed the byte length. matches can not be mapped back.
		return s
	}

	var b strings.Builder
	idx := 0
	for {
		i := strings.Index(lower[idx:], q)
		if i == -1 {
			b.WriteString(s[idx:])
			break
		}

		start := idx + i
		end := start + len(q)
		b.WriteString(s[idx:start])
		b.WriteString(wrap(s[start:end]))
		idx = end
	}

	return b.String()
}

// excerpt returns the part of the text around the first match on a single line
func excerpt(s, query string) string {
	flat := strings.Join(strings.Fields(s), " ")
	r := []rune(flat)

	i := strings.Index(strings.ToLower(flat), strings.ToLower(query))
	if i == -1 {
		return output.Truncate(flat, excerptRadius*2)
	}

	pos := len([]rune(flat[:i]))
	start := pos - excerptRadius
	prefix := "..."
	if start <= 0 {
		start = 0
		prefix = ""
	}
	end := pos + len([]rune(query)) + excerptRadius
	suffix := "..."
	if end >= len(r) {
		end = len(r)
		suffix = ""
	}

	return prefix + string(r[start:end]) + suffix
}

func printLocal(matches []database.Note, query string) {
	wrap := func(m string) string { return log.ColorYellow.Sprint(m) }

	for _, n := range matches {
		log.Plainf("%s %s\n", log.ColorGray.Sprintf("(%d)", n.ID), highlight(n.Title, query, wrap))
		if strings.Contains(strings.ToLower(n.Description), strings.ToLower(query)) {
			log.Plainf("    %s\n", highlight(excerpt(n.Description, query), query, wrap))
		}
	}
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}

	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return t, errors.Wrapf(err, "invalid date '%s'", s)
	}

	return t, nil
}

func filterParams(pageSize int) (client.FilterParams, error) {
	since, err := parseDate(sinceFlag)
	if err != nil {
		return client.FilterParams{}, err
	}
	until, err := parseDate(untilFlag)
	if err != nil {
		return client.FilterParams{}, err
	}
	if !until.IsZero() {
		// include the whole day
		until = until.Add(24*time.Hour - time.Nanosecond)
	}

	return client.FilterParams{
		Title:       titleFlag,
		Description: descriptionFlag,
		UpdatedGTE:  since,
		UpdatedLTE:  until,
		Page:        pageFlag,
		PageSize:    pageSize,
	}, nil
}

func newRun(ctx context.SimplenoteCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		a := app.New(ctx)

		if remoteFlag {
			params, err := filterParams(ctx.Settings.PageSize)
			if err != nil {
				return err
			}

			resp, err := a.Notes.Filter(stdctx.Background(), params)
			if err != nil {
				return errors.Wrap(err, "searching the server")
			}

			output.RemotePage(params.Page, resp.TotalPages(params.PageSize), resp.Count, resp.Results)
			return nil
		}

		query := args[0]
		matches, err := a.Notes.Search(query)
		if err != nil {
			return errors.Wrap(err, "searching notes")
		}
		if len(matches) == 0 {
			log.Info("no matches\n")
			return nil
		}

		printLocal(matches, query)

		return nil
	}
}
