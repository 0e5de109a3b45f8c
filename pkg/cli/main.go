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
package main

import (
	"os"
	"strings"

	"github.com/dnote/simplenote/pkg/cli/infra"
	"github.com/dnote/simplenote/pkg/cli/log"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	// commands
	"github.com/dnote/simplenote/pkg/cli/cmd/add"
	"github.com/dnote/simplenote/pkg/cli/cmd/cat"
	"github.com/dnote/simplenote/pkg/cli/cmd/daemon"
	"github.com/dnote/simplenote/pkg/cli/cmd/edit"
	"github.com/dnote/simplenote/pkg/cli/cmd/find"
	"github.com/dnote/simplenote/pkg/cli/cmd/login"
	"github.com/dnote/simplenote/pkg/cli/cmd/logout"
	"github.com/dnote/simplenote/pkg/cli/cmd/ls"
	"github.com/dnote/simplenote/pkg/cli/cmd/passwd"
	"github.com/dnote/simplenote/pkg/cli/cmd/register"
	"github.com/dnote/simplenote/pkg/cli/cmd/remove"
	"github.com/dnote/simplenote/pkg/cli/cmd/root"
	"github.com/dnote/simplenote/pkg/cli/cmd/sync"
	"github.com/dnote/simplenote/pkg/cli/cmd/version"
	"github.com/dnote/simplenote/pkg/cli/cmd/view"
	"github.com/dnote/simplenote/pkg/cli/cmd/whoami"
)

// apiEndpoint and versionTag are populated during link time
var apiEndpoint string
var versionTag = "master"

// parseFlag extracts the value of a global flag from command line arguments
// regardless of where it appears (before or after subcommand).
// Returns empty string if not found.
func parseFlag(args []string, name string) string {
	long := "--" + name
	for i, arg := range args {
		// Handle --name=value
		if strings.HasPrefix(arg, long+"=") {
			return strings.TrimPrefix(arg, long+"=")
		}
		// Handle --name value
		if arg == long && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func main() {
	// Global flags are needed before the commands are built, and
	// root.ParseFlags only parses flags before the subcommand.
	dbPath := parseFlag(os.Args[1:], "dbPath")
	endpointFlag := parseFlag(os.Args[1:], "apiEndpoint")

	// Initialize context - apiEndpoint is used when creating new config file
	ctx, err := infra.Init(versionTag, apiEndpoint, dbPath)
	if err != nil {
		panic(errors.Wrap(err, "initializing context"))
	}
	defer ctx.DB.Close()

	if endpointFlag != "" {
		ctx.APIEndpoint = endpointFlag
	}

	root.Register(add.NewCmd(*ctx))
	root.Register(cat.NewCmd(*ctx))
	root.Register(daemon.NewCmd(*ctx))
	root.Register(edit.NewCmd(*ctx))
	root.Register(find.NewCmd(*ctx))
	root.Register(login.NewCmd(*ctx))
	root.Register(logout.NewCmd(*ctx))
	root.Register(ls.NewCmd(*ctx))
	root.Register(passwd.NewCmd(*ctx))
	root.Register(register.NewCmd(*ctx))
	root.Register(remove.NewCmd(*ctx))
	root.Register(sync.NewCmd(*ctx))
	root.Register(version.NewCmd(*ctx))
	root.Register(view.NewCmd(*ctx))
	root.Register(whoami.NewCmd(*ctx))

	err = root.Execute()

	if ctx.Logout.Count() > 0 {
		log.Warnf("your session expired. run 'simplenote login' to continue syncing\n")
	}
	if err != nil {
		log.Errorf("%s\n", err.Error())
		os.Exit(1)
	}
}
