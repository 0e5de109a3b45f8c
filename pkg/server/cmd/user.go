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

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/dnote/simplenote/pkg/prompt"
	"github.com/dnote/simplenote/pkg/server/app"
	"github.com/dnote/simplenote/pkg/server/log"
	"github.com/pkg/errors"
)

const userCommandsUsage = `Available commands:
  create: Create a new user
  remove: Remove a user (only if they have no notes)
  reset-password: Reset a user's password`

// confirm prompts for user input to confirm a choice
func confirm(r io.Reader, question string, optimistic bool) (bool, error) {
	message := prompt.FormatQuestion(question, optimistic)
	fmt.Print(message + " ")

	confirmed, err := prompt.NewReader(r).YesNo(optimistic)
	if err != nil {
		return false, errors.Wrap(err, "reading stdin")
	}

	return confirmed, nil
}

// printUserError reports a failure to find or change a user
func printUserError(err error, username, msg string) {
	if verr, ok := app.IsValidation(err); ok {
		fmt.Printf("Error: %s\n", verr.Error())
	} else if errors.Is(err, app.ErrNotFound) {
		fmt.Printf("Error: user %s not found\n", username)
	} else if errors.Is(err, app.ErrUserHasExistingResources) {
		fmt.Printf("Error: %s\n", err)
	} else {
		log.ErrorWrap(err, msg)
	}
}

func userCreateCmd(args []string) {
	fs := setupFlagSet("create", "simplenote-server user create")

	username := fs.String("username", "", "Username (required)")
	password := fs.String("password", "", "User password (required)")
	email := fs.String("email", "", "User email address")
	dbPath := fs.String("dbPath", "", dbPathUsage)

	fs.Parse(args)

	requireString(fs, *username, "username")
	requireString(fs, *password, "password")

	a, cleanup := setupAppWithDB(fs, *dbPath)
	defer cleanup()

	_, err := a.CreateUser(app.RegisterParams{
		Username: *username,
		Password: *password,
		Email:    *email,
	})
	if err != nil {
		printUserError(err, *username, "creating user")
		cleanup()
		os.Exit(1)
	}

	fmt.Printf("User created successfully\n")
	fmt.Printf("Username: %s\n", *username)
}

func userRemoveCmd(args []string, stdin io.Reader) {
	fs := setupFlagSet("remove", "simplenote-server user remove")

	username := fs.String("username", "", "Username (required)")
	dbPath := fs.String("dbPath", "", dbPathUsage)

	fs.Parse(args)

	requireString(fs, *username, "username")

	a, cleanup := setupAppWithDB(fs, *dbPath)
	defer cleanup()

	if _, err := a.GetUserByUsername(*username); err != nil {
		printUserError(err, *username, "finding user")
		cleanup()
		os.Exit(1)
	}

	ok, err := confirm(stdin, fmt.Sprintf("Remove user %s?", *username), false)
	if err != nil {
		log.ErrorWrap(err, "getting confirmation")
		cleanup()
		os.Exit(1)
	}
	if !ok {
		fmt.Println("Aborted by user")
		return
	}

	if err := a.RemoveUser(*username); err != nil {
		printUserError(err, *username, "removing user")
		cleanup()
		os.Exit(1)
	}

	fmt.Printf("User removed successfully\n")
	fmt.Printf("Username: %s\n", *username)
}

func userResetPasswordCmd(args []string) {
	fs := setupFlagSet("reset-password", "simplenote-server user reset-password")

	username := fs.String("username", "", "Username (required)")
	password := fs.String("password", "", "New password (required)")
	dbPath := fs.String("dbPath", "", dbPathUsage)

	fs.Parse(args)

	requireString(fs, *username, "username")
	requireString(fs, *password, "password")

	a, cleanup := setupAppWithDB(fs, *dbPath)
	defer cleanup()

	user, err := a.GetUserByUsername(*username)
	if err != nil {
		printUserError(err, *username, "finding user")
		cleanup()
		os.Exit(1)
	}

	if err := a.UpdateUserPassword(user, *password); err != nil {
		printUserError(err, *username, "updating password")
		cleanup()
		os.Exit(1)
	}

	fmt.Printf("Password reset successfully\n")
	fmt.Printf("Username: %s\n", *username)
}

func userCmd(args []string) {
	if len(args) < 1 {
		fmt.Println(`Usage:
  simplenote-server user [command]

` + userCommandsUsage)
		os.Exit(1)
	}

	subcommand := args[0]
	subArgs := args[1:]

	switch subcommand {
	case "create":
		userCreateCmd(subArgs)
	case "remove":
		userRemoveCmd(subArgs, os.Stdin)
	case "reset-password":
		userResetPasswordCmd(subArgs)
	default:
		fmt.Printf("Unknown subcommand: %s\n\n", subcommand)
		fmt.Println(userCommandsUsage)
		os.Exit(1)
	}
}
