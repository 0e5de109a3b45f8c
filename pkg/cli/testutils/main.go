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

// Package testutils provides utilities used in tests
package testutils

import (
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dnote/simplenote/pkg/assert"
	"github.com/dnote/simplenote/pkg/cli/consts"
	"github.com/dnote/simplenote/pkg/cli/database"
	"github.com/pkg/errors"
)

// Prompts for user input
const (
	PromptRemoveNote = "remove this note?"
	PromptLogout     = "log out anyway?"
)

// Timeout for waiting for prompts in tests
const promptTimeout = 10 * time.Second

// BuildBinary builds the package at pkgPath into the given output path
func BuildBinary(pkgPath, output string) error {
	cmd := exec.Command("go", "build", "-o", output, pkgPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		return errors.Wrapf(err, "building %s: %s", pkgPath, out)
	}

	return nil
}

// Login simulates a logged in user by storing a pair of tokens in the local database
func Login(t *testing.T, db *database.DB, access, refresh string) {
	database.MustExec(t, "inserting access token", db, "INSERT INTO system (key, value) VALUES (?, ?)", consts.SystemAccessToken, access)
	database.MustExec(t, "inserting refresh token", db, "INSERT INTO system (key, value) VALUES (?, ?)", consts.SystemRefreshToken, refresh)
}

// RunCmdOptions is an option for RunCmd
type RunCmdOptions struct {
	Env []string
}

// NewEnv returns the options for running the binary with every base
// directory inside dir
func NewEnv(dir string) RunCmdOptions {
	return RunCmdOptions{
		Env: []string{
			fmt.Sprintf("HOME=%s", dir),
			fmt.Sprintf("XDG_CONFIG_HOME=%s", dir),
			fmt.Sprintf("XDG_DATA_HOME=%s", dir),
			fmt.Sprintf("XDG_CACHE_HOME=%s", dir),
		},
	}
}

// DBPath returns the path of the local database in an environment made by NewEnv
func DBPath(dir string) string {
	return filepath.Join(dir, consts.SimplenoteDirName, consts.SimplenoteDBFileName)
}

// NewCmd returns a new command and pointers to its stderr and stdout
func NewCmd(opts RunCmdOptions, binaryName string, arg ...string) (*exec.Cmd, *bytes.Buffer, *bytes.Buffer, error) {
	var stderr, stdout bytes.Buffer

	binaryPath, err := filepath.Abs(binaryName)
	if err != nil {
		return &exec.Cmd{}, &stderr, &stdout, errors.Wrap(err, "getting the absolute path to the test binary")
	}

	cmd := exec.Command(binaryPath, arg...)
	cmd.Stderr = &stderr
	cmd.Stdout = &stdout

	cmd.Env = opts.Env

	return cmd, &stderr, &stdout, nil
}

// RunCmd runs a command and returns its output. It fails the test if the
// command fails.
func RunCmd(t *testing.T, opts RunCmdOptions, binaryName string, arg ...string) string {
	t.Helper()
	t.Logf("running: %s %s", binaryName, strings.Join(arg, " "))

	cmd, stderr, stdout, err := NewCmd(opts, binaryName, arg...)
	if err != nil {
		t.Fatal(errors.Wrap(err, "getting command").Error())
	}

	cmd.Env = append(cmd.Env, "SIMPLENOTE_DEBUG=1")

	if err := cmd.Run(); err != nil {
		t.Logf("\n%s", stdout)
		t.Fatal(errors.Wrapf(err, "running command %s", stderr.String()))
	}

	// Print stdout if and only if test fails later
	t.Logf("\n%s", stdout)

	return stdout.String() + stderr.String()
}

// RunFailingCmd runs a command that is expected to fail and returns its output
func RunFailingCmd(t *testing.T, opts RunCmdOptions, binaryName string, arg ...string) string {
	t.Helper()
	t.Logf("running: %s %s", binaryName, strings.Join(arg, " "))

	cmd, stderr, stdout, err := NewCmd(opts, binaryName, arg...)
	if err != nil {
		t.Fatal(errors.Wrap(err, "getting command").Error())
	}

	if err := cmd.Run(); err == nil {
		t.Logf("\n%s", stdout)
		t.Fatal("command succeeded unexpectedly")
	}

	return stdout.String() + stderr.String()
}

// WaitCmd runs a command and passes stdout to the callback.
func WaitCmd(t *testing.T, opts RunCmdOptions, runFunc func(io.Reader, io.WriteCloser) error, binaryName string, arg ...string) (string, error) {
	t.Logf("running: %s %s", binaryName, strings.Join(arg, " "))

	binaryPath, err := filepath.Abs(binaryName)
	if err != nil {
		return "", errors.Wrap(err, "getting absolute path to test binary")
	}

	cmd := exec.Command(binaryPath, arg...)
	cmd.Env = opts.Env

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", errors.Wrap(err, "getting stdout pipe")
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return "", errors.Wrap(err, "getting stdin")
	}
	defer stdin.Close()

	if err = cmd.Start(); err != nil {
		return "", errors.Wrap(err, "starting command")
	}

	var output bytes.Buffer
	tee := io.TeeReader(stdout, &output)

	err = runFunc(tee, stdin)
	if err != nil {
		t.Logf("\n%s", output.String())
		return output.String(), errors.Wrap(err, "running callback")
	}

	io.Copy(&output, stdout)

	if err := cmd.Wait(); err != nil {
		t.Logf("\n%s", output.String())
		return output.String(), errors.Wrapf(err, "command failed: %s", stderr.String())
	}

	t.Logf("\n%s", output.String())
	return output.String(), nil
}

// MustWaitCmd runs WaitCmd and fails the test on error
func MustWaitCmd(t *testing.T, opts RunCmdOptions, runFunc func(io.Reader, io.WriteCloser) error, binaryName string, arg ...string) string {
	output, err := WaitCmd(t, opts, runFunc, binaryName, arg...)
	if err != nil {
		t.Fatal(err)
	}

	return output
}

// MustWaitForPrompt waits for an expected prompt with a default timeout.
func MustWaitForPrompt(t *testing.T, stdout io.Reader, expectedPrompt string) {
	if err := assert.WaitForPrompt(stdout, expectedPrompt, promptTimeout); err != nil {
		t.Fatal(err)
	}
}

// userRespondToPrompt waits for a prompt and sends a response
func userRespondToPrompt(stdout io.Reader, stdin io.WriteCloser, expectedPrompt, response, action string) error {
	if err := assert.RespondToPrompt(stdout, stdin, expectedPrompt, response, promptTimeout); err != nil {
		return errors.Wrapf(err, "indicating %s", action)
	}

	return nil
}

// ConfirmRemoveNote waits for prompt for removing a note and confirms.
func ConfirmRemoveNote(stdout io.Reader, stdin io.WriteCloser) error {
	return userRespondToPrompt(stdout, stdin, PromptRemoveNote, "y\n", "confirmation")
}

// CancelRemoveNote waits for prompt for removing a note and cancels.
func CancelRemoveNote(stdout io.Reader, stdin io.WriteCloser) error {
	return userRespondToPrompt(stdout, stdin, PromptRemoveNote, "n\n", "cancellation")
}

// UserContent simulates content from the user by writing to stdin.
// This is used for piped input where no prompt is shown.
func UserContent(stdout io.Reader, stdin io.WriteCloser) error {
	longText := `Lorem ipsum dolor sit amet, consectetur adipiscing elit,
	sed do eiusmod tempor incididunt ut labore et dolore magna aliqua.`

	if _, err := io.WriteString(stdin, longText); err != nil {
		return errors.Wrap(err, "creating note from stdin")
	}

	// stdin needs to close so stdin reader knows to stop reading
	stdin.Close()

	return nil
}

// MustOpenDatabase opens the database at the path and fails the test on error
func MustOpenDatabase(t *testing.T, dbPath string) *database.DB {
	db, err := database.Open(dbPath)
	if err != nil {
		t.Fatal(errors.Wrap(err, "opening database"))
	}
	t.Cleanup(func() { db.Close() })

	return db
}
