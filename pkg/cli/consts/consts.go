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
// Package consts provides definitions of constants
package consts

import "time"

var (
	// SimplenoteDirName is the name of the directory containing simplenote files
	SimplenoteDirName = "simplenote"
	// SimplenoteDBFileName is a filename for the SQLite database holding the note cache
	SimplenoteDBFileName = "simplenote.db"
	// TmpContentFileBase is the base for the filename for a temporary content
	TmpContentFileBase = "SIMPLENOTE_TMPCONTENT"
	// TmpContentFileExt is the extension for the temporary content file
	TmpContentFileExt = "md"
	// ConfigFilename is the name of the config file
	ConfigFilename = "simplenoterc"

	// SystemAccessToken is the key for the access token in the system table
	SystemAccessToken = "access_token"
	// SystemRefreshToken is the key for the refresh token in the system table
	SystemRefreshToken = "refresh_token"
	// SystemLastSyncAt is the local unix timestamp of the last completed sync
	SystemLastSyncAt = "last_sync_time"
)

const (
	// DefaultRequestTimeout is the client-side timeout applied to every API call
	DefaultRequestTimeout = 3 * time.Second
	// DefaultSyncInterval is the interval of the periodic background sync
	DefaultSyncInterval = 15 * time.Minute
	// MinSyncInterval is the smallest interval the periodic sync accepts
	MinSyncInterval = 15 * time.Minute
	// DefaultPageSize is the number of notes per page in remote listings
	DefaultPageSize = 6
	// DefaultRetryCountdown is how long a listing waits before retrying after a timeout
	DefaultRetryCountdown = 30 * time.Second
	// DefaultAutosaveDelay is the period of inactivity after which an edit is saved
	DefaultAutosaveDelay = 900 * time.Millisecond
	// PullPageSize is the page size used when pulling the server state during sync
	PullPageSize = 100
)
