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

package app

import (
	"time"

	"github.com/dnote/simplenote/pkg/clock"
	"github.com/dnote/simplenote/pkg/server/token"
)

// NewTest returns an app for a testing environment. Its clock is a
// *clock.Mock shared with the token issuer.
func NewTest() App {
	c := clock.NewMock()

	return App{
		Clock:  c,
		Tokens: token.NewIssuer("test-secret", 5*time.Minute, 24*time.Hour, c),
	}
}
