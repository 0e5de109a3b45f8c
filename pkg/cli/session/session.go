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
// Package session provides the logout signal that the HTTP client raises
// when the credentials can no longer be refreshed
package session

import (
	"sync"
)

// Signal is a broadcast event raised every time the session expires. Each
// call to Fire is delivered to every current listener.
type Signal struct {
	mu        sync.Mutex
	count     int
	listeners []chan struct{}
}

// NewSignal returns a new signal
func NewSignal() *Signal {
	return &Signal{}
}

// Fire raises the signal
func (s *Signal) Fire() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.count++
	for _, ch := range s.listeners {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// C returns a channel that receives a value when the signal is raised.
// Raises that happen while a previous value is still unread are coalesced.
func (s *Signal) C() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan struct{}, 1)
	s.listeners = append(s.listeners, ch)

	return ch
}

// Count returns the number of times the signal was raised
func (s *Signal) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.count
}
