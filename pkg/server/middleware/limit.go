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

package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dnote/simplenote/pkg/server/log"
	"golang.org/x/time/rate"
)

const (
	// visitorTTL is how long a visitor is remembered after its last request
	visitorTTL = 3 * time.Minute
	// cleanupInterval is the interval between the sweeps of stale visitors
	cleanupInterval = time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter holds the rate limiting state for visitors
type RateLimiter struct {
	perSecond int
	burst     int

	visitors map[string]*visitor
	mtx      sync.Mutex
	done     chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter creates a new rate limiter accepting perSecond requests per
// second from each visitor with the given burst capacity. It sweeps stale
// visitors until Stop is called.
func NewRateLimiter(perSecond, burst int) *RateLimiter {
	rl := &RateLimiter{
		perSecond: perSecond,
		burst:     burst,
		visitors:  make(map[string]*visitor),
		done:      make(chan struct{}),
	}
	go rl.cleanupVisitors()
	return rl
}

// Stop stops sweeping stale visitors
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.done)
	})
}

// getVisitor returns a limiter for a visitor with the given identifier. It
// adds the visitor to the map if not seen before.
func (rl *RateLimiter) getVisitor(identifier string) *rate.Limiter {
	rl.mtx.Lock()
	defer rl.mtx.Unlock()

	v, exists := rl.visitors[identifier]
	if !exists {
		limit := rate.Inf
		if rl.perSecond > 0 {
			limit = rate.Every(time.Second / time.Duration(rl.perSecond))
		}
		v = &visitor{
			limiter: rate.NewLimiter(limit, rl.burst),
		}
		rl.visitors[identifier] = v
	}

	v.lastSeen = time.Now()

	return v.limiter
}

// cleanupVisitors deletes visitors that has not been seen in a while from the
// map of visitors
func (rl *RateLimiter) cleanupVisitors() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
		}

		rl.mtx.Lock()
		for identifier, v := range rl.visitors {
			if time.Since(v.lastSeen) > visitorTTL {
				delete(rl.visitors, identifier)
			}
		}
		rl.mtx.Unlock()
	}
}

// lookupIP returns the request's IP
func lookupIP(r *http.Request) string {
	realIP := r.Header.Get("X-Real-IP")
	forwardedFor := r.Header.Get("X-Forwarded-For")

	if forwardedFor != "" {
		parts := strings.Split(forwardedFor, ",")
		return strings.TrimSpace(parts[0])
	}

	if realIP != "" {
		return realIP
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}

	return r.RemoteAddr
}

// Limit is a middleware to rate limit the handler
func (rl *RateLimiter) Limit(next http.Handler) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identifier := lookupIP(r)
		limiter := rl.getVisitor(identifier)

		if !limiter.Allow() {
			w.Header().Set("Retry-After", "1")
			RespondDetail(w, http.StatusTooManyRequests, "Request was throttled.", "throttled")
			log.WithFields(log.Fields{
				"ip": identifier,
			}).Warn("Too many requests")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ApplyLimit applies rate limit conditionally. A nil limiter disables it.
func ApplyLimit(h http.HandlerFunc, rl *RateLimiter, rateLimit bool) http.Handler {
	var ret http.Handler = h

	if rateLimit && rl != nil {
		ret = rl.Limit(ret)
	}

	return ret
}
