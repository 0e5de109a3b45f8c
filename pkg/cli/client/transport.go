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
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dnote/simplenote/pkg/cli/credentials"
	"github.com/dnote/simplenote/pkg/cli/log"
	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const (
	// clientRateLimitPerSecond is the max requests per second the client will make
	clientRateLimitPerSecond = 50
	// clientRateLimitBurst is the burst capacity for rate limiting
	clientRateLimitBurst = 100
)

// rateLimitedTransport wraps an http.RoundTripper with rate limiting
type rateLimitedTransport struct {
	transport http.RoundTripper
	limiter   *rate.Limiter
}

func (t *rateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Wait for rate limiter to allow the request
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.transport.RoundTrip(req)
}

// NewRateLimitedTransport wraps the given transport with the client rate limit.
// A nil transport means http.DefaultTransport.
func NewRateLimitedTransport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}

	// Calculate interval from rate: 1 second / requests per second
	interval := time.Second / time.Duration(clientRateLimitPerSecond)

	return &rateLimitedTransport{
		transport: base,
		limiter:   rate.NewLimiter(rate.Every(interval), clientRateLimitBurst),
	}
}

// refreshFunc exchanges a refresh token for a new access token
type refreshFunc func(ctx context.Context, refreshToken string) (string, error)

// authTransport attaches the access token to every request. When the server
// answers 401 it refreshes the access token and retries the request once.
// If no refresh is possible, it clears the credentials, calls onLogout and
// returns the original 401 response.
type authTransport struct {
	base http.RoundTripper
	// timeout bounds each request sent to the server
	timeout  time.Duration
	tokens   *credentials.Manager
	refresh  refreshFunc
	onLogout func()

	group singleflight.Group
}

func withBearer(req *http.Request, access string) *http.Request {
	ret := req.Clone(req.Context())
	if access != "" {
		ret.Header.Set("Authorization", fmt.Sprintf("Bearer %s", access))
	} else {
		ret.Header.Del("Authorization")
	}

	return ret
}

// cancelBody releases the request context once the body is closed
type cancelBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelBody) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()

	return err
}

// dispatch sends a single request with its own timeout
func (t *authTransport) dispatch(req *http.Request) (*http.Response, error) {
	if t.timeout <= 0 {
		return t.base.RoundTrip(req)
	}

	ctx, cancel := context.WithTimeout(req.Context(), t.timeout)
	res, err := t.base.RoundTrip(req.WithContext(ctx))
	if err != nil {
		cancel()
		return nil, err
	}
	res.Body = &cancelBody{ReadCloser: res.Body, cancel: cancel}

	return res, nil
}

func drain(res *http.Response) {
	io.Copy(io.Discard, res.Body)
	res.Body.Close()
}

func (t *authTransport) expire(reason string) {
	log.Debug("auth: %s. logging out\n", reason)

	if err := t.tokens.Clear(); err != nil {
		log.Debug("auth: clearing tokens: %v\n", err)
	}
	if t.onLogout != nil {
		t.onLogout()
	}
}

// refreshAccess obtains a new access token. Concurrent callers holding the
// same refresh token share a single call to the server, and a failed refresh
// logs out once for all of them.
func (t *authTransport) refreshAccess(ctx context.Context, refreshToken string) (string, error) {
	v, err, shared := t.group.Do(refreshToken, func() (interface{}, error) {
		// the refresh outlives the cancellation of the request that started it
		access, err := t.refresh(context.WithoutCancel(ctx), refreshToken)
		if err != nil {
			t.expire(fmt.Sprintf("refresh failed: %v", err))
			return "", err
		}

		if err := t.tokens.SaveAccess(access); err != nil {
			return "", errors.Wrap(err, "saving the refreshed access token")
		}

		return access, nil
	})
	if shared {
		log.Debug("auth: shared a refresh with a concurrent request\n")
	}
	if err != nil {
		return "", err
	}

	return v.(string), nil
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	access, err := t.tokens.Access()
	if err != nil {
		return nil, errors.Wrap(err, "reading the access token")
	}

	res, err := t.dispatch(withBearer(req, access))
	if err != nil || res.StatusCode != http.StatusUnauthorized {
		return res, err
	}

	refreshToken, err := t.tokens.Refresh()
	if err != nil {
		log.Debug("auth: reading the refresh token: %v\n", err)
	}
	if refreshToken == "" {
		t.expire("no refresh token")
		return res, nil
	}

	log.Debug("auth: %s %s got 401. refreshing the access token\n", req.Method, req.URL.Path)

	newAccess, err := t.refreshAccess(req.Context(), refreshToken)
	if err != nil {
		return res, nil
	}

	retry := withBearer(req, newAccess)
	if req.Body != nil && req.Body != http.NoBody {
		if req.GetBody == nil {
			log.Debug("auth: request body can not be replayed\n")
			return res, nil
		}

		body, err := req.GetBody()
		if err != nil {
			return res, nil
		}
		retry.Body = body
	}

	drain(res)

	// the retried response is final even if it is another 401
	return t.dispatch(retry)
}
