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
// Package client provides the gateway to the notes REST API and the data
// structures for its responses
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dnote/simplenote/pkg/cli/consts"
	"github.com/dnote/simplenote/pkg/cli/credentials"
	"github.com/dnote/simplenote/pkg/cli/log"
	"github.com/pkg/errors"
)

// ErrContentTypeMismatch is an error for a response that is not JSON
var ErrContentTypeMismatch = errors.New("content type mismatch")

var contentTypeApplicationJSON = "application/json"

// Params are the parameters for a client
type Params struct {
	// Endpoint is the base URL of the API, e.g. https://example.com/
	Endpoint string
	Version  string
	// Timeout applies to every request sent to the server. A request retried
	// after a token refresh gets a fresh budget, and so does the refresh.
	// Zero means the default.
	Timeout time.Duration
	Tokens  *credentials.Manager
	// OnLogout is called when the credentials expire and can not be refreshed
	OnLogout func()
	// Transport is the underlying transport. Nil means http.DefaultTransport.
	Transport http.RoundTripper
}

// Client is the gateway to the notes API. Calls to endpoints that require
// authorization go through the auth middleware.
type Client struct {
	endpoint string
	version  string
	tokens   *credentials.Manager

	public     *http.Client
	authorized *http.Client
}

// New returns a new client
func New(p Params) *Client {
	timeout := p.Timeout
	if timeout == 0 {
		timeout = consts.DefaultRequestTimeout
	}

	base := NewRateLimitedTransport(p.Transport)

	c := &Client{
		endpoint: strings.TrimRight(p.Endpoint, "/"),
		version:  p.Version,
		tokens:   p.Tokens,
		public:   &http.Client{Transport: base, Timeout: timeout},
	}

	c.authorized = &http.Client{
		Transport: &authTransport{
			base:     base,
			timeout:  timeout,
			tokens:   p.Tokens,
			onLogout: p.OnLogout,
			refresh: func(ctx context.Context, refreshToken string) (string, error) {
				resp, err := c.RefreshAccess(ctx, refreshToken)
				if err != nil {
					return "", err
				}

				return resp.Access, nil
			},
		},
	}

	return c
}

func (c *Client) getReq(ctx context.Context, method, path string, query url.Values, payload interface{}) (*http.Request, error) {
	endpoint := fmt.Sprintf("%s/%s", c.endpoint, strings.TrimLeft(path, "/"))
	if len(query) > 0 {
		endpoint = fmt.Sprintf("%s?%s", endpoint, query.Encode())
	}

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, errors.Wrap(err, "marshalling payload")
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, errors.Wrap(err, "constructing http request")
	}

	req.Header.Set("Accept", contentTypeApplicationJSON)
	if payload != nil {
		req.Header.Set("Content-Type", contentTypeApplicationJSON)
	}
	if c.version != "" {
		req.Header.Set("CLI-Version", c.version)
	}

	return req, nil
}

// checkRespErr returns an HTTPError if the response is not successful
func checkRespErr(res *http.Response) error {
	if res.StatusCode < 300 {
		return nil
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return &NetworkError{Err: errors.Wrapf(err, "server responded with %d but the body could not be read", res.StatusCode)}
	}

	return &HTTPError{
		StatusCode: res.StatusCode,
		Body:       strings.TrimRight(string(body), "\n"),
	}
}

func checkContentType(res *http.Response) error {
	got := res.Header.Get("Content-Type")
	if !strings.HasPrefix(got, contentTypeApplicationJSON) {
		return errors.Wrapf(ErrContentTypeMismatch, "got: '%s' want: '%s'. Did you configure your endpoint correctly?", got, contentTypeApplicationJSON)
	}

	return nil
}

// do sends a request and decodes the JSON response into dest, if dest is not nil
func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, query url.Values, payload, dest interface{}) error {
	req, err := c.getReq(ctx, method, path, query, payload)
	if err != nil {
		return err
	}

	log.Debug("HTTP %s %s\n", method, req.URL.Path)

	res, err := hc.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer res.Body.Close()

	log.Debug("HTTP %s\n", res.Status)

	if err := checkRespErr(res); err != nil {
		return err
	}

	if dest == nil {
		io.Copy(io.Discard, res.Body)
		return nil
	}

	if err := checkContentType(res); err != nil {
		return &DecodeError{Err: err}
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return &NetworkError{Err: errors.Wrap(err, "reading the response body")}
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return &DecodeError{Err: errors.Wrap(err, "unmarshalling the payload")}
	}

	return nil
}

// doAuthorized sends a request through the auth middleware. A 401 that
// survives the middleware is reported as ErrAuthExpired if the credentials
// were cleared.
func (c *Client) doAuthorized(ctx context.Context, method, path string, query url.Values, payload, dest interface{}) error {
	access, err := c.tokens.Access()
	if err != nil {
		return errors.Wrap(err, "reading credentials")
	}
	refresh, err := c.tokens.Refresh()
	if err != nil {
		return errors.Wrap(err, "reading credentials")
	}
	if access == "" && refresh == "" {
		return ErrNotLoggedIn
	}

	err = c.do(ctx, c.authorized, method, path, query, payload, dest)
	if StatusCode(err) == http.StatusUnauthorized {
		if ok, _ := c.tokens.LoggedIn(); !ok {
			return errors.Wrap(ErrAuthExpired, err.Error())
		}
	}

	return err
}
