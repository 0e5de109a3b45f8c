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
package scheduler

import (
	"context"
	"net"
	"net/url"
	"time"

	"github.com/pkg/errors"
)

// Probe checks connectivity by opening a TCP connection to the API host
type Probe struct {
	addr    string
	timeout time.Duration
	dialer  net.Dialer
}

// NewProbe returns a probe for the host of the given API endpoint
func NewProbe(endpoint string, timeout time.Duration) (*Probe, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing the endpoint %s", endpoint)
	}
	if u.Hostname() == "" {
		return nil, errors.Errorf("endpoint %s has no host", endpoint)
	}

	port := u.Port()
	if port == "" {
		port = "80"
		if u.Scheme == "https" {
			port = "443"
		}
	}

	return &Probe{
		addr:    net.JoinHostPort(u.Hostname(), port),
		timeout: timeout,
	}, nil
}

// Online returns true if the API host accepts connections
func (p *Probe) Online(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	conn, err := p.dialer.DialContext(ctx, "tcp", p.addr)
	if err != nil {
		return false
	}
	conn.Close()

	return true
}
