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

package presenters

import (
	"net/http"
	"net/url"
	"strconv"
)

// Page is a page of a listing
type Page struct {
	Count    int64       `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

// requestURL returns the absolute URL of the request
func requestURL(r *http.Request) url.URL {
	u := *r.URL

	u.Scheme = "http"
	if r.TLS != nil {
		u.Scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		u.Scheme = proto
	}
	u.Host = r.Host

	return u
}

// pageURL returns the URL of the given page of the listing requested by r.
// The first page is addressed without a page parameter.
func pageURL(r *http.Request, page int) *string {
	u := requestURL(r)

	q := u.Query()
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()

	s := u.String()
	return &s
}

// PresentPage presents the given page of a listing requested by r
func PresentPage(r *http.Request, total int64, page int, hasNext, hasPrevious bool, results interface{}) Page {
	ret := Page{
		Count:   total,
		Results: results,
	}

	if hasNext {
		ret.Next = pageURL(r, page+1)
	}
	if hasPrevious {
		ret.Previous = pageURL(r, page-1)
	}

	return ret
}
