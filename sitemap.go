// Copyright 2025 The webwalk Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package webwalk

import (
	"bytes"
	"context"
	"strings"

	"github.com/antchfx/xmlquery"
)

// sitemapLocations are the default places to look for a sitemap,
// tried in order.
var sitemapLocations = []string{"/sitemap.xml", "/sitemap_index.xml"}

// fetchSitemapURLs pulls page URLs out of the site's sitemap for seeding
// the frontier. Sitemap indexes are followed one level deep. Any fetch
// or parse failure yields an empty slice: sitemap seeding is best
// effort and never fails a crawl.
func fetchSitemapURLs(ctx context.Context, backend *httpBackend, origin string) []string {
	origin = strings.TrimSuffix(origin, "/")
	for _, loc := range sitemapLocations {
		urls := sitemapURLsFrom(ctx, backend, origin+loc, true)
		if len(urls) > 0 {
			return urls
		}
	}
	return nil
}

func sitemapURLsFrom(ctx context.Context, backend *httpBackend, sitemapURL string, followIndex bool) []string {
	res, err := backend.Get(ctx, sitemapURL)
	if err != nil {
		return nil
	}
	doc, err := xmlquery.Parse(bytes.NewReader(res.Body))
	if err != nil {
		return nil
	}

	var urls []string
	for _, loc := range xmlquery.Find(doc, "//urlset/url/loc") {
		if u := strings.TrimSpace(loc.InnerText()); u != "" {
			urls = append(urls, u)
		}
	}

	if followIndex {
		for _, loc := range xmlquery.Find(doc, "//sitemapindex/sitemap/loc") {
			child := strings.TrimSpace(loc.InnerText())
			if child == "" {
				continue
			}
			urls = append(urls, sitemapURLsFrom(ctx, backend, child, false)...)
		}
	}
	return urls
}
