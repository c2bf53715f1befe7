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
	"fmt"
	"time"

	"github.com/gobwas/glob"
	"github.com/rs/zerolog"
)

// Config contains the tuning options shared by every Run of a Crawler.
// The per-invocation inputs (seed, depth, budget, mode) live on Request.
type Config struct {
	// UserAgent is sent with every request. Servers that reject
	// anonymous clients get a stable identifying string instead.
	UserAgent string
	// Timeout bounds each HTTP GET, connection setup included.
	Timeout time.Duration
	// Delay is the fixed pause between consecutive fetch dispatches.
	Delay time.Duration
	// MaxBodySize caps the number of response bytes read per page.
	// 0 means unlimited.
	MaxBodySize int
	// Parallelism is the number of concurrent fetches. 1 (the default)
	// keeps the traversal loop strictly sequential.
	Parallelism int
	// ExcludePatterns are glob patterns matched against candidate URLs;
	// matching URLs are never enqueued.
	ExcludePatterns []string
	// DetectCharset enables character-set sniffing for response bodies
	// that do not declare an encoding.
	DetectCharset bool
	// SeedFromSitemap additionally seeds the frontier from the site's
	// /sitemap.xml, at depth 1 and subject to the usual filters.
	SeedFromSitemap bool
	// Logger receives per-page crawl events. Defaults to a disabled
	// logger when unset.
	Logger *zerolog.Logger
}

// DefaultConfig returns the Config used when New receives nil.
func DefaultConfig() *Config {
	return &Config{
		UserAgent:   "webwalk/1.0 (+https://github.com/grazehq/webwalk)",
		Timeout:     10 * time.Second,
		Delay:       500 * time.Millisecond,
		MaxBodySize: 10 * 1024 * 1024,
		Parallelism: 1,
	}
}

// mergeConfig overlays user values onto the defaults. Zero values keep
// the default, matching how flags and struct literals leave fields unset.
func mergeConfig(user *Config) *Config {
	cfg := DefaultConfig()
	if user == nil {
		return cfg
	}
	if user.UserAgent != "" {
		cfg.UserAgent = user.UserAgent
	}
	if user.Timeout != 0 {
		cfg.Timeout = user.Timeout
	}
	if user.Delay != 0 {
		cfg.Delay = user.Delay
	}
	if user.MaxBodySize != 0 {
		cfg.MaxBodySize = user.MaxBodySize
	}
	if user.Parallelism > 1 {
		cfg.Parallelism = user.Parallelism
	}
	if len(user.ExcludePatterns) > 0 {
		cfg.ExcludePatterns = user.ExcludePatterns
	}
	cfg.DetectCharset = user.DetectCharset
	cfg.SeedFromSitemap = user.SeedFromSitemap
	cfg.Logger = user.Logger
	return cfg
}

func compileExcludes(patterns []string) ([]glob.Glob, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}
