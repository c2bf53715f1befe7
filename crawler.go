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
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gobwas/glob"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/grazehq/webwalk/storage"
)

// Crawler runs breadth-first crawls. A Crawler is safe for concurrent
// use: every Run owns its own frontier, visited set and HTTP client.
type Crawler struct {
	cfg       *Config
	excludes  []glob.Glob
	logger    zerolog.Logger
	transport http.RoundTripper
}

// New builds a Crawler from cfg, filling unset fields with defaults.
// A nil cfg means all defaults.
func New(cfg *Config) (*Crawler, error) {
	merged := mergeConfig(cfg)
	excludes, err := compileExcludes(merged.ExcludePatterns)
	if err != nil {
		return nil, err
	}
	logger := zerolog.Nop()
	if merged.Logger != nil {
		logger = *merged.Logger
	}
	return &Crawler{cfg: merged, excludes: excludes, logger: logger}, nil
}

// WithTransport overrides the HTTP transport used by subsequent Runs.
// Tests use this to substitute a MockTransport.
func (c *Crawler) WithTransport(rt http.RoundTripper) {
	c.transport = rt
}

// Probe fetches a single page and extracts it: a crawl with depth 0
// and a budget of one. It returns an error when the page produced no
// record.
func (c *Crawler) Probe(ctx context.Context, seedURL string, mode Mode) (*PageRecord, error) {
	res, err := c.Run(ctx, Request{SeedURL: seedURL, MaxDepth: 0, MaxPages: 1, Mode: mode})
	if err != nil {
		return nil, err
	}
	if len(res.Records) == 0 {
		return nil, errors.New("page could not be fetched")
	}
	return &res.Records[0], nil
}

// Run executes one crawl invocation. Records come back in visitation
// order, which is breadth-first. Per-page fetch failures never abort
// the run; Run itself fails only for an invalid request or seed, or
// when ctx is cancelled. On cancellation the records collected so far
// are returned alongside the context error.
func (c *Crawler) Run(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	seed, err := normalizeSeed(req.SeedURL)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	backend := newHTTPBackend(c.cfg)
	if c.transport != nil {
		backend.withTransport(c.transport)
	}

	s := &session{
		crawler: c,
		req:     req,
		backend: backend,
		filter:  &frontierFilter{seedNetloc: netloc(seed), excludes: c.excludes},
		visited: storage.NewInMemory(),
		limiter: rate.NewLimiter(rate.Every(c.cfg.Delay), 1),
		dups:    newDupTracker(),
		result:  &Result{},
	}
	s.frontier.push(normalizeURL(seed.Href(true)), 0)

	if c.cfg.SeedFromSitemap && req.MaxDepth >= 1 {
		s.seedFromSitemap(ctx, seed.Protocol()+"//"+seed.Host())
	}

	err = s.loop(ctx)
	s.result.Duration = time.Since(start)
	s.result.Truncated = s.result.PagesCrawled >= req.MaxPages && s.pendingEligible()
	c.logger.Info().
		Int("pages", s.result.PagesCrawled).
		Int("failed", s.result.PagesFailed).
		Int("visited", s.visited.Len()).
		Bool("truncated", s.result.Truncated).
		Dur("duration", s.result.Duration).
		Msg("crawl finished")
	return s.result, err
}

// pendingEligible reports whether the frontier still holds an entry
// that a longer run would actually fetch. Leftover entries that were
// already visited through another parent, or sit beyond the depth
// bound, don't count: a run that merely carries those is complete, not
// truncated.
func (s *session) pendingEligible() bool {
	for _, e := range s.frontier.pending() {
		if e.depth > s.req.MaxDepth {
			continue
		}
		if seen, _ := s.visited.IsVisited(e.url); seen {
			continue
		}
		return true
	}
	return false
}

// session is the invocation-scoped crawl state. It exists from the
// start of a Run to its end and is never shared.
type session struct {
	crawler  *Crawler
	req      Request
	backend  *httpBackend
	filter   *frontierFilter
	visited  storage.VisitStorage
	frontier frontier
	limiter  *rate.Limiter
	dups     *dupTracker
	result   *Result
}

// seedFromSitemap enqueues sitemap URLs at depth 1, behind the same
// eligibility filters as spidered links.
func (s *session) seedFromSitemap(ctx context.Context, origin string) {
	for _, raw := range fetchSitemapURLs(ctx, s.backend, origin) {
		u := normalizeURL(raw)
		if s.filter.eligible(u) {
			s.frontier.push(u, 1)
		}
	}
}

// fetchOutcome pairs a dequeued entry with its fetch result. Outcomes
// are processed in dequeue order regardless of fetch completion order.
type fetchOutcome struct {
	entry frontierEntry
	res   *Response
	err   error
}

// loop drains the frontier breadth-first until it is empty or the page
// budget is spent. The loop is finite: every dequeued non-duplicate
// entry grows the visited set by one, and only unvisited URLs are ever
// enqueued, so a cyclic link graph cannot recirculate.
func (s *session) loop(ctx context.Context) error {
	cfg := s.crawler.cfg

	var pool *workerPool
	if cfg.Parallelism > 1 {
		pool = newWorkerPool(ctx, cfg.Parallelism)
		defer pool.close()
	}

	for s.frontier.len() > 0 && s.result.PagesCrawled < s.req.MaxPages {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		batch := s.nextBatch(pool)
		if len(batch) == 0 {
			continue
		}

		outcomes, err := s.fetchBatch(ctx, pool, batch)
		if err != nil {
			return err
		}
		for i := range outcomes {
			s.process(&outcomes[i])
		}
	}
	return nil
}

// nextBatch dequeues the next runnable entries, all from the same
// depth so concurrent fetches never mix depths in the output. Entries
// are marked visited here, at dequeue time and before any fetch is
// dispatched, which is what makes the visited check and insertion
// atomic with the dequeue. Skipped entries (duplicates, beyond max
// depth) do not count against the budget.
func (s *session) nextBatch(pool *workerPool) []frontierEntry {
	limit := 1
	if pool != nil {
		limit = s.crawler.cfg.Parallelism
		if remaining := s.req.MaxPages - s.result.PagesCrawled; remaining < limit {
			limit = remaining
		}
	}

	batch := make([]frontierEntry, 0, limit)
	depth := -1
	for len(batch) < limit {
		head, ok := s.frontier.peek()
		if !ok {
			break
		}
		if depth >= 0 && head.depth != depth {
			break
		}
		s.frontier.pop()
		if head.depth > s.req.MaxDepth {
			continue
		}
		if already, _ := s.visited.VisitIfNew(head.url); already {
			continue
		}
		depth = head.depth
		batch = append(batch, head)
	}
	return batch
}

// fetchBatch performs the batch's GETs, spacing dispatches with the
// inter-request limiter. With no pool the batch has a single entry and
// the fetch runs inline, keeping the sequential path free of
// goroutines.
func (s *session) fetchBatch(ctx context.Context, pool *workerPool, batch []frontierEntry) ([]fetchOutcome, error) {
	outcomes := make([]fetchOutcome, len(batch))
	var wg sync.WaitGroup
	for i := range batch {
		if err := s.limiter.Wait(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				err = ctxErr
			}
			return outcomes[:i], err
		}
		entry := batch[i]
		if pool == nil {
			res, err := s.backend.Get(ctx, entry.url)
			outcomes[i] = fetchOutcome{entry: entry, res: res, err: err}
			continue
		}
		i := i
		wg.Add(1)
		err := pool.submit(func() {
			defer wg.Done()
			res, err := s.backend.Get(ctx, entry.url)
			outcomes[i] = fetchOutcome{entry: entry, res: res, err: err}
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return outcomes[:i], err
		}
	}
	wg.Wait()
	return outcomes, nil
}

// process turns one fetch outcome into a PageRecord and expands the
// frontier with the page's eligible outbound links. Failures degrade
// to "no record" and do not consume the budget.
func (s *session) process(o *fetchOutcome) {
	logger := s.crawler.logger
	if o.err != nil {
		status := 0
		if o.res != nil {
			status = o.res.StatusCode
		}
		logger.Warn().Str("url", o.entry.url).Int("status", status).
			Err(o.err).Msg("fetch failed")
		s.result.PagesFailed++
		return
	}

	rec := PageRecord{URL: o.entry.url, Depth: o.entry.depth}
	var outlinks []string
	if o.res.isHTML() {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(o.res.Body))
		if err == nil {
			// Discovery first: extraction in text mode prunes the
			// document it parses from.
			outlinks = discoverLinks(doc, o.entry.url)
			payload := extractFromDoc(s.req.Mode, doc)
			rec.Links = payload.Links
			rec.Images = payload.Images
			rec.Text = payload.Text
			rec.Metadata = payload.Metadata
		}
		rec.ContentHash = ContentHash(o.res.Body)
		rec.DuplicateOf = s.dups.observe(rec.ContentHash, rec.URL)
	}

	s.result.Records = append(s.result.Records, rec)
	s.result.PagesCrawled++
	logger.Debug().Str("url", rec.URL).Int("depth", rec.Depth).
		Int("outlinks", len(outlinks)).Msg("page crawled")

	if o.entry.depth >= s.req.MaxDepth {
		return
	}
	for _, link := range outlinks {
		if !s.filter.eligible(link) {
			continue
		}
		if seen, _ := s.visited.IsVisited(link); seen {
			continue
		}
		s.frontier.push(link, o.entry.depth+1)
	}
}
