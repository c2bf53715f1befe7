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

// Package webwalk implements a breadth-first, same-domain web crawler.
//
// A crawl starts from a single seed URL and walks outbound links in FIFO
// order, so every page at depth d is fetched before any page at depth d+1.
// Each page is fetched at most once, only pages on the seed's host are
// eligible, and the walk stops when the frontier drains or the page budget
// is reached. One of four extraction modes (links, images, text, metadata)
// shapes the payload of every PageRecord.
//
// All crawl state (frontier, visited set, HTTP client) is owned by a single
// Run invocation; nothing is shared between runs.
package webwalk

import (
	"errors"
	"fmt"
	"time"
)

// Mode selects the payload extracted from every fetched page.
type Mode string

const (
	// ModeLinks extracts every anchor's visible text and raw href.
	ModeLinks Mode = "links"
	// ModeImages extracts every image's alt and src attributes.
	ModeImages Mode = "images"
	// ModeText extracts the visible text content, script and style excluded.
	ModeText Mode = "text"
	// ModeMetadata extracts the page title, meta description and keywords.
	ModeMetadata Mode = "metadata"
)

// ParseMode converts a mode name to a Mode, rejecting unknown values.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeLinks, ModeImages, ModeText, ModeMetadata:
		return Mode(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

var (
	// ErrInvalidSeed is returned when the seed URL cannot be parsed
	// after scheme normalization. The crawl does not start.
	ErrInvalidSeed = errors.New("invalid seed URL")
	// ErrUnknownMode is returned for extraction modes outside the
	// four supported values.
	ErrUnknownMode = errors.New("unknown extraction mode")
	// ErrNoBudget is returned when a Request carries a non-positive
	// page budget.
	ErrNoBudget = errors.New("page budget must be positive")
	// ErrNegativeDepth is returned when a Request carries a negative
	// maximum depth.
	ErrNegativeDepth = errors.New("max depth must be non-negative")
)

// Request describes a single crawl invocation.
type Request struct {
	// SeedURL is the starting point. A missing http:// or https://
	// scheme is normalized to https://.
	SeedURL string
	// MaxDepth bounds the traversal. 0 crawls the seed page only.
	MaxDepth int
	// MaxPages is the page budget: the crawl stops once this many
	// pages have been successfully fetched. Must be positive.
	MaxPages int
	// Mode selects the extraction payload.
	Mode Mode
}

// Validate checks the request invariants the caller must uphold.
func (r Request) Validate() error {
	if r.MaxDepth < 0 {
		return ErrNegativeDepth
	}
	if r.MaxPages < 1 {
		return ErrNoBudget
	}
	if _, err := ParseMode(string(r.Mode)); err != nil {
		return err
	}
	return nil
}

// LinkEntry is one anchor from a page crawled in ModeLinks.
// Href is the raw attribute value, not resolved to absolute form.
type LinkEntry struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

// ImageEntry is one image from a page crawled in ModeImages.
type ImageEntry struct {
	Alt string `json:"alt"`
	Src string `json:"src"`
}

// PageMetadata is the payload of a page crawled in ModeMetadata.
// Absent fields default to the empty string.
type PageMetadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
}

// PageRecord is the output unit produced for every successfully
// fetched page. Exactly one of the payload fields is populated,
// matching the crawl's Mode.
type PageRecord struct {
	// URL is the fetched page URL (normalized form).
	URL string `json:"url"`
	// Depth is the link distance from the seed.
	Depth int `json:"depth"`

	Links    []LinkEntry   `json:"links,omitempty"`
	Images   []ImageEntry  `json:"images,omitempty"`
	Text     string        `json:"text,omitempty"`
	Metadata *PageMetadata `json:"metadata,omitempty"`

	// ContentHash is a hash of the page's normalized text content.
	ContentHash string `json:"contentHash,omitempty"`
	// DuplicateOf names the first crawled URL that produced the same
	// content hash, or is empty when the content is unique in this run.
	DuplicateOf string `json:"duplicateOf,omitempty"`
}

// Result is the outcome of one crawl invocation. Records are ordered
// by visitation, which is breadth-first.
type Result struct {
	Records []PageRecord `json:"records"`
	// PagesCrawled counts successful fetches; it equals len(Records).
	PagesCrawled int `json:"pagesCrawled"`
	// PagesFailed counts fetch attempts that produced no record.
	// Failed attempts never consume the page budget.
	PagesFailed int `json:"pagesFailed"`
	// Truncated reports that the budget stopped the crawl while the
	// frontier still held eligible entries.
	Truncated bool `json:"truncated"`
	// Duration is the wall-clock time of the run.
	Duration time.Duration `json:"duration"`
}
