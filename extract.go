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
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Extract runs one extraction mode over an HTML body and fills the
// matching payload field of a PageRecord. It is a pure function of
// (body, mode): re-running it on the same inputs yields identical
// output. Malformed HTML degrades to empty payloads, never an error.
func Extract(mode Mode, body []byte) PageRecord {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		// goquery's parser is permissive; a hard parse error leaves
		// the payload empty rather than failing the page.
		return PageRecord{}
	}
	return extractFromDoc(mode, doc)
}

func extractFromDoc(mode Mode, doc *goquery.Document) PageRecord {
	var rec PageRecord
	switch mode {
	case ModeLinks:
		rec.Links = extractLinks(doc)
	case ModeImages:
		rec.Images = extractImages(doc)
	case ModeText:
		rec.Text = extractText(doc)
	case ModeMetadata:
		rec.Metadata = extractMetadata(doc)
	}
	return rec
}

// extractLinks collects every anchor's visible text and raw href.
// The href is deliberately not resolved to absolute form; resolution
// happens only for frontier expansion.
func extractLinks(doc *goquery.Document) []LinkEntry {
	var links []LinkEntry
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		links = append(links, LinkEntry{
			Text: strings.TrimSpace(s.Text()),
			Href: href,
		})
	})
	return links
}

func extractImages(doc *goquery.Document) []ImageEntry {
	var images []ImageEntry
	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		alt, _ := s.Attr("alt")
		images = append(images, ImageEntry{Alt: alt, Src: src})
	})
	return images
}

// extractText returns the visible text of the page: script, style and
// noscript content excluded, each text node whitespace-normalized, and
// non-empty nodes joined with newlines so block structure survives.
func extractText(doc *goquery.Document) string {
	doc.Find("script, style, noscript").Remove()

	var blocks []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := normalizeWhitespace(n.Data); t != "" {
				blocks = append(blocks, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, root := range doc.Nodes {
		walk(root)
	}
	return strings.Join(blocks, "\n")
}

func extractMetadata(doc *goquery.Document) *PageMetadata {
	return &PageMetadata{
		Title:       strings.TrimSpace(doc.Find("title").First().Text()),
		Description: doc.Find(`meta[name="description"]`).First().AttrOr("content", ""),
		Keywords:    doc.Find(`meta[name="keywords"]`).First().AttrOr("content", ""),
	}
}

// discoverLinks resolves every anchor href on the page to absolute form
// for frontier expansion. A <base href> tag, when present, overrides the
// page URL as the resolution base. Unresolvable hrefs are dropped.
func discoverLinks(doc *goquery.Document, pageURL string) []string {
	base := pageURL
	if href, found := doc.Find("base[href]").Attr("href"); found {
		if u, err := urlParser.ParseRef(pageURL, href); err == nil {
			base = u.Href(false)
		}
	}

	var out []string
	seen := make(map[string]struct{})
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}
		abs, err := urlParser.ParseRef(base, href)
		if err != nil {
			return
		}
		u := abs.Href(true)
		if _, dup := seen[u]; dup {
			return
		}
		seen[u] = struct{}{}
		out = append(out, u)
	})
	return out
}

// normalizeWhitespace collapses runs of whitespace to single spaces.
func normalizeWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
