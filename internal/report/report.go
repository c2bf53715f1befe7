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

// Package report aggregates crawl results into summary statistics.
package report

import (
	"sort"
	"strings"
	"unicode"

	"github.com/grazehq/webwalk"
)

// WordCount is a word and the number of times it appeared.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Summary holds aggregate statistics over a crawl result.
type Summary struct {
	Pages          int         `json:"pages"`
	Failed         int         `json:"failed"`
	TotalLinks     int         `json:"total_links"`
	TotalImages    int         `json:"total_images"`
	TotalWords     int         `json:"total_words"`
	AvgWordsPage   float64     `json:"avg_words_per_page"`
	DuplicatePages int         `json:"duplicate_pages"`
	TopWords       []WordCount `json:"top_words,omitempty"`
}

// Summarize computes aggregate statistics for a result. topN limits
// the word frequency table; 0 disables it.
func Summarize(res *webwalk.Result, topN int) Summary {
	s := Summary{
		Pages:  res.PagesCrawled,
		Failed: res.PagesFailed,
	}

	freq := make(map[string]int)
	for _, rec := range res.Records {
		s.TotalLinks += len(rec.Links)
		s.TotalImages += len(rec.Images)
		if rec.DuplicateOf != "" {
			s.DuplicatePages++
		}
		if rec.Text == "" {
			continue
		}
		words := tokenize(rec.Text)
		s.TotalWords += len(words)
		if topN > 0 {
			for _, w := range words {
				freq[w]++
			}
		}
	}
	if s.Pages > 0 {
		s.AvgWordsPage = float64(s.TotalWords) / float64(s.Pages)
	}
	if topN > 0 {
		s.TopWords = topWords(freq, topN)
	}
	return s
}

// tokenize lowercases text and splits it on non-letter, non-digit
// runes, dropping single-character tokens.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	words := fields[:0]
	for _, f := range fields {
		if len(f) > 1 {
			words = append(words, f)
		}
	}
	return words
}

func topWords(freq map[string]int, n int) []WordCount {
	counts := make([]WordCount, 0, len(freq))
	for w, c := range freq {
		counts = append(counts, WordCount{Word: w, Count: c})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Word < counts[j].Word
	})
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}
