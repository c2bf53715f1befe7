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

package store

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/grazehq/webwalk"
)

// SaveRun persists a completed crawl result and returns the stored run.
func (s *Store) SaveRun(req webwalk.Request, res *webwalk.Result) (*Run, error) {
	run := Run{
		SeedURL:      req.SeedURL,
		Mode:         string(req.Mode),
		MaxDepth:     req.MaxDepth,
		MaxPages:     req.MaxPages,
		PagesCrawled: res.PagesCrawled,
		PagesFailed:  res.PagesFailed,
		Truncated:    res.Truncated,
		DurationMs:   res.Duration.Milliseconds(),
	}

	for _, rec := range res.Records {
		page := Page{
			URL:         rec.URL,
			Depth:       rec.Depth,
			ContentHash: rec.ContentHash,
			DuplicateOf: rec.DuplicateOf,
		}
		if err := page.SetPayload(rec); err != nil {
			return nil, fmt.Errorf("failed to serialize page %s: %v", rec.URL, err)
		}
		run.Pages = append(run.Pages, page)
	}

	if err := s.db.Create(&run).Error; err != nil {
		return nil, fmt.Errorf("failed to save run: %v", err)
	}
	return &run, nil
}

// GetRun loads a run with its pages.
func (s *Store) GetRun(id uint) (*Run, error) {
	var run Run
	result := s.db.Preload("Pages").First(&run, id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run: %v", result.Error)
	}
	return &run, nil
}

// ListRuns returns all runs ordered by creation time, newest first.
// Pages are not loaded.
func (s *Store) ListRuns() ([]Run, error) {
	var runs []Run
	result := s.db.Order("created_at DESC").Find(&runs)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list runs: %v", result.Error)
	}
	return runs, nil
}

// DeleteRun removes a run and its pages.
func (s *Store) DeleteRun(id uint) error {
	if err := s.db.Where("run_id = ?", id).Delete(&Page{}).Error; err != nil {
		return fmt.Errorf("failed to delete run pages: %v", err)
	}
	if err := s.db.Delete(&Run{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete run: %v", err)
	}
	return nil
}

// Records rebuilds the crawl records stored with a run.
func (r *Run) Records() ([]webwalk.PageRecord, error) {
	records := make([]webwalk.PageRecord, 0, len(r.Pages))
	for _, p := range r.Pages {
		var rec webwalk.PageRecord
		if err := p.GetPayload(&rec); err != nil {
			return nil, fmt.Errorf("failed to decode page %s: %v", p.URL, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
