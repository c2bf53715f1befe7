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

import "encoding/json"

// Run represents one completed crawl.
type Run struct {
	ID           uint   `gorm:"primaryKey"`
	SeedURL      string `gorm:"not null;index"`
	Mode         string `gorm:"not null"`
	MaxDepth     int    `gorm:"not null"`
	MaxPages     int    `gorm:"not null"`
	PagesCrawled int    `gorm:"not null"`
	PagesFailed  int    `gorm:"not null"`
	Truncated    bool   `gorm:"default:false"`
	DurationMs   int64  `gorm:"not null"`
	Pages        []Page `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE"`
	CreatedAt    int64  `gorm:"autoCreateTime"`
}

// Page represents one crawled page within a run. Payload holds the
// mode-specific extraction output as JSON.
type Page struct {
	ID          uint   `gorm:"primaryKey"`
	RunID       uint   `gorm:"not null;index"`
	URL         string `gorm:"not null"`
	Depth       int    `gorm:"not null"`
	ContentHash string
	DuplicateOf string
	Payload     string `gorm:"type:text"`
}

// SetPayload serializes v to JSON into the Payload column.
func (p *Page) SetPayload(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	p.Payload = string(data)
	return nil
}

// GetPayload deserializes the Payload column into v.
func (p *Page) GetPayload(v interface{}) error {
	if p.Payload == "" {
		return nil
	}
	return json.Unmarshal([]byte(p.Payload), v)
}
