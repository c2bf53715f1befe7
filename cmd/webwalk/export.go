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

package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kennygrant/sanitize"
	"github.com/spf13/cobra"

	"github.com/grazehq/webwalk"
	"github.com/grazehq/webwalk/internal/store"
)

// NewExportCmd creates the export command.
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [run-id]",
		Short: "Export a saved crawl run to JSON or CSV",
		Long: `Export writes a previously saved run from the local database to disk.

JSON export produces a single file with all page records. CSV export
produces one pages.csv plus, in text mode, one text file per page
named after its sanitized URL.`,
		Args: cobra.ExactArgs(1),
		RunE: runExportCmd,
	}

	cmd.Flags().StringP("format", "f", "json", "Export format: json or csv")
	cmd.Flags().StringP("output", "o", ".", "Output directory")

	return cmd
}

func runExportCmd(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid run id %q", args[0])
	}

	format := mustString(cmd, "format")
	if format != "json" && format != "csv" {
		return fmt.Errorf("unknown format %q: want json or csv", format)
	}

	st, err := store.NewStore()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer st.Close()

	run, err := st.GetRun(uint(id))
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run %d not found", id)
	}

	records, err := run.Records()
	if err != nil {
		return err
	}

	outDir := mustString(cmd, "output")
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if format == "json" {
		return exportJSON(outDir, run, records)
	}
	return exportCSV(outDir, run, records)
}

func exportJSON(outDir string, run *store.Run, records []webwalk.PageRecord) error {
	output := struct {
		RunID    uint                 `json:"runId"`
		SeedURL  string               `json:"seedUrl"`
		Mode     string               `json:"mode"`
		Pages    int                  `json:"pages"`
		Records  []webwalk.PageRecord `json:"records"`
	}{
		RunID:   run.ID,
		SeedURL: run.SeedURL,
		Mode:    run.Mode,
		Pages:   len(records),
		Records: records,
	}

	f, err := os.Create(filepath.Join(outDir, fmt.Sprintf("run_%d.json", run.ID)))
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

func exportCSV(outDir string, run *store.Run, records []webwalk.PageRecord) error {
	f, err := os.Create(filepath.Join(outDir, "pages.csv"))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"url", "depth", "links", "images", "title", "content_hash", "duplicate_of"}); err != nil {
		return err
	}
	for _, rec := range records {
		title := ""
		if rec.Metadata != nil {
			title = rec.Metadata.Title
		}
		row := []string{
			rec.URL,
			strconv.Itoa(rec.Depth),
			strconv.Itoa(len(rec.Links)),
			strconv.Itoa(len(rec.Images)),
			title,
			rec.ContentHash,
			rec.DuplicateOf,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	// Text mode additionally gets one plain-text file per page.
	if run.Mode == string(webwalk.ModeText) {
		for _, rec := range records {
			if rec.Text == "" {
				continue
			}
			name := urlToFilename(rec.URL)
			if err := os.WriteFile(filepath.Join(outDir, name), []byte(rec.Text), 0644); err != nil {
				return err
			}
		}
	}
	return nil
}

// urlToFilename converts a URL to a disk-safe .txt filename.
func urlToFilename(pageURL string) string {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(pageURL, "https://"), "http://")
	name := sanitize.BaseName(trimmed)
	if name == "" {
		name = "index"
	}
	return name + ".txt"
}
