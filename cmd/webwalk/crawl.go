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
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/grazehq/webwalk"
	"github.com/grazehq/webwalk/internal/report"
	"github.com/grazehq/webwalk/internal/store"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [url]",
		Short: "Crawl a website breadth-first from a seed URL",
		Long: `Crawl fetches the seed URL and follows links breadth-first, staying
on the seed's domain, until the depth or page limit is reached.

The extraction mode controls what is collected from each page:
  links     anchor text and href of every <a> tag
  images    alt text and src of every <img> tag
  text      visible page text with scripts and styles removed
  metadata  title, meta description, and meta keywords

Examples:
  # Crawl two levels deep, collecting links
  webwalk crawl example.com --depth 2

  # Collect page text from up to 50 pages
  webwalk crawl https://example.com --mode text --max-pages 50

  # Crawl politely with a custom delay and save the run
  webwalk crawl example.com --delay 1s --save`,
		Args: cobra.ExactArgs(1),
		RunE: runCrawlCmd,
	}

	cmd.Flags().IntP("depth", "d", 1, "Maximum link depth from the seed (0 = seed only)")
	cmd.Flags().IntP("max-pages", "p", 100, "Maximum number of pages to fetch")
	cmd.Flags().StringP("mode", "m", "links", "Extraction mode: links, images, text, or metadata")
	cmd.Flags().Duration("delay", 500*time.Millisecond, "Delay between requests")
	cmd.Flags().DurationP("timeout", "t", 10*time.Second, "HTTP request timeout")
	cmd.Flags().Int("parallelism", 1, "Number of concurrent fetches per depth level")
	cmd.Flags().String("user-agent", "", "Override the User-Agent header")
	cmd.Flags().StringSliceP("exclude", "x", nil, "Glob patterns for URLs to skip (repeatable)")
	cmd.Flags().Bool("sitemap", false, "Seed the frontier from the site's sitemap.xml")
	cmd.Flags().Bool("charset", false, "Detect and convert non-UTF-8 page encodings")
	cmd.Flags().Bool("save", false, "Save the run to the local database")
	cmd.Flags().StringP("output", "o", "", "Write the result JSON to a file instead of stdout")
	cmd.Flags().Int("top-words", 0, "Include the N most frequent words in the summary (text mode)")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	mode, err := webwalk.ParseMode(mustString(cmd, "mode"))
	if err != nil {
		return err
	}

	logger := setupLogger(getVerboseFlag(cmd))

	cfg := webwalk.DefaultConfig()
	cfg.Delay = mustDuration(cmd, "delay")
	cfg.Timeout = mustDuration(cmd, "timeout")
	cfg.Parallelism = mustInt(cmd, "parallelism")
	cfg.ExcludePatterns, _ = cmd.Flags().GetStringSlice("exclude")
	cfg.SeedFromSitemap = mustBool(cmd, "sitemap")
	cfg.DetectCharset = mustBool(cmd, "charset")
	cfg.Logger = &logger
	if ua := mustString(cmd, "user-agent"); ua != "" {
		cfg.UserAgent = ua
	}

	crawler, err := webwalk.New(cfg)
	if err != nil {
		return err
	}

	req := webwalk.Request{
		SeedURL:  args[0],
		MaxDepth: mustInt(cmd, "depth"),
		MaxPages: mustInt(cmd, "max-pages"),
		Mode:     mode,
	}

	// Cancel the crawl on Ctrl-C; partial results are discarded.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().
		Str("seed", req.SeedURL).
		Int("depth", req.MaxDepth).
		Int("maxPages", req.MaxPages).
		Str("mode", string(req.Mode)).
		Msg("starting crawl")

	res, err := crawler.Run(ctx, req)
	if err != nil {
		return fmt.Errorf("crawl failed: %w", err)
	}

	summary := report.Summarize(res, mustInt(cmd, "top-words"))
	logger.Info().
		Int("pages", summary.Pages).
		Int("failed", summary.Failed).
		Bool("truncated", res.Truncated).
		Dur("duration", res.Duration).
		Msg("crawl finished")

	if mustBool(cmd, "save") {
		st, err := store.NewStore()
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer st.Close()
		run, err := st.SaveRun(req, res)
		if err != nil {
			return err
		}
		logger.Info().Uint("run", run.ID).Msg("run saved")
	}

	return writeResultJSON(cmd, res, summary)
}

// writeResultJSON prints the result and summary as indented JSON to
// stdout or the --output file.
func writeResultJSON(cmd *cobra.Command, res *webwalk.Result, summary report.Summary) error {
	output := struct {
		*webwalk.Result
		Summary report.Summary `json:"summary"`
	}{Result: res, Summary: summary}

	out := cmd.OutOrStdout()
	if path := mustString(cmd, "output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

func mustString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

func mustInt(cmd *cobra.Command, name string) int {
	v, _ := cmd.Flags().GetInt(name)
	return v
}

func mustBool(cmd *cobra.Command, name string) bool {
	v, _ := cmd.Flags().GetBool(name)
	return v
}

func mustDuration(cmd *cobra.Command, name string) time.Duration {
	v, _ := cmd.Flags().GetDuration(name)
	return v
}
