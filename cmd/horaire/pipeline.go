package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/pflag"

	"horaire/internal/capture"
	"horaire/internal/scrape"
)

// loadSchedule reads the rendered schedule page from a saved HTML file
// or, when none is given, captures it live via Chromium.
func loadSchedule(ctx context.Context, input, url, chromeURL string) (*scrape.Schedule, error) {
	if input != "" {
		f, err := os.Open(input)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", input, err)
		}
		defer f.Close()
		return scrape.Parse(f)
	}

	if url == "" {
		return nil, errors.New("either --input or --url is required")
	}

	var html string
	var err error
	_ = spinner.New().
		Title("Capturing rendered schedule page...").
		Action(func() {
			html, err = capture.SchedulePage(ctx, capture.Options{
				URL:       url,
				RemoteURL: chromeURL,
			})
		}).
		Run()
	if err != nil {
		return nil, fmt.Errorf("failed to capture schedule page: %w", err)
	}

	return scrape.Parse(strings.NewReader(html))
}

func addPageFlags(flags *pflag.FlagSet) {
	flags.StringP("input", "i", "", "Saved schedule page HTML file")
	flags.StringP("url", "u", "", "URL of the rendered schedule page")
	flags.StringP("chrome", "c", "", "DevTools endpoint of a logged-in Chromium (e.g. ws://127.0.0.1:9222)")
}
