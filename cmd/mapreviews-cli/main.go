// mapreviews-cli harvests one business page's reviews and writes them
// to stdout as JSON. Exit status is non-zero when acquisition fails.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"mapreviews/config"
	"mapreviews/extractor"
	"mapreviews/reviews"
	"mapreviews/scraper"
)

func main() {
	timeout := flag.Duration("timeout", 0, "overall deadline (default from config)")
	noStealth := flag.Bool("no-stealth", false, "disable stealth JS injection")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <url>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	pageURL := flag.Arg(0)

	_ = godotenv.Load()
	cfg := config.Load()

	// Logs go to stderr so stdout stays clean JSON.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	if err := run(cfg, pageURL, *timeout, !*noStealth); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, pageURL string, timeout time.Duration, stealth bool) error {
	sc, err := scraper.NewScraper(cfg.Browser, cfg.Harvest, cfg.Widget)
	if err != nil {
		return err
	}
	defer sc.Close()

	ex, err := extractor.New(cfg.Widget.ItemSelector)
	if err != nil {
		return err
	}
	hv := reviews.New(sc, ex)

	if timeout <= 0 {
		timeout = cfg.Harvest.DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	revs, skipped, err := hv.GetReviews(ctx, pageURL, stealth)
	if err != nil {
		return err
	}
	for _, s := range skipped {
		slog.Warn("review skipped", "index", s.Index, "reason", s.Reason)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(revs)
}
