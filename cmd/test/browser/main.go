package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"go-seasonal-jobs/internal/browser"
	"go-seasonal-jobs/internal/config"

	"github.com/playwright-community/playwright-go"
)

// Opens the listing once and reports what the selectors see, to check the
// markup still matches before a long run.
func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML config")
	shot := flag.String("screenshot", "listing-test.png", "where to save a screenshot")
	flag.Parse()

	fmt.Println("🌐 Testing browser against the listing...")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pm, err := browser.NewPlaywright(ctx, browser.Options{
		Headless:       cfg.Browser.Headless,
		UserAgent:      cfg.Browser.UserAgent,
		ViewportWidth:  cfg.Browser.ViewportWidth,
		ViewportHeight: cfg.Browser.ViewportHeight,
		LockPath:       cfg.Browser.LockPath,
	})
	if err != nil {
		log.Fatalf("Failed to create Playwright: %v", err)
	}
	defer pm.Close()
	fmt.Println("✅ Playwright started")

	cookies, err := browser.LoadCookies(cfg.Browser.CookiesPath)
	if err != nil {
		log.Fatalf("Failed to load cookies: %v", err)
	}
	fmt.Printf("✅ Loaded %d cookies\n", len(cookies))

	browserCtx, err := pm.NewContext(cookies)
	if err != nil {
		log.Fatalf("Failed to create context: %v", err)
	}
	defer browserCtx.Close()

	raw, err := browserCtx.NewPage()
	if err != nil {
		log.Fatalf("Failed to create page: %v", err)
	}
	page := browser.NewPage(raw, cfg.Timeouts.Wait).WithWarmup()

	fmt.Println("🔍 Navigating to listing...")
	if err := page.Navigate(ctx, cfg.ListingURL); err != nil {
		log.Fatalf("Failed to navigate: %v", err)
	}
	if err := page.WaitVisible(ctx, cfg.Selectors.Entry, cfg.Timeouts.Wait); err != nil {
		log.Fatalf("No entries matched %q: %v", cfg.Selectors.Entry, err)
	}

	title, _ := raw.Title()
	fmt.Printf("✅ Page title: %s\n", title)

	for _, sel := range []string{cfg.Selectors.Entry, cfg.Selectors.LoadMore} {
		n, err := page.Count(ctx, sel)
		if err != nil {
			log.Printf("⚠️ Count %q: %v", sel, err)
			continue
		}
		fmt.Printf("   %-50s %d\n", sel, n)
	}

	if _, err := raw.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(*shot),
		FullPage: playwright.Bool(true),
	}); err != nil {
		log.Printf("Failed to take screenshot: %v", err)
	} else {
		fmt.Printf("📸 Screenshot saved: %s\n", *shot)
	}
	fmt.Println("✨ Test complete!")
}
