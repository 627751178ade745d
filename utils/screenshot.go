package utils

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/playwright-community/playwright-go"
)

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// ScreenShotDebugger dumps a screenshot and the page HTML when a step fails.
type ScreenShotDebugger struct {
	outputDir string
	page      playwright.Page
	log       *slog.Logger
	now       func() time.Time
}

func NewScreenShotDebugger(dir string, page playwright.Page, log *slog.Logger) (*ScreenShotDebugger, error) {
	if dir == "" {
		dir = filepath.Join(".", "logs", "screenshots")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create debug dir: %w", err)
	}
	return &ScreenShotDebugger{outputDir: dir, page: page, log: log, now: time.Now}, nil
}

// Capture has the signature of a session failure hook. Errors are logged,
// never returned, so a broken page cannot mask the original failure.
func (s *ScreenShotDebugger) Capture(_ context.Context, name string) {
	base := s.basename(name)

	png := filepath.Join(s.outputDir, base+".png")
	if _, err := s.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(png),
		FullPage: playwright.Bool(true),
	}); err != nil {
		s.log.Warn("capture screenshot failed", "name", name, "err", err)
	} else {
		s.log.Info("screenshot saved", "path", png)
	}

	html, err := s.page.Content()
	if err != nil {
		s.log.Warn("read page content failed", "name", name, "err", err)
		return
	}
	dump := filepath.Join(s.outputDir, base+".html")
	if err := os.WriteFile(dump, []byte(html), 0644); err != nil {
		s.log.Warn("write html dump failed", "path", dump, "err", err)
		return
	}
	s.log.Info("html dump saved", "path", dump)
}

func (s *ScreenShotDebugger) basename(name string) string {
	return fmt.Sprintf("%s_%s", unsafeName.ReplaceAllString(name, "_"), s.now().Format("2006-01-02_15-04-05"))
}
