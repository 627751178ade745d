package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/playwright-community/playwright-go"
)

// ErrSessionLocked means another run already owns the browser session.
var ErrSessionLocked = errors.New("browser session already in use")

// Options describes the browser a run gets.
type Options struct {
	Headless       bool
	UserAgent      string
	ViewportWidth  int
	ViewportHeight int
	// LockPath guards against two runs driving the listing at once.
	LockPath string
}

// PlaywrightManager owns the playwright driver, one browser and the
// session lock for the lifetime of a run.
type PlaywrightManager struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	lock    *flock.Flock
	opts    Options
}

func NewPlaywright(ctx context.Context, opts Options) (*PlaywrightManager, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pm := &PlaywrightManager{opts: opts}
	if opts.LockPath != "" {
		if err := os.MkdirAll(filepath.Dir(opts.LockPath), 0755); err != nil {
			return nil, fmt.Errorf("create lock dir: %w", err)
		}
		pm.lock = flock.New(opts.LockPath)
		locked, err := pm.lock.TryLock()
		if err != nil {
			return nil, fmt.Errorf("acquire session lock: %w", err)
		}
		if !locked {
			return nil, fmt.Errorf("%w: %s", ErrSessionLocked, opts.LockPath)
		}
	}

	pw, err := playwright.Run()
	if err != nil {
		pm.unlock()
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}
	pm.pw = pw

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args: []string{
			"--no-sandbox",
			"--disable-dev-shm-usage",
			"--disable-gpu",
		},
	})
	if err != nil {
		pw.Stop()
		pm.unlock()
		return nil, fmt.Errorf("could not launch chromium: %w", err)
	}
	pm.browser = browser
	return pm, nil
}

// NewContext opens an isolated browser context seeded with cookies.
func (pm *PlaywrightManager) NewContext(cookies []playwright.OptionalCookie) (playwright.BrowserContext, error) {
	opts := playwright.BrowserNewContextOptions{}
	if pm.opts.UserAgent != "" {
		opts.UserAgent = playwright.String(pm.opts.UserAgent)
	}
	if pm.opts.ViewportWidth > 0 && pm.opts.ViewportHeight > 0 {
		opts.Viewport = &playwright.Size{
			Width:  pm.opts.ViewportWidth,
			Height: pm.opts.ViewportHeight,
		}
	}

	bctx, err := pm.browser.NewContext(opts)
	if err != nil {
		return nil, fmt.Errorf("create browser context: %w", err)
	}
	if len(cookies) > 0 {
		if err := bctx.AddCookies(cookies); err != nil {
			bctx.Close()
			return nil, fmt.Errorf("add cookies: %w", err)
		}
	}
	return bctx, nil
}

func (pm *PlaywrightManager) Close() error {
	var errs []error
	if pm.browser != nil {
		if err := pm.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close browser: %w", err))
		}
	}
	if pm.pw != nil {
		if err := pm.pw.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop playwright: %w", err))
		}
	}
	if err := pm.unlock(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (pm *PlaywrightManager) unlock() error {
	if pm.lock == nil {
		return nil
	}
	if err := pm.lock.Unlock(); err != nil {
		return fmt.Errorf("release session lock: %w", err)
	}
	return nil
}
