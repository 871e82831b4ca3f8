// Package browser drives a live Chrome tab through the DevTools protocol. Every page
// mutation is an embedded script evaluated in the tab, addressed by the uids the snapshot
// script stamps on elements.
package browser

import (
	"context"
	"fmt"
	"time"

	cdpbrowser "github.com/chromedp/cdproto/browser"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// DefaultNavTimeout bounds page navigation.
const DefaultNavTimeout = 30 * time.Second

// DefaultCallTimeout bounds a single script evaluation.
const DefaultCallTimeout = 10 * time.Second

// Options configures a browser session.
type Options struct {
	// Headless launches Chrome without a window. Ignored when RemoteURL is set.
	Headless bool
	// RemoteURL attaches to an already running browser through its DevTools websocket.
	RemoteURL string
	// NavTimeout bounds navigation. Zero means DefaultNavTimeout.
	NavTimeout time.Duration
	// DownloadDir receives files saved by the manual upload fallback.
	DownloadDir string
	Logger      *zap.Logger
}

// Session owns one Chrome tab.
type Session struct {
	tab     context.Context
	cancels []context.CancelFunc
	opts    Options
	logger  *zap.Logger
}

// Open launches Chrome, or attaches to RemoteURL, and opens a tab.
func Open(ctx context.Context, opts Options) (*Session, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.NavTimeout <= 0 {
		opts.NavTimeout = DefaultNavTimeout
	}

	names, err := Scripts()
	if err != nil {
		return nil, fmt.Errorf("failed to list page scripts: %w", err)
	}
	for _, name := range names {
		if _, err := script(name); err != nil {
			return nil, err
		}
	}
	logger.Debug("page scripts loaded", zap.Strings("scripts", names))

	var allocCtx context.Context
	var cancelAlloc context.CancelFunc
	if opts.RemoteURL != "" {
		logger.Info("attaching to running browser", zap.String("remote_url", opts.RemoteURL))
		allocCtx, cancelAlloc = chromedp.NewRemoteAllocator(ctx, opts.RemoteURL)
	} else {
		logger.Info("starting browser", zap.Bool("headless", opts.Headless))
		allocCtx, cancelAlloc = chromedp.NewExecAllocator(ctx,
			append(chromedp.DefaultExecAllocatorOptions[:],
				chromedp.Flag("headless", opts.Headless),
				chromedp.Flag("disable-gpu", true),
				chromedp.Flag("no-sandbox", true),
				chromedp.Flag("disable-dev-shm-usage", true),
			)...,
		)
	}

	tab, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(logger.Sugar().Debugf))
	s := &Session{
		tab:     tab,
		cancels: []context.CancelFunc{cancelTab, cancelAlloc},
		opts:    opts,
		logger:  logger,
	}

	// The first Run starts the browser and attaches the tab.
	if err := chromedp.Run(tab); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	if opts.DownloadDir != "" {
		err := chromedp.Run(tab, cdpbrowser.SetDownloadBehavior(cdpbrowser.SetDownloadBehaviorBehaviorAllow).
			WithDownloadPath(opts.DownloadDir).
			WithEventsEnabled(true))
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to configure downloads: %w", err)
		}
	}
	return s, nil
}

// Navigate loads url in the tab and waits for the body to be ready.
func (s *Session) Navigate(ctx context.Context, url string) error {
	nctx, cancel := context.WithTimeout(s.tab, s.opts.NavTimeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	s.logger.Info("navigating", zap.String("url", url))
	if err := chromedp.Run(nctx, chromedp.Navigate(url), chromedp.WaitReady("body")); err != nil {
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}
	return nil
}

// Location returns the URL of the page currently loaded in the tab.
func (s *Session) Location(ctx context.Context) (string, error) {
	var loc string
	cctx, cancel := context.WithTimeout(s.tab, DefaultCallTimeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	if err := chromedp.Run(cctx, chromedp.Location(&loc)); err != nil {
		return "", fmt.Errorf("failed to read location: %w", err)
	}
	return loc, nil
}

// Driver returns a dom.Driver bound to the session's tab.
func (s *Session) Driver() *Driver {
	return &Driver{tab: s.tab, timeout: DefaultCallTimeout, logger: s.logger}
}

// Close closes the tab and, for a launched browser, the browser itself.
func (s *Session) Close() {
	for _, cancel := range s.cancels {
		cancel()
	}
}
