package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/ats-autofill/internal/autofill"
	"github.com/jonathan/ats-autofill/internal/browser"
	"github.com/jonathan/ats-autofill/internal/config"
	"github.com/jonathan/ats-autofill/internal/db"
	"github.com/jonathan/ats-autofill/internal/server"
	"github.com/jonathan/ats-autofill/internal/server/ratelimit"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local autofill API server",
	Long: `Start an HTTP server that fills forms in a Chrome tab on request.

Bearer authentication is enabled when JWT_SECRET is set; POST /token exchanges the key
whose bcrypt hash is in AUTOFILL_API_KEY_HASH for a token. Fill history is recorded when
DATABASE_URL (or --db-url) is set.`,
	RunE: runServe,
}

var (
	servePort        int
	serveURL         string
	serveRemoteURL   string
	serveDownloadDir string
	serveDatabaseURL string
	serveHeadless    bool
)

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", config.DefaultPort, "Port to listen on")
	serveCmd.Flags().StringVar(&serveURL, "url", "", "Page to open when the browser starts")
	serveCmd.Flags().StringVar(&serveRemoteURL, "remote-url", "", "DevTools websocket URL of a running browser")
	serveCmd.Flags().StringVar(&serveDownloadDir, "download-dir", "", "Directory for the manual-upload fallback download")
	serveCmd.Flags().StringVar(&serveDatabaseURL, "db-url", "", "Database URL for fill history (overrides DATABASE_URL)")
	serveCmd.Flags().BoolVar(&serveHeadless, "headless", false, "Launch Chrome headless")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}
	overlay(cmd, "url", &cfg.URL, serveURL)
	overlay(cmd, "remote-url", &cfg.RemoteURL, serveRemoteURL)
	overlay(cmd, "download-dir", &cfg.DownloadDir, serveDownloadDir)
	overlay(cmd, "db-url", &cfg.DatabaseURL, serveDatabaseURL)
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cmd.Flags().Changed("headless") || configPath == "" {
		cfg.Headless = serveHeadless
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srvCfg := server.Config{
		Port:      cfg.Port,
		RateLimit: ratelimit.LoadConfig().WithFillRate(cfg.RateLimitRPS),
		Logger:    logger,
	}

	if os.Getenv("JWT_SECRET") != "" {
		jwtCfg, err := config.NewJWTConfig()
		if err != nil {
			return err
		}
		srvCfg.JWT = jwtCfg
		if os.Getenv("AUTOFILL_API_KEY_HASH") != "" {
			keyCfg, err := config.NewAPIKeyConfig()
			if err != nil {
				return err
			}
			srvCfg.APIKey = keyCfg
		}
	} else {
		logger.Warn("JWT_SECRET not set, fill endpoints are unauthenticated")
	}

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()
		if err := database.EnsureSchema(ctx); err != nil {
			return err
		}
		srvCfg.Store = database
	}

	session, err := browser.Open(ctx, browser.Options{
		Headless:    cfg.Headless,
		RemoteURL:   cfg.RemoteURL,
		NavTimeout:  cfg.NavTimeout(),
		DownloadDir: cfg.DownloadDir,
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	defer session.Close()

	if cfg.URL != "" {
		if err := session.Navigate(ctx, cfg.URL); err != nil {
			return err
		}
	}

	srvCfg.Navigator = session
	srvCfg.Engine = autofill.New(session.Driver(),
		autofill.WithTimings(cfg.Timings()),
		autofill.WithLogger(logger),
	)

	srv, err := server.New(srvCfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("closing browser", zap.Bool("remote", cfg.RemoteURL != ""))
		session.Close()
		return nil
	})
	return g.Wait()
}
