package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"horaire/internal/capture"
	"horaire/internal/config"
	"horaire/internal/ics"
	appLog "horaire/internal/log"
	"horaire/internal/scrape"
	"horaire/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the scraped schedule as an ICS subscription",
	Long: `Serve re-scrapes the portal on a cron schedule and serves the current
calendar at /schedule.ics, so calendar applications can subscribe to it
instead of re-importing a file every term.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		appLog.SetLevel(appLog.ParseLevel(cfg.LogLevel))

		if cfg.PortalURL == "" {
			return errors.New("portal_url must be set in " + configPath)
		}

		appLog.Info("effective config",
			"listen", cfg.Listen,
			"timezone", cfg.Timezone,
			"refresh", cfg.RefreshCron,
			"portal_url", cfg.PortalURL,
		)

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			sig := <-sigCh
			appLog.Info("signal received, shutting down", "signal", sig.String())
			cancel()
		}()

		refresh := func(ctx context.Context) ([]byte, string, int, error) {
			html, err := capture.SchedulePage(ctx, capture.Options{
				URL:       cfg.PortalURL,
				RemoteURL: cfg.ChromeURL,
			})
			if err != nil {
				return nil, "", 0, err
			}
			sched, err := scrape.Parse(strings.NewReader(html))
			if err != nil {
				return nil, "", 0, err
			}
			if !sched.Triggered() {
				return nil, "", 0, errNotListView
			}
			calendar, count := ics.BuildCalendar(sched.Records, cfg.Timezone)
			if count == 0 {
				return nil, "", 0, errNotListView
			}
			return []byte(calendar), ics.FileName(sched.StudentName), count, nil
		}

		srv := web.NewServer(cfg, refresh)
		if err := srv.Refresh(ctx); err != nil {
			// Keep serving; the cron schedule will retry.
			appLog.Error("initial refresh failed", err)
		}
		if _, err := srv.StartCron(ctx); err != nil {
			return err
		}

		httpSrv := &http.Server{
			Addr:    cfg.Listen,
			Handler: srv.Handler(),
		}
		go func() {
			<-ctx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			_ = httpSrv.Shutdown(shutdownCtx)
		}()

		appLog.Info("starting HTTP server", "listen", "http://"+cfg.Listen)
		if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("config", "/etc/horaire/config.yaml", "Path to config file")
}
