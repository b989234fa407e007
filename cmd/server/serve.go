package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	"docqa/router"

	authCtrlImp "docqa/pkg/auth/controllerImp"
	docCtrlImp "docqa/pkg/document/controllerImp"
	folderCtrlImp "docqa/pkg/folder/controllerImp"
	healthCtrlImp "docqa/pkg/health/controllerImp"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := buildApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.restoreIndex(ctx); err != nil {
				return err
			}

			e := newEcho(cfg.MaxUploadMB)
			fetcher := docCtrlImp.NewFetcher(cfg.URLAllowedDomains, int64(cfg.URLMaxBytes), 20*time.Second)
			router.New(
				e,
				cfg.AuthEnabled,
				a.auth,
				authCtrlImp.NewAuthController(a.auth),
				docCtrlImp.New(a.docs, a.folders, fetcher),
				folderCtrlImp.New(a.folders, a.docs),
				healthCtrlImp.NewHealthCtrl(a.db, a.index),
			)
			if !cfg.AuthEnabled {
				slog.Warn("[auth] authentication disabled, every caller is an anonymous admin")
			}

			if st, err := os.Stat(cfg.StaticDir); err == nil && st.IsDir() {
				e.Static("/static", cfg.StaticDir)
				e.File("/", cfg.StaticDir+"/index.html")
			} else {
				slog.Warn("[static] directory not found, front-end disabled", "dir", cfg.StaticDir)
			}

			go func() {
				<-ctx.Done()
				shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				_ = e.Shutdown(shutdown)
			}()

			slog.Info("listening", "port", cfg.Port)
			if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
}

func newEcho(maxUploadMB int) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = errorHandler
	e.Use(echoMiddleware.Recover())
	if maxUploadMB > 0 {
		e.Use(echoMiddleware.BodyLimit(fmt.Sprintf("%dM", maxUploadMB)))
	}
	e.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			attrs := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency}
			if v.Error != nil {
				slog.Error("[http] request", append(attrs, "err", v.Error)...)
				return nil
			}
			slog.Info("[http] request", attrs...)
			return nil
		},
	}))
	return e
}

// errorHandler renders every unhandled error as {"error": msg}.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := err.Error()
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		msg = fmt.Sprint(he.Message)
	}
	if code >= http.StatusInternalServerError {
		slog.Error("[http] unhandled error", "err", err)
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, map[string]string{"error": msg})
}
