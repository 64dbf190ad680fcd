package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mohammad-safakhou/scout/config"
	"github.com/mohammad-safakhou/scout/internal/research"
	"github.com/mohammad-safakhou/scout/internal/search"
	"github.com/mohammad-safakhou/scout/provider"
	"github.com/mohammad-safakhou/scout/repository"
	"github.com/mohammad-safakhou/scout/tools/web_search"
)

// Run wires the service together and serves the HTTP API.
func Run(cfg *config.Config) error {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	// Unified HTTP error handler with structured JSON and logging
	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(200, "ok") })
	if cfg.Telemetry.Enabled {
		e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	}

	// Shared dependencies (top-level DI). Credential absence is a
	// configuration error surfaced before any request is served.
	llm, err := provider.NewProvider(cfg.LLM)
	if err != nil {
		return fmt.Errorf("llm provider: %w", err)
	}
	searcher, err := web_search.NewWebSearcher(web_search.Provider(cfg.Search.Provider), cfg.Search.APIKey)
	if err != nil {
		return fmt.Errorf("web searcher: %w", err)
	}
	gateway := search.NewGateway(searcher, cfg.Search, log.New(log.Writer(), "[SEARCH] ", log.LstdFlags))
	engine := research.NewEngine(llm, gateway, cfg.Research, cfg.LLM.Temperature, log.New(log.Writer(), "[ENGINE] ", log.LstdFlags))

	repo, err := repository.NewChatRepository(context.Background(), cfg.Storage)
	if err != nil {
		return fmt.Errorf("chat repository: %w", err)
	}

	ch := &ChatsHandler{
		Repo:           repo,
		Engine:         engine,
		Gateway:        gateway,
		RequestTimeout: cfg.Server.RequestTimeout,
		HistoryWindow:  cfg.Research.HistoryMessages,
		Logger:         log.New(log.Writer(), "[CHATS] ", log.LstdFlags),
	}
	api := e.Group("/api")
	ch.Register(api.Group("/chats"))

	return e.Start(cfg.Server.Address)
}
