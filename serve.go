package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Zachkp/portfolio/internal/devlog"
	"github.com/Zachkp/portfolio/internal/portfolio"
	"github.com/Zachkp/portfolio/internal/storage"
	"github.com/Zachkp/portfolio/internal/theme"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the portfolio HTTP server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

type statusProvider interface {
	Status(ctx context.Context) (devlog.Response, error)
}

// server holds the handlers' collaborators.
type server struct {
	theme      *theme.Store
	status     statusProvider
	visits     visitStore
	adminToken string
	salt       string
	logger     *slog.Logger

	// bg tracks visitor writes and cleanups still using the database.
	bg sync.WaitGroup
}

type themeState struct {
	Theme    theme.Preference `json:"theme"`
	Explicit bool             `json:"explicit"`
}

type setThemeRequest struct {
	Theme string `json:"theme" binding:"required"`
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := portfolio.Validate(portfolio.Get()); err != nil {
		return err
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	db, err := storage.Open(cfg.DataDir)
	if err != nil {
		return err
	}
	defer db.Close()

	source, closeSource := osSignal()
	defer closeSource()

	themeStore := theme.New(ctx, theme.Options{
		Storage: preferenceStorage(db),
		OS:      source,
		Logger:  logger,
	})

	statusService, closeStatus, err := newStatusService(ctx)
	if err != nil {
		return err
	}
	defer closeStatus()
	logger.Info("loaded API key", "gemini", cfg.MaskedAPIKey())

	s := &server{
		theme:      themeStore,
		status:     statusService,
		visits:     db,
		adminToken: cfg.AdminToken,
		salt:       generateSalt(),
		logger:     logger,
	}
	// Runs after Shutdown returns and before the database is closed.
	defer s.bg.Wait()
	s.background(func() { s.pruneOldVisits(time.Now()) })

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("portfolio listening", "port", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newStatusService builds the dev-log service. Without an API key no Gemini
// client is created and the service reports the disconnected summary.
func newStatusService(ctx context.Context) (*devlog.Service, func(), error) {
	var summarizer devlog.Summarizer
	cleanup := func() {}
	if cfg.GeminiAPIKey != "" {
		g, err := devlog.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, nil, err
		}
		summarizer = g
		cleanup = func() { g.Close() }
	}

	svc := devlog.NewService(devlog.NewGitHub(), summarizer, devlog.Config{
		User:   cfg.GitHubUser,
		Author: cfg.Author,
		TTL:    cfg.StatusTTL,
		Logger: logger,
	})
	return svc, cleanup, nil
}

func (s *server) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
	}))
	if s.visits != nil {
		r.Use(s.visitorTrackingMiddleware())
	}

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Portfolio API is online")
	})

	api := r.Group("/api")
	api.GET("/portfolio", func(c *gin.Context) {
		c.JSON(http.StatusOK, portfolio.Get())
	})
	api.GET("/status", s.handleStatus)

	api.GET("/theme", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.themeState())
	})
	api.PUT("/theme", s.handleSetTheme)
	api.POST("/theme/toggle", func(c *gin.Context) {
		s.theme.Toggle()
		c.JSON(http.StatusOK, s.themeState())
	})
	api.DELETE("/theme", func(c *gin.Context) {
		s.theme.Reset()
		c.JSON(http.StatusOK, s.themeState())
	})
	api.GET("/theme/events", s.handleThemeEvents)

	s.setupAdminRoutes(r)
	return r
}

func (s *server) themeState() themeState {
	return themeState{Theme: s.theme.Value(), Explicit: s.theme.Explicit()}
}

func (s *server) handleStatus(c *gin.Context) {
	resp, err := s.status.Status(c.Request.Context())
	if err != nil {
		s.logger.Error("status unavailable", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   err.Error(),
			"summary": devlog.OfflineSummary,
		})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *server) handleSetTheme(c *gin.Context) {
	var req setThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "theme is required"})
		return
	}
	p, err := theme.ParsePreference(req.Theme)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.theme.Set(p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.themeState())
}

// handleThemeEvents streams the preference as server-sent events, starting
// with the current value. A slow client only ever sees the latest value.
func (s *server) handleThemeEvents(c *gin.Context) {
	updates := make(chan theme.Preference, 1)
	unsubscribe := s.theme.Subscribe(func(p theme.Preference) {
		for {
			select {
			case updates <- p:
				return
			default:
				select {
				case <-updates:
				default:
				}
			}
		}
	})
	defer unsubscribe()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case p := <-updates:
			c.SSEvent("theme", gin.H{"theme": p})
			return true
		}
	})
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}
