package server

import (
	"context"
	"net/http"
	"time"

	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/auth"
	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/config"
	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/models"
	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

// HTTPServer is the lifecycle surface of the server
type HTTPServer interface {
	Start(address string) error
	Shutdown(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	echo     *echo.Echo
	registry *service.Registry
	reports  *service.ReportService
	authn    auth.Authenticator
	policy   auth.Policy
	chapter  config.Chapter
	logger   *logrus.Logger
}

// NewServer creates a new HTTP server
func NewServer(
	cfg config.Config,
	registry *service.Registry,
	reports *service.ReportService,
	authn auth.Authenticator,
	policy auth.Policy,
	logger *logrus.Logger,
) *Server {
	e := echo.New()
	e.Debug = cfg.Server.Debug
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	if cfg.Server.Debug {
		e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
			Format: "${time_rfc3339} ${id} ${method} ${uri} ${status} ${latency_human} ${error}\n",
		}))
	} else {
		e.Use(middleware.Logger())
	}

	s := &Server{
		echo:     e,
		registry: registry,
		reports:  reports,
		authn:    authn,
		policy:   policy,
		chapter:  cfg.Chapter,
		logger:   logger,
	}
	e.HTTPErrorHandler = s.handleError

	s.setupRoutes()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start starts the HTTP server
func (s *Server) Start(address string) error {
	s.logger.WithField("address", address).Info("Starting HTTP server")
	if err := s.echo.Start(address); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)

	api := s.echo.Group("/api/v1")

	public := api.Group("/public")
	{
		public.GET("/about", s.about)
		public.GET("/members", s.publicMembers)
		public.GET("/news", s.publicNews)
		public.GET("/news/:id", s.publicNewsItem)
		public.POST("/join-requests", s.submitJoinRequest)
	}

	// identity is attached per route: a group level middleware would answer
	// unknown /api/v1 paths with 401 instead of 404
	identity := auth.RequireIdentity(s.authn)
	panel := api.Group("")
	{
		panel.GET("/me", s.me, identity)

		mountCRUD[models.Member](panel, "/members", s.registry.Members, s.policy, auth.ResourceMembers, identity)
		mountCRUD[models.News](panel, "/news", s.registry.News, s.policy, auth.ResourceNews, identity)
		mountCRUD[models.CalendarEvent](panel, "/calendar", s.registry.Calendar, s.policy, auth.ResourceCalendar, identity)
		mountCRUD[models.FinanceEntry](panel, "/finance", s.registry.Finance, s.policy, auth.ResourceFinance, identity)
		mountCRUD[models.RollCall](panel, "/rollcalls", s.registry.RollCalls, s.policy, auth.ResourceRollCalls, identity)
		mountCRUD[models.Profile](panel, "/profiles", s.registry.Profiles, s.policy, auth.ResourceProfiles, identity)
		mountCRUD[models.JoinRequest](panel, "/join-requests", s.registry.JoinRequests, s.policy, auth.ResourceJoinRequests, identity)
		mountCRUD[models.Ata](panel, "/atas", s.registry.Atas, s.policy, auth.ResourceAtas, identity)

		panel.GET("/finance/pdf", s.ledgerPDF, identity)
		panel.POST("/atas/:id/publish", s.publishAta, identity, auth.Require(s.policy, auth.ResourceAtas, auth.ActionPublish))
		panel.GET("/atas/:id/pdf", s.ataPDF, identity)
		panel.GET("/atas/:id/docx", s.ataDOCX, identity)
		panel.GET("/rollcalls/:id/pdf", s.rollCallPDF, identity)

		panel.GET("/templates", s.listTemplates, identity)
		panel.GET("/templates/:key", s.generateTemplate, identity)

		panel.GET("/documents", s.listDocuments, identity)
		panel.GET("/documents/:id/download", s.downloadDocument, identity)
		panel.DELETE("/documents/:id", s.deleteDocument, identity)
	}
}

func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "capitulo862",
	})
}
