// Package httpapi exposes the public HTTP surface: authentication
// endpoints, the activity catalog, and the organizer profile, built on
// gin. Protected routes go through the requireToken middleware.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/akozlov/activityhub/internal/logging"
	"github.com/akozlov/activityhub/internal/server/auth"
	"github.com/akozlov/activityhub/internal/server/config"
	"github.com/akozlov/activityhub/internal/server/repositories/revokedtokens"
	"github.com/akozlov/activityhub/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	config      *config.Config
	log         logging.Logger
	issuer      *auth.Issuer
	organizers  *services.OrganizerService
	activities  *services.ActivityService
	revokedRepo revokedtokens.Repository

	engine     *gin.Engine
	httpServer *http.Server
}

func NewServer(cfg *config.Config, log logging.Logger, issuer *auth.Issuer,
	organizers *services.OrganizerService, activities *services.ActivityService,
	revokedRepo revokedtokens.Repository) *Server {

	s := &Server{
		config:      cfg,
		log:         log.With("component", "httpapi"),
		issuer:      issuer,
		organizers:  organizers,
		activities:  activities,
		revokedRepo: revokedRepo,
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), s.requestLogger())
	s.registerRoutes(engine)
	s.engine = engine

	return s
}

func (s *Server) registerRoutes(engine *gin.Engine) {
	api := engine.Group("/api")

	api.POST("/auth/login", s.login)
	api.POST("/auth/refresh", s.requireToken(auth.TokenTypeRefresh), s.refresh)
	api.POST("/auth/logout", s.requireToken(auth.TokenTypeAccess, auth.TokenTypeRefresh), s.logout)

	api.GET("/activities", s.listActivities)
	api.GET("/activities/topics", s.listTopics)
	api.GET("/activities/age_groups", s.listAgeGroups)

	authed := api.Group("", s.requireToken(auth.TokenTypeAccess))
	authed.POST("/activities", s.createActivity)
	authed.PUT("/activities/:id", s.updateActivity)
	authed.DELETE("/activities/:id", s.deleteActivity)
	authed.GET("/organizers/me", s.getProfile)
	authed.PUT("/organizers/me", s.updateProfile)
}

// Handler exposes the routed engine, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run starts the HTTP listener and blocks until ctx is canceled, then
// shuts the server down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:    s.config.EndpointAddrHTTP,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info(ctx, "starting http server", "addr", s.config.EndpointAddrHTTP)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info(ctx, "stopping http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug(c.Request.Context(), "request handled",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
