package web

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hance08/txgate/internal/auth"
	"github.com/hance08/txgate/internal/service"
)

// Server is the txgate HTTP surface
type Server struct {
	svc    *service.Service
	authn  *auth.Authenticator
	authz  auth.Authorizer
	logger *zap.Logger
	router *gin.Engine
}

// NewServer wires the routes onto a fresh gin engine
func NewServer(svc *service.Service, authn *auth.Authenticator, authz auth.Authorizer, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))
	router.SetHTMLTemplate(template.Must(template.New("link_result.html").Parse(linkResultPage)))

	s := &Server{
		svc:    svc,
		authn:  authn,
		authz:  authz,
		logger: logger.Named("web"),
		router: router,
	}

	router.POST("/login", s.handleLogin)

	// Email links carry their own capability and need no session.
	router.GET("/email-approve/:token", s.handleEmailApprove)
	router.GET("/email-reject/:token", s.handleEmailReject)

	api := router.Group("/", s.basicAuth)
	{
		api.POST("/transactions", s.handleSubmit)
		api.GET("/transactions/:requester", s.handleListByRequester)
		api.GET("/next-transaction-id/:requester", s.handleNextSequence)
		api.GET("/history/:requester", s.handleRequesterHistory)
	}

	admin := router.Group("/admin", s.basicAuth)
	{
		admin.GET("/pending", s.handlePending)
		admin.GET("/history", s.handleHistory)
		admin.GET("/stats", s.handleStats)
		admin.POST("/transactions/:id/approve", s.handleAdminApprove)
		admin.POST("/transactions/:id/reject", s.handleAdminReject)
	}

	return s
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("http server shutting down")
	return srv.Shutdown(shutdownCtx)
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	logger = logger.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
