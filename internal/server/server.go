// Package server hosts the HTTP surface of the token service: the token
// issuance endpoint plus the welcome and health routes.
package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ivylabs/mediatoken_backend/internal/logger"
	"github.com/ivylabs/mediatoken_backend/internal/token"
)

// welcomeMessage is returned by the root route.
const welcomeMessage = "Welcome to Media Server Token Server. Use /token endpoint to generate a token."

type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	issuer     *token.Issuer
	log        *logger.Logger
}

// NewServer wires the middleware chain and routes around the given issuer.
func NewServer(issuer *token.Issuer, log *logger.Logger) *Server {
	router := gin.New()

	router.Use(CORSMiddleware())
	router.Use(RequestIDMiddleware(log))
	router.Use(LoggingMiddleware())
	router.Use(RecoveryMiddleware())

	server := &Server{
		router: router,
		issuer: issuer,
		log:    log,
	}

	// Setup routes
	router.GET("/", server.rootHandler)
	router.GET("/health", server.healthHandler)
	router.POST("/token", server.tokenHandler)

	return server
}

// rootHandler returns the static welcome payload.
func (s *Server) rootHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": welcomeMessage})
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Run serves HTTP on addr until the listener fails or Shutdown is called.
func (s *Server) Run(addr string) error {
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	s.log.Info().Str("addr", addr).Msg("starting HTTP server")

	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
