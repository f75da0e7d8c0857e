package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints (no identity required)
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	s.echo.GET("/version", s.handleVersion)

	// Question routes
	s.echo.POST("/api/questions", s.handleCreateQuestion, s.requireIdentity)
	s.echo.GET("/api/questions/:id", s.handleGetQuestion)
	s.echo.POST("/api/questions/:id/vote", s.handleVoteQuestion, s.requireIdentity)
	s.echo.DELETE("/api/questions/:id", s.handleDeleteQuestion, s.requireIdentity)

	// Answer routes
	s.echo.POST("/api/questions/:id/answers", s.handleCreateAnswer, s.requireIdentity)
	s.echo.POST("/api/answers/:id/vote", s.handleVoteAnswer, s.requireIdentity)
	s.echo.POST("/api/answers/:id/accept", s.handleAcceptAnswer, s.requireIdentity)
	s.echo.DELETE("/api/answers/:id", s.handleDeleteAnswer, s.requireIdentity)

	// Reputation view
	s.echo.GET("/api/users/:id", s.handleGetUser)
}
