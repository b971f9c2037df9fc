/*
Package server implements the application's network transport layer.
It builds the HTTP server and its router from already constructed stores,
generators and the health stream.
*/
package server

import (
	"net/http"

	"FitCoach/internal/admin"
	"FitCoach/internal/config"
	"FitCoach/internal/database"
	"FitCoach/internal/planner"
)

// Server holds the dependencies the routes are built from.
type Server struct {
	cfg *config.Config

	// db provides the profile, plan and image stores.
	db database.Service

	// gen runs every AI generation.
	gen planner.Generator

	// healthStream serves the live host stats websocket.
	healthStream *admin.HealthStream
}

func New(cfg *config.Config, db database.Service, gen planner.Generator, healthStream *admin.HealthStream) *Server {
	return &Server{cfg: cfg, db: db, gen: gen, healthStream: healthStream}
}

// NewServer returns a configured *http.Server using the configured address
// and network timeouts.
func NewServer(cfg *config.Config, db database.Service, gen planner.Generator, healthStream *admin.HealthStream) *http.Server {
	s := New(cfg, db, gen, healthStream)

	return &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}
}
