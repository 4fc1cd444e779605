// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/rs/cors"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

var _ Server = (*server)(nil)

type PathAdder interface {
	// AddRoute registers a route to a handler.
	AddRoute(handler http.Handler, base, endpoint string) error
}

// Server maintains the HTTP router
type Server interface {
	PathAdder
	// Dispatch starts the API server and blocks until it is shut down
	Dispatch() error
	// Running reports whether Dispatch is serving
	Running() bool
	// Address the listener is bound to
	Address() string
	// Shutdown this server
	Shutdown() error
}

type HTTPConfig struct {
	ReadTimeout       time.Duration `json:"readTimeout"       yaml:"readTimeout"`
	ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
	WriteTimeout      time.Duration `json:"writeTimeout"      yaml:"writeTimeout"`
	IdleTimeout       time.Duration `json:"idleTimeout"       yaml:"idleTimeout"`
}

type server struct {
	baseURL string

	// log this server writes to
	log logging.Logger

	shutdownTimeout time.Duration

	// Maps endpoints to handlers
	router *router

	srv *http.Server

	// Listener used to serve traffic
	listener net.Listener

	running atomic.Bool
}

// New returns an instance of a Server.
func New(
	baseURL string,
	log logging.Logger,
	listener net.Listener,
	httpConfig HTTPConfig,
	allowedOrigins []string,
	allowedHosts []string,
	shutdownTimeout time.Duration,
) Server {
	router := newRouter()
	allowedHostsHandler := filterInvalidHosts(router, allowedHosts)
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
	}).Handler(allowedHostsHandler)
	handler := gziphandler.GzipHandler(corsHandler)

	log.Info("API created",
		zap.Strings("allowedOrigins", allowedOrigins),
		zap.Stringer("address", listener.Addr()),
	)

	return &server{
		baseURL:         baseURL,
		log:             log,
		shutdownTimeout: shutdownTimeout,
		router:          router,
		srv: &http.Server{
			Handler:           handler,
			ReadTimeout:       httpConfig.ReadTimeout,
			ReadHeaderTimeout: httpConfig.ReadHeaderTimeout,
			WriteTimeout:      httpConfig.WriteTimeout,
			IdleTimeout:       httpConfig.IdleTimeout,
		},
		listener: listener,
	}
}

func (s *server) Dispatch() error {
	s.running.Store(true)
	defer s.running.Store(false)

	err := s.srv.Serve(s.listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *server) Running() bool {
	return s.running.Load()
}

func (s *server) Address() string {
	return s.listener.Addr().String()
}

func (s *server) AddRoute(handler http.Handler, base, endpoint string) error {
	url := fmt.Sprintf("%s/%s", s.baseURL, base)
	s.log.Info("adding route",
		zap.String("url", url),
		zap.String("endpoint", endpoint),
	)
	return s.router.AddRouter(url, endpoint, handler)
}

func (s *server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	err := s.srv.Shutdown(ctx)
	cancel()

	// If shutdown times out, make sure the server is still shutdown.
	_ = s.srv.Close()
	return err
}
