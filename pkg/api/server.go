// LBGDB Metadata
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of LBGDB Metadata.
//
// LBGDB Metadata is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// LBGDB Metadata is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with LBGDB Metadata.  If not, see <http://www.gnu.org/licenses/>.

// Package api serves the metadata engine over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/ZaparooProject/lbgdb-metadata/pkg/api/methods"
	apimiddleware "github.com/ZaparooProject/lbgdb-metadata/pkg/api/middleware"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/api/models"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/config"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/database"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/database/platformmap"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/importer"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/metadata"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jonboulle/clockwork"
	"github.com/olahol/melody"
	"github.com/rs/zerolog/log"
)

const (
	RequestTimeout  = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

var defaultOrigins = []string{"http://*", "https://*"}

type Options struct {
	Config    *config.Instance
	Resolver  *metadata.Resolver
	Importer  *importer.Importer
	Platforms *platformmap.Mapper
	Fetcher   metadata.AssetFetcher
	Open      database.Opener
	Clock     clockwork.Clock
	// Notifications receives the importer's progress changes, which are
	// broadcast to websocket clients of models.PathUpdateEvents.
	Notifications <-chan importer.Progress
}

// Server routes API requests and owns the background work they start.
type Server struct {
	ctx       context.Context
	cancel    context.CancelFunc
	env       *methods.Env
	limiter   *apimiddleware.IPRateLimiter
	router    chi.Router
	ws        *melody.Melody
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewServer builds the router. Background work started by requests is
// cancelled when ctx is done or Close is called.
func NewServer(ctx context.Context, opts Options) (*Server, error) {
	if opts.Config == nil || opts.Resolver == nil || opts.Importer == nil || opts.Open == nil {
		return nil, errors.New("api server requires config, resolver, importer and store")
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}

	s := &Server{limiter: apimiddleware.NewIPRateLimiter(opts.Clock)}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.env = &methods.Env{
		Config:    opts.Config,
		Resolver:  opts.Resolver,
		Importer:  opts.Importer,
		Platforms: opts.Platforms,
		Fetcher:   opts.Fetcher,
		Open:      opts.Open,
		Clock:     opts.Clock,
		Go:        s.goBackground,
	}
	s.ws = melody.New()
	s.ws.Upgrader.CheckOrigin = func(*http.Request) bool { return true }
	s.ws.HandleConnect(s.sendProgress)
	if opts.Notifications != nil {
		s.goBackground(func(ctx context.Context) {
			broadcastProgress(ctx, s.ws, opts.Notifications)
		})
	}

	s.router = s.routes(opts.Config)
	s.limiter.StartCleanup(s.ctx)
	return s, nil
}

func progressMessage(p importer.Progress) ([]byte, error) {
	data, err := json.Marshal(models.ProgressNotification{
		Method: models.MethodUpdateProgress,
		Params: p,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal progress notification: %w", err)
	}
	return data, nil
}

// sendProgress greets a new websocket client with the current progress.
func (s *Server) sendProgress(session *melody.Session) {
	data, err := progressMessage(s.env.Importer.Progress())
	if err != nil {
		log.Error().Err(err).Msg("failed to build progress notification")
		return
	}
	if err := session.Write(data); err != nil {
		log.Debug().Err(err).Msg("failed to send progress to new client")
	}
}

func broadcastProgress(ctx context.Context, ws *melody.Melody, notifications <-chan importer.Progress) {
	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("stopping progress broadcast")
			return
		case p := <-notifications:
			data, err := progressMessage(p)
			if err != nil {
				log.Error().Err(err).Msg("failed to build progress notification")
				continue
			}
			if err := ws.Broadcast(data); err != nil {
				log.Debug().Err(err).Msg("failed to broadcast progress")
			}
		}
	}
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if err := s.ws.HandleRequest(w, r); err != nil {
		log.Error().Err(err).Msg("handling websocket request")
	}
}

func (s *Server) routes(cfg *config.Instance) chi.Router {
	origins := cfg.AllowedOrigins()
	if len(origins) == 0 {
		origins = defaultOrigins
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(apimiddleware.HTTPIPFilterMiddleware(apimiddleware.NewIPFilter(cfg.AllowedIPs())))
	r.Use(apimiddleware.HTTPRateLimitMiddleware(s.limiter))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{},
	}))

	// Websocket connections outlive the request timeout.
	r.Get(models.PathUpdateEvents, s.handleEvents)

	r.Group(func(r chi.Router) {
		r.Use(middleware.NoCache)
		r.Use(middleware.Timeout(RequestTimeout))

		r.Get(models.PathMetadata, methods.HandleMetadata(s.env))
		r.Get(models.PathStatus, methods.HandleStatus(s.env))
		r.Post(models.PathUpdate, methods.HandleUpdate(s.env))
		r.Get(models.PathUpdateProgress, methods.HandleUpdateProgress(s.env))
	})
	return r
}

func (s *Server) goBackground(fn func(ctx context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn(s.ctx)
	}()
}

// Handler returns the API router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close disconnects websocket clients, cancels background work and waits for
// it to stop.
func (s *Server) Close() {
	s.cancel()
	s.closeOnce.Do(func() {
		if err := s.ws.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close websocket sessions")
		}
	})
	s.wg.Wait()
}

// ListenAndServe serves on addr until ctx is done, then shuts down and
// waits for background work.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", ln.Addr().String()).Msg("starting http api")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		s.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http api stopped: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.Close()
	<-errCh
	if err != nil {
		return fmt.Errorf("failed to shut down http api: %w", err)
	}
	log.Info().Msg("http api stopped")
	return nil
}
