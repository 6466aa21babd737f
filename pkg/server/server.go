package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/bastiangx/placeserve/internal/logger"
	"github.com/bastiangx/placeserve/pkg/geo"
	"github.com/bastiangx/placeserve/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
)

// Server answers suggestion queries over HTTP.
type Server struct {
	directory Searcher
	server    *http.Server
	logger    *log.Logger
}

// NewServer wires the routes onto a directory. The address may be a bare
// port, ":8080", or host:port.
func NewServer(addr string, directory Searcher) *Server {
	s := &Server{
		directory: directory,
		logger:    logger.Default("http"),
	}

	r := mux.NewRouter()
	r.Use(s.logRequests)
	r.HandleFunc("/suggestions", s.getSuggestions).Methods("GET")
	r.HandleFunc("/healthz", s.health).Methods("GET")

	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = ":" + addr
	}
	s.server = &http.Server{
		Addr:    addr,
		Handler: r,
	}
	return s
}

// Handler returns the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start listens and serves until Shutdown. The listener is created first so
// an unusable address fails fast instead of inside the serve loop.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("server: listening on %s: %w", s.server.Addr, err)
	}
	s.logger.Infof("Listening on %s", listener.Addr())

	if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down")
	return s.server.Shutdown(ctx)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"query", r.URL.RawQuery,
			"took", time.Since(start))
	})
}

// getSuggestions handles GET /suggestions. The q parameter must be present;
// empty is fine and matches everything. Supplying both coordinates switches
// to distance ranking; supplying just one leaves population ranking in
// charge, matching what lenient clients expect.
func (s *Server) getSuggestions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	q, ok := query["q"]
	if !ok {
		s.respondError(w, http.StatusBadRequest, errors.New("missing required parameter q"))
		return
	}
	latParam, hasLat := query["latitude"]
	lonParam, hasLon := query["longitude"]

	places := s.directory.Search(q[0])

	var (
		results []suggest.Suggestion
		err     error
	)
	if hasLat && hasLon {
		lat, latErr := strconv.ParseFloat(latParam[0], 64)
		lon, lonErr := strconv.ParseFloat(lonParam[0], 64)
		if latErr != nil || lonErr != nil {
			s.respondError(w, http.StatusBadRequest, errors.New("latitude and longitude must be decimal degrees"))
			return
		}
		if !geo.ValidCoords(lat, lon) {
			s.respondError(w, http.StatusUnprocessableEntity,
				fmt.Errorf("position %v,%v is off the globe", lat, lon))
			return
		}
		results, err = suggest.ByDistance(places, lat, lon)
	} else {
		results, err = suggest.ByPopulation(places)
	}
	if err != nil {
		s.logger.Error("ranking failed", "q", q[0], "err", err)
		s.respondError(w, http.StatusInternalServerError, errors.New("internal error"))
		return
	}

	if results == nil {
		results = []suggest.Suggestion{}
	}
	s.respond(w, http.StatusOK, suggestionsResponse{Suggestions: results})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, healthResponse{Status: "ok", Places: s.directory.Len()})
}

func (s *Server) respond(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(data); err != nil {
			s.logger.Error("encoding response", "err", err)
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, err error) {
	s.respond(w, status, map[string]string{"error": err.Error()})
}
