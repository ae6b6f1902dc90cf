package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/samber/lo"

	"github.com/voteagora/agora-tally/internal/domain"
	"github.com/voteagora/agora-tally/internal/domain/config"
	"github.com/voteagora/agora-tally/internal/domain/models"
	"github.com/voteagora/agora-tally/internal/usecase"
)

// ProposalResolver is the single-proposal use case served over HTTP
type ProposalResolver interface {
	Run(ctx context.Context, params usecase.ResolveProposalParams) (*usecase.ResolveProposalResult, error)
}

// ProposalLister is the list use case served over HTTP
type ProposalLister interface {
	Run(ctx context.Context, params usecase.ListProposalsParams) (*usecase.ListProposalsResult, error)
}

// Server exposes proposal results as JSON
type Server struct {
	config  *config.RuntimeConfig
	resolve ProposalResolver
	list    ProposalLister
	metrics http.Handler
	logger  *slog.Logger
}

// NewServer creates the HTTP server. metrics may be nil.
func NewServer(cfg *config.RuntimeConfig, resolve ProposalResolver, list ProposalLister, metrics http.Handler, logger *slog.Logger) *Server {
	return &Server{
		config:  cfg,
		resolve: resolve,
		list:    list,
		metrics: metrics,
		logger:  logger,
	}
}

// Router returns the route table
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics).Methods(http.MethodGet)
	}

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/{tenant}/proposals", s.handleListProposals).Methods(http.MethodGet)
	v1.HandleFunc("/{tenant}/proposals/{id}", s.handleGetProposal).Methods(http.MethodGet)

	return r
}

// ListenAndServe serves until ctx is cancelled, then drains in-flight
// requests for up to five seconds. An empty addr uses the configured
// listen address.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = s.config.ListenAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
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
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	<-errCh
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGetProposal(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	noCache, _ := strconv.ParseBool(r.URL.Query().Get("nocache"))

	result, err := s.resolve.Run(r.Context(), usecase.ResolveProposalParams{
		Tenant:     vars["tenant"],
		ProposalID: vars["id"],
		NoCache:    noCache,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if result.Cached {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	writeJSON(w, http.StatusOK, result.View)
}

type listResponse struct {
	Tenant   string                        `json:"tenant"`
	Results  []*models.ResultView          `json:"results"`
	Failures []failureResponse             `json:"failures,omitempty"`
	Total    int                           `json:"total"`
	ByStatus map[models.ProposalStatus]int `json:"byStatus"`
}

type failureResponse struct {
	ProposalID string `json:"proposalId"`
	Error      string `json:"error"`
}

func (s *Server) handleListProposals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status, err := models.ParseProposalStatus(q.Get("status"))
	if err != nil {
		s.writeError(w, r, domain.NewInputError("status", "%v", err))
		return
	}
	typ, err := models.ParseProposalType(q.Get("type"))
	if err != nil {
		s.writeError(w, r, domain.NewInputError("type", "%v", err))
		return
	}
	limit := 0
	if raw := q.Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			s.writeError(w, r, domain.NewInputError("limit", "must be a non-negative integer"))
			return
		}
	}

	result, err := s.list.Run(r.Context(), usecase.ListProposalsParams{
		Tenant: mux.Vars(r)["tenant"],
		Status: status,
		Type:   typ,
		Limit:  limit,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := listResponse{
		Tenant:   result.Tenant.Namespace,
		Results:  result.Results,
		Total:    result.Summary.Total,
		ByStatus: result.Summary.ByStatus,
	}
	if resp.Results == nil {
		resp.Results = []*models.ResultView{}
	}
	if len(result.Failures) > 0 {
		resp.Failures = lo.Map(result.Failures, func(f usecase.ProposalFailure, _ int) failureResponse {
			return failureResponse{ProposalID: f.ProposalID, Error: f.Err.Error()}
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// StatusCode maps a use case error onto an HTTP status
func StatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUnknownTenant):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrUpstreamRead):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := StatusCode(err)
	if code >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "status", code, "error", err)
	}
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
