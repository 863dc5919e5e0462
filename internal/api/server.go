package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/apkdock/apkdock/internal/domain"
	"github.com/apkdock/apkdock/internal/service"
	"github.com/apkdock/apkdock/internal/ui"
)

// Server exposes the service state over a local JSON API. It is a thin
// translation layer: every endpoint maps onto one service call.
type Server struct {
	svc *service.Service
	out *ui.Output
}

// NewServer creates an API server over the given service
func NewServer(svc *service.Service, out *ui.Output) *Server {
	return &Server{svc: svc, out: out}
}

// Router builds the route table
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/repos", s.handleListRepos).Methods("GET")
	router.HandleFunc("/repos", s.handleAddRepo).Methods("POST")
	router.HandleFunc("/repos", s.handleRemoveRepo).Methods("DELETE")
	router.HandleFunc("/repos/recent", s.handleRecent).Methods("GET")
	router.HandleFunc("/repos/refresh", s.handleRefresh).Methods("POST")
	router.HandleFunc("/repos/install", s.handleInstall).Methods("POST")
	router.HandleFunc("/download/cancel", s.handleCancelDownload).Methods("POST")
	router.HandleFunc("/progress", s.handleProgress).Methods("GET")
	router.HandleFunc("/state", s.handleState).Methods("GET")

	return router
}

// Serve runs the API server at addr until ctx is cancelled, then shuts down
// gracefully
func (s *Server) Serve(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.out.Verbose("api server listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return <-errCh
}

type urlRequest struct {
	URL string `json:"url"`
}

func (s *Server) handleListRepos(w http.ResponseWriter, r *http.Request) {
	repos, err := s.svc.Repos()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, repos)
}

func (s *Server) handleAddRepo(w http.ResponseWriter, r *http.Request) {
	var req urlRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.URL == "" {
		respondError(w, http.StatusBadRequest, "url is required")
		return
	}

	repo, err := s.svc.AddRepo(r.Context(), req.URL)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, repo)
}

func (s *Server) handleRemoveRepo(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		respondError(w, http.StatusBadRequest, "url query parameter is required")
		return
	}

	if err := s.svc.RemoveRepo(r.Context(), url); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.svc.RecentlyViewed())
}

// handleRefresh refreshes one repo when a url is supplied, else the whole list
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req urlRequest
	if r.ContentLength > 0 {
		if !decodeBody(w, r, &req) {
			return
		}
	}

	if req.URL != "" {
		repo, err := s.svc.RefreshRepo(r.Context(), req.URL)
		if err != nil {
			respondError(w, statusFor(err), err.Error())
			return
		}
		respondJSON(w, http.StatusOK, repo)
		return
	}

	if err := s.svc.RefreshAll(r.Context()); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	repos, err := s.svc.Repos()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, repos)
}

// handleInstall starts a download-and-install job and returns immediately;
// progress is observable via /progress
func (s *Server) handleInstall(w http.ResponseWriter, r *http.Request) {
	var req urlRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.URL == "" {
		respondError(w, http.StatusBadRequest, "url is required")
		return
	}

	// The job outlives this request; drain its channel in the background
	ch, err := s.svc.DownloadAndInstall(context.WithoutCancel(r.Context()), req.URL)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	go func() {
		for range ch {
		}
	}()

	respondJSON(w, http.StatusAccepted, map[string]string{"status": "started", "url": req.URL})
}

func (s *Server) handleCancelDownload(w http.ResponseWriter, r *http.Request) {
	var req urlRequest
	if !decodeBody(w, r, &req) {
		return
	}

	cancelled := s.svc.CancelDownload(req.URL)
	respondJSON(w, http.StatusOK, map[string]bool{"cancelled": cancelled})
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	snap, err := s.svc.State()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, snap.Progress)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	snap, err := s.svc.State()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

// statusFor maps domain sentinels onto HTTP statuses
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrRepoNotTracked):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNoRelease), errors.Is(err, domain.ErrNoAPKAsset):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidArgs):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// decodeBody parses a JSON request body, writing the error response itself
// on failure
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
