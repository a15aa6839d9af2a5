package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/sanonone/hermes/internal/store"
	"github.com/sanonone/hermes/pkg/core/distance"
)

// maxBodyBytes bounds request bodies. A 1536-d vector is ~20 KB of JSON.
const maxBodyBytes = 32 << 20

// registerHTTPHandlers sets up the routes of the REST API.
func (s *Server) registerHTTPHandlers(mux *http.ServeMux) {
	mux.HandleFunc("POST /insert", s.handleInsert)
	mux.HandleFunc("POST /search", s.handleSearch)
	mux.HandleFunc("POST /distance", s.handleDistance)
	mux.HandleFunc("GET /vectors", s.handleListVectors)
	mux.HandleFunc("GET /vectors/{id}", s.handleGetVector)
	mux.HandleFunc("DELETE /vectors/{id}", s.handleDeleteVector)
	mux.HandleFunc("GET /info", s.handleInfo)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeHTTPResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleInsert(w http.ResponseWriter, r *http.Request) {
	var req InsertRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if len(req.Vector) == 0 {
		s.writeHTTPError(w, http.StatusBadRequest, "Vector cannot be empty")
		return
	}

	id, err := s.Store.Insert(req.ID, req.Vector)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	s.writeHTTPResponse(w, http.StatusCreated, InsertResponse{
		ID:      id,
		Status:  "OK",
		Message: "Vector saved to RAM",
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	start := time.Now()
	results, err := s.Store.Search(req.Vector, req.K)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	latency := time.Since(start)

	s.writeHTTPResponse(w, http.StatusOK, SearchResponse{
		Results: results,
		Count:   len(results),
		Latency: latency.String(),
	})
}

func (s *Server) handleDistance(w http.ResponseWriter, r *http.Request) {
	var req DistanceRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	metric, err := distance.ParseMetric(req.Metric)
	if err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, err.Error())
		return
	}
	fn, err := distance.GetFunc(metric)
	if err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, err.Error())
		return
	}
	d, err := fn(req.A, req.B)
	if err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeHTTPResponse(w, http.StatusOK, DistanceResponse{Distance: d, Metric: metric})
}

func (s *Server) handleListVectors(w http.ResponseWriter, r *http.Request) {
	offset, err := queryInt(r, "offset")
	if err != nil || offset < 0 {
		s.writeHTTPError(w, http.StatusBadRequest, "offset must be a non-negative integer")
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil || limit < 0 {
		s.writeHTTPError(w, http.StatusBadRequest, "limit must be a non-negative integer")
		return
	}

	s.writeHTTPResponse(w, http.StatusOK, ListResponse{
		IDs:    s.Store.List(offset, limit),
		Offset: offset,
		Total:  s.Store.Len(),
	})
}

func (s *Server) handleGetVector(w http.ResponseWriter, r *http.Request) {
	rec, err := s.Store.Get(r.PathValue("id"))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeHTTPResponse(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteVector(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.Delete(r.PathValue("id")); err != nil {
		s.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	s.writeHTTPResponse(w, http.StatusOK, InfoResponse{
		Version: Version,
		Store:   s.Store.Info(),
		CPU:     distance.Capabilities(),
	})
}

// --- Helpers for HTTP responses ---

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeHTTPError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		s.writeHTTPError(w, http.StatusBadRequest, "Bad JSON")
		return false
	}
	return true
}

// writeStoreError maps store sentinel errors to HTTP status codes.
func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.writeHTTPError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrEmptyVector), errors.Is(err, store.ErrDimensionMismatch):
		s.writeHTTPError(w, http.StatusBadRequest, err.Error())
	default:
		s.writeHTTPError(w, http.StatusInternalServerError, err.Error())
	}
}

// errNotFinite is reported when a result holds +Inf or NaN, which JSON cannot
// carry. Finite inputs can still overflow float32.
const errNotFinite = "result is not a finite number and cannot be encoded as JSON"

// writeHTTPResponse encodes payload before touching the header so that an
// encoding failure can still be reported with a proper status.
func (s *Server) writeHTTPResponse(w http.ResponseWriter, statusCode int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		var unsupported *json.UnsupportedValueError
		if errors.As(err, &unsupported) {
			statusCode = http.StatusUnprocessableEntity
			data, _ = json.Marshal(map[string]string{"error": errNotFinite})
		} else {
			slog.Error("Failed to encode response", "error", err)
			statusCode = http.StatusInternalServerError
			data, _ = json.Marshal(map[string]string{"error": "failed to encode response"})
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(append(data, '\n'))
}

func (s *Server) writeHTTPError(w http.ResponseWriter, statusCode int, message string) {
	s.writeHTTPResponse(w, statusCode, map[string]string{"error": message})
}

func queryInt(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}
