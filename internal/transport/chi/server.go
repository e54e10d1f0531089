package chi

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/url"
	"strconv"

	chirouter "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/opendash/searchd/internal/domain"
	"github.com/opendash/searchd/internal/domain/search/query"
	healthuc "github.com/opendash/searchd/internal/usecase/health"
	searchuc "github.com/opendash/searchd/internal/usecase/search"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the search engine over HTTP.
type Server struct {
	search        *searchuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search *searchuc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	s := &Server{
		search: search,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		rateLimitedHandler,
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrUnknownEntityType, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrUnauthorized, http.StatusUnauthorized, CodeUnauthorized),
	}
	return s
}

// Routes registers the API routes on the given router.
func (s *Server) Routes(r chirouter.Router) {
	r.Get("/search", s.handleSearch)
	r.Get("/search/quick", s.handleQuickSearch)
	r.Get("/health", s.handleHealth)
	r.Get("/metrics", s.handleMetrics)
}

// handleSearch handles GET /search?q&type&page&limit&sortBy.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q, err := queryFromParams(r.URL.Query())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	page, err := s.search.Search(r.Context(), q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		Results:    itemsToDTO(page.Items()),
		Total:      page.Total(),
		Page:       page.Page(),
		Limit:      page.Limit(),
		TotalPages: page.TotalPages(),
	})
}

// handleQuickSearch handles GET /search/quick?q.
func (s *Server) handleQuickSearch(w http.ResponseWriter, r *http.Request) {
	items, err := s.search.QuickSearch(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, QuickSearchResponse{Results: itemsToDTO(items)})
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// handleMetrics handles GET /metrics.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// queryFromParams builds a validated query from URL parameters. Absent page and
// limit take defaults; present-but-malformed values are validation errors.
func queryFromParams(params url.Values) (*query.Query, error) {
	text := params.Get("q")

	var entityTypes []string
	for _, t := range params["type"] {
		if t != "" {
			entityTypes = append(entityTypes, t)
		}
	}

	page := query.DefaultPage
	if v := params.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, errInvalidParam("page", v)
		}
		page = n
	}

	limit := query.DefaultLimit
	if v := params.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, errInvalidParam("limit", v)
		}
		limit = n
	}

	q, err := query.New(text, entityTypes, page, limit, query.Sort(params.Get("sortBy")))
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func errInvalidParam(name, value string) error {
	return &paramError{name: name, value: value}
}

type paramError struct {
	name  string
	value string
}

func (e *paramError) Error() string {
	return domain.ErrInvalidQuery.Error() + ": " + e.name + "=" + strconv.Quote(e.value)
}

func (e *paramError) Unwrap() error { return domain.ErrInvalidQuery }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel-anchored message for the client without
// exposing internals. Validation errors keep their detail; everything else is
// reduced to its sentinel.
func safeDomainMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidQuery) || errors.Is(err, domain.ErrUnknownEntityType) {
		return err.Error()
	}
	sentinels := []error{
		domain.ErrRateLimited,
		domain.ErrUnauthorized,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// rateLimitedHandler handles ErrRateLimited with a Retry-After header.
func rateLimitedHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrRateLimited) {
		return false
	}
	var rle *domain.RateLimitedError
	if errors.As(err, &rle) && rle.RetryAfter > 0 {
		secs := int(math.Ceil(rle.RetryAfter.Seconds()))
		w.Header().Set("Retry-After", strconv.Itoa(secs))
	}
	writeError(w, http.StatusTooManyRequests, CodeRateLimited, msg)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
