package chi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/reviewlens/internal/domain/search/canned"
	"github.com/kailas-cloud/reviewlens/internal/domain/search/facet"
	"github.com/kailas-cloud/reviewlens/internal/domain/search/order"
	"github.com/kailas-cloud/reviewlens/internal/domain/search/request"
	"github.com/kailas-cloud/reviewlens/internal/logger"
	healthuc "github.com/kailas-cloud/reviewlens/internal/usecase/health"
	searchuc "github.com/kailas-cloud/reviewlens/internal/usecase/search"
	usageuc "github.com/kailas-cloud/reviewlens/internal/usecase/usage"
)

// naturalLanguageQueryType is the queryType value selecting natural-language search.
const naturalLanguageQueryType = "natural_language_query"

// Server serves the search API.
type Server struct {
	search        *searchuc.Service
	usage         *usageuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	usage *usageuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	return &Server{
		search:        search,
		usage:         usage,
		health:        health,
		logger:        logger,
		errorHandlers: defaultErrorHandlers(),
	}
}

// Register mounts every route on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/api/search", s.Search)
	r.Get("/api/customQuery", s.CustomQuery)
	r.Get("/api/view", s.View)
	r.Get("/api/commonQuery/{type}", s.CommonQuery)
	r.Get("/api/tables", s.Tables)
	r.Get("/usage", s.GetUsage)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Get("/", s.Startup)
	r.Get("/{searchQuery}", s.VanitySearch)
}

// searchParams are the query parameters shared by the search routes.
type searchParams struct {
	Query          string
	Filters        string
	QueryType      string
	Count          *int
	Sort           *string
	ReturnPassages *bool
	Page           *int
}

type queryBind struct {
	name string
	dest any
}

func bindSearchParams(q url.Values, passages bool) (searchParams, error) {
	var p searchParams
	binds := []queryBind{
		{"query", &p.Query},
		{"filters", &p.Filters},
		{"queryType", &p.QueryType},
		{"count", &p.Count},
		{"sort", &p.Sort},
		{"page", &p.Page},
	}
	if passages {
		binds = append(binds, queryBind{"returnPassages", &p.ReturnPassages})
	}
	for _, b := range binds {
		if err := runtime.BindQueryParameter("form", true, false, b.name, q, b.dest); err != nil {
			return searchParams{}, fmt.Errorf("invalid %s parameter: %w", b.name, err)
		}
	}
	return p, nil
}

func (p searchParams) request() (request.Request, error) {
	req, err := request.New(
		p.Query,
		p.QueryType == naturalLanguageQueryType,
		p.Filters,
		deref(p.Count),
		deref(p.Sort),
		deref(p.ReturnPassages),
	)
	if err != nil {
		return request.Request{}, fmt.Errorf("build search request: %w", err)
	}
	return req, nil
}

func (p searchParams) page() int {
	if p.Page == nil {
		return 1
	}
	return *p.Page
}

// Search handles GET /api/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	s.raw(w, r, request.Full)
}

// CustomQuery handles GET /api/customQuery.
func (s *Server) CustomQuery(w http.ResponseWriter, r *http.Request) {
	s.raw(w, r, request.Custom)
}

func (s *Server) raw(w http.ResponseWriter, r *http.Request, v request.Variant) {
	p, err := bindSearchParams(r.URL.Query(), v == request.Full)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	req, err := p.request()
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	body, err := s.search.Raw(r.Context(), v, req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// View handles GET /api/view.
func (s *Server) View(w http.ResponseWriter, r *http.Request) {
	p, err := bindSearchParams(r.URL.Query(), true)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	req, err := p.request()
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	view, err := s.search.View(r.Context(), request.Full, req, p.page())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// CommonQuery handles GET /api/commonQuery/{type}.
func (s *Server) CommonQuery(w http.ResponseWriter, r *http.Request) {
	var qt int
	err := runtime.BindStyledParameterWithOptions("simple", "type", chi.URLParam(r, "type"), &qt,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, fmt.Sprintf("invalid type parameter: %v", err))
		return
	}

	var category string
	var page *int
	q := r.URL.Query()
	if err = runtime.BindQueryParameter("form", true, false, "category", q, &category); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, fmt.Sprintf("invalid category parameter: %v", err))
		return
	}
	if err = runtime.BindQueryParameter("form", true, false, "page", q, &page); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, fmt.Sprintf("invalid page parameter: %v", err))
		return
	}
	if category == "" {
		category = facet.NoCategory
	}

	view, err := s.search.Common(r.Context(), canned.QueryType(qt), category, searchParams{Page: page}.page())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// TablesResponse lists the static option tables of the search UI.
type TablesResponse struct {
	FilterTypes          []facet.Type      `json:"filterTypes"`
	SortTypes            []order.Key       `json:"sortTypes"`
	SentimentFilterTypes []facet.Bucket    `json:"sentimentFilterTypes"`
	CommonQueries        []canned.Info     `json:"commonQueries"`
	Sentinels            map[string]string `json:"sentinels"`
}

// Tables handles GET /api/tables.
func (s *Server) Tables(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, TablesResponse{
		FilterTypes:          facet.FilterTypes(),
		SortTypes:            order.Keys(),
		SentimentFilterTypes: facet.SentimentFilterTypes(),
		CommonQueries:        canned.Types(),
		Sentinels: map[string]string{
			"all":        facet.All,
			"allTerms":   facet.AllTerms,
			"noTerm":     facet.NoTerm,
			"noProduct":  facet.NoProduct,
			"noCategory": facet.NoCategory,
		},
	})
}

// Startup handles GET /.
func (s *Server) Startup(w http.ResponseWriter, r *http.Request) {
	page, ok := s.bindPage(w, r)
	if !ok {
		return
	}
	view, err := s.search.Startup(r.Context(), page)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// VanitySearch handles GET /{searchQuery}.
func (s *Server) VanitySearch(w http.ResponseWriter, r *http.Request) {
	page, ok := s.bindPage(w, r)
	if !ok {
		return
	}
	view, err := s.search.VanitySearch(r.Context(), chi.URLParam(r, "searchQuery"), page)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) bindPage(w http.ResponseWriter, r *http.Request) (int, bool) {
	var page *int
	if err := runtime.BindQueryParameter("form", true, false, "page", r.URL.Query(), &page); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, fmt.Sprintf("invalid page parameter: %v", err))
		return 0, false
	}
	return searchParams{Page: page}.page(), true
}

// GetUsage handles GET /usage.
func (s *Server) GetUsage(w http.ResponseWriter, r *http.Request) {
	report, err := s.usage.Report(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status healthuc.Status                 `json:"status"`
	Checks map[string]healthuc.CheckResult `json:"checks"`
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: report.Status,
		Checks: report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) requestLogger(r *http.Request) *zap.Logger {
	return logger.FromContextOr(r.Context(), s.logger)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
