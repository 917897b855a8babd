// Package handler exposes the query façade over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"rdhub/internal/aggregate"
	"rdhub/internal/catalog"
	"rdhub/internal/platform/middleware"
	"rdhub/internal/query"
	"rdhub/internal/registry"
	"rdhub/internal/trend"
	"rdhub/pkg/domain"
	dErrors "rdhub/pkg/domain-errors"
	"rdhub/pkg/platform/httputil"
	"rdhub/pkg/requestcontext"
)

// Reloader replaces the active dataset; implemented in main where the data
// sources are wired.
type Reloader interface {
	Reload(ctx context.Context, req ReloadRequest) (*query.Session, error)
}

// Handler handles the query and administration endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *query.Service
	holder    *query.Holder
	registry  *registry.Registry
	catalog   *catalog.Catalog
	reloader  Reloader
	validator middleware.TokenValidator
}

// New creates a new query Handler.
func New(
	service *query.Service,
	holder *query.Holder,
	reg *registry.Registry,
	cat *catalog.Catalog,
	reloader Reloader,
	validator middleware.TokenValidator,
	logger *slog.Logger) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		holder:    holder,
		registry:  reg,
		catalog:   cat,
		reloader:  reloader,
		validator: validator,
	}
}

// Register registers the routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	api := chi.NewRouter()
	api.Use(middleware.Recovery(h.logger))
	api.Use(middleware.RequestID)
	api.Use(middleware.Logger(h.logger))

	api.Get("/v1/statistics", h.handleStatistics)
	api.Get("/v1/countries", h.handleCountries)
	api.Get("/v1/indicators", h.handleIndicators)
	api.Get("/v1/overview", h.handleOverview)
	api.Get("/v1/rejections", h.handleRejections)

	admin := chi.NewRouter()
	admin.Use(middleware.RequireAdmin(h.validator, h.logger))
	admin.Post("/reload", h.handleReload)
	api.Mount("/v1/admin", admin)

	r.Mount("/", api)
	r.Get("/healthz", h.handleHealth)
}

func (h *Handler) handleStatistics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, err := parseStatisticsParams(r)
	if err != nil {
		h.logger.WarnContext(ctx, "invalid statistics request",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	session, err := h.holder.Current()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	stats, err := h.service.Statistics(ctx, session, req)
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "statistics query failed",
				"request_id", requestID,
				"error", err.Error(),
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, stats)
}

// parseStatisticsParams maps query string parameters onto a query request.
// Identity resolution (country and indicator labels) stays in the service.
func parseStatisticsParams(r *http.Request) (query.Request, error) {
	q := r.URL.Query()

	req := query.Request{
		Family:    domain.Family(q.Get("family")),
		Indicator: q.Get("indicator"),
		Country:   q.Get("country"),
	}

	if raw := q.Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return req, dErrors.Newf(dErrors.CodeBadRequest, "invalid year: %q", raw)
		}
		req.Year = &year
	}
	if raw := q.Get("target_year"); raw != "" {
		targetYear, err := strconv.Atoi(raw)
		if err != nil {
			return req, dErrors.Newf(dErrors.CodeBadRequest, "invalid target_year: %q", raw)
		}
		req.TargetYear = targetYear
	}
	if raw := q.Get("top"); raw != "" {
		top, err := strconv.Atoi(raw)
		if err != nil {
			return req, dErrors.Newf(dErrors.CodeBadRequest, "invalid top: %q", raw)
		}
		req.Top = top
	}
	if raw := q.Get("direction"); raw != "" {
		direction, err := aggregate.ParseDirection(raw)
		if err != nil {
			return req, err
		}
		req.Direction = direction
	}
	if raw := q.Get("aggregation"); raw != "" {
		method, err := aggregate.ParseMethod(raw)
		if err != nil {
			return req, err
		}
		req.Aggregation = &method
	}
	for _, raw := range splitList(q.Get("methods")) {
		method, err := trend.ParseMethod(raw)
		if err != nil {
			return req, err
		}
		req.Methods = append(req.Methods, method)
	}
	for _, include := range splitList(q.Get("include")) {
		switch include {
		case "projection":
			req.IncludeProjection = true
		case "ranking":
			req.IncludeRanking = true
		case "equity":
			req.IncludeEquity = true
		default:
			return req, dErrors.Newf(dErrors.CodeBadRequest, "unknown include: %q", include)
		}
	}

	return req, nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

type countryResponse struct {
	ID   domain.CountryID `json:"id"`
	Name string           `json:"name"`
	ISO3 string           `json:"iso3"`
}

func (h *Handler) handleCountries(w http.ResponseWriter, r *http.Request) {
	members := h.registry.Members()
	out := make([]countryResponse, len(members))
	for i, c := range members {
		out[i] = countryResponse{ID: c.ID, Name: c.Name, ISO3: c.ISO3}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"countries": out})
}

type indicatorResponse struct {
	Code       domain.IndicatorCode `json:"code"`
	Label      string               `json:"label"`
	Unit       string               `json:"unit"`
	Polarity   string               `json:"polarity"`
	Target2030 *float64             `json:"target_2030,omitempty"`
}

func (h *Handler) handleIndicators(w http.ResponseWriter, r *http.Request) {
	family, err := domain.ParseFamily(r.URL.Query().Get("family"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	defs := h.catalog.Definitions(family)
	out := make([]indicatorResponse, len(defs))
	for i, def := range defs {
		out[i] = indicatorResponse{
			Code:       def.Code,
			Label:      def.Label,
			Unit:       def.Unit,
			Polarity:   def.Polarity.String(),
			Target2030: def.Target2030,
		}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"family": family, "indicators": out})
}

func (h *Handler) handleOverview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	session, err := h.holder.Current()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	overview, err := h.service.Overview(ctx, session)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, overview)
}

func (h *Handler) handleRejections(w http.ResponseWriter, r *http.Request) {
	session, err := h.holder.Current()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"session_id": session.ID().String(),
		"rejections": session.Rejections(),
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
