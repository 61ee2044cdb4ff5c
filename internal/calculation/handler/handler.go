package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"abacus/internal/calculation/metrics"
	"abacus/internal/calculation/service"
	"abacus/internal/calculator"
	dErrors "abacus/pkg/domain-errors"
	"abacus/pkg/platform/httputil"
	"abacus/pkg/requestcontext"
)

const defaultPopularLimit = 10

// Service defines the calculation operations exposed over HTTP.
type Service interface {
	List(category string) []calculator.Descriptor
	Categories() []string
	Describe(id string) (calculator.Descriptor, error)
	Evaluate(ctx context.Context, id string, inputs calculator.Inputs) (*calculator.Result, error)
	Validate(ctx context.Context, id string, inputs calculator.Inputs) (*service.ValidationReport, error)
	EvaluateBatch(ctx context.Context, items []service.BatchItem) ([]service.BatchResult, error)
	Popular(ctx context.Context, n int) ([]service.Popularity, error)
}

// Handler wires calculator endpoints to the calculation service.
type Handler struct {
	service Service
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New constructs a calculation handler with its dependencies.
func New(service Service, logger *slog.Logger, metrics *metrics.Metrics) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		service: service,
		logger:  logger,
		metrics: metrics,
	}
}

// Register mounts calculator endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/calculators", h.HandleList)
	r.Get("/calculators/popular", h.HandlePopular)
	r.Get("/calculators/{id}", h.HandleDescribe)
	r.Post("/calculators/{id}/calculate", h.HandleCalculate)
	r.Post("/calculators/{id}/validate", h.HandleValidate)
	r.Post("/calculations/batch", h.HandleBatch)
	r.Get("/categories", h.HandleCategories)
}

// HandleList handles GET /calculators.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	category := strings.TrimSpace(r.URL.Query().Get("category"))
	descs := h.service.List(category)
	h.metrics.IncrementRequest("list", "ok")
	httputil.WriteJSON(w, http.StatusOK, FromDescriptors(descs))
}

// HandleCategories handles GET /categories.
func (h *Handler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	h.metrics.IncrementRequest("categories", "ok")
	httputil.WriteJSON(w, http.StatusOK, &CategoriesResponse{Categories: nonNil(h.service.Categories())})
}

// HandleDescribe handles GET /calculators/{id}.
func (h *Handler) HandleDescribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	desc, err := h.service.Describe(id)
	if err != nil {
		h.fail(ctx, w, "describe", id, err)
		return
	}
	h.metrics.IncrementRequest("describe", "ok")
	httputil.WriteJSON(w, http.StatusOK, FromDescriptor(desc))
}

// HandleCalculate handles POST /calculators/{id}/calculate.
func (h *Handler) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()
	id := chi.URLParam(r, "id")

	req, ok := httputil.DecodeAndPrepare[CalculateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		h.metrics.IncrementRequest("calculate", string(dErrors.CodeBadRequest))
		return
	}

	result, err := h.service.Evaluate(ctx, id, req.Inputs)
	if err != nil {
		h.fail(ctx, w, "calculate", id, err)
		return
	}

	h.logger.InfoContext(ctx, "calculation performed",
		"request_id", requestID,
		"calculator_id", id,
		"risk_level", string(result.Analysis.RiskLevel),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	h.metrics.IncrementRequest("calculate", "ok")
	httputil.WriteJSON(w, http.StatusOK, FromResult(result))
}

// HandleValidate handles POST /calculators/{id}/validate. Invalid input is a
// normal outcome here and is reported with status 200.
func (h *Handler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	id := chi.URLParam(r, "id")

	req, ok := httputil.DecodeAndPrepare[CalculateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		h.metrics.IncrementRequest("validate", string(dErrors.CodeBadRequest))
		return
	}

	report, err := h.service.Validate(ctx, id, req.Inputs)
	if err != nil {
		h.fail(ctx, w, "validate", id, err)
		return
	}
	h.metrics.IncrementRequest("validate", "ok")
	httputil.WriteJSON(w, http.StatusOK, FromValidationReport(report))
}

// HandleBatch handles POST /calculations/batch. Per-item failures are carried
// in the response body; the request itself only fails when the batch is
// malformed.
func (h *Handler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[BatchRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		h.metrics.IncrementRequest("batch", string(dErrors.CodeBadRequest))
		return
	}

	results, err := h.service.EvaluateBatch(ctx, req.ToItems())
	if err != nil {
		h.fail(ctx, w, "batch", "", err)
		return
	}

	resp := FromBatchResults(results)
	h.logger.InfoContext(ctx, "batch evaluated",
		"request_id", requestID,
		"items", len(results),
		"failed", resp.Failed,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	h.metrics.IncrementRequest("batch", "ok")
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandlePopular handles GET /calculators/popular.
func (h *Handler) HandlePopular(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := defaultPopularLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.fail(ctx, w, "popular", "", dErrors.New(dErrors.CodeBadRequest, "limit must be an integer"))
			return
		}
		limit = n
	}

	popular, err := h.service.Popular(ctx, limit)
	if err != nil {
		h.fail(ctx, w, "popular", "", err)
		return
	}
	h.metrics.IncrementRequest("popular", "ok")
	httputil.WriteJSON(w, http.StatusOK, FromPopularity(popular))
}

// fail logs and writes err. Client errors are logged at warn level; anything
// that maps to a 5xx is logged at error level.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, route, id string, err error) {
	status, resp := httputil.ToErrorResponse(err)
	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, "calculator request failed",
		"request_id", requestcontext.RequestID(ctx),
		"route", route,
		"calculator_id", id,
		"error", err,
	)
	h.metrics.IncrementRequest(route, resp.Error)
	httputil.WriteJSON(w, status, resp)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
