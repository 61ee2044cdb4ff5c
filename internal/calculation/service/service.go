// Package service runs calculator pipelines on behalf of the transports. It
// resolves calculators from the registry, maps pipeline failures onto domain
// error codes and records usage, audit events, metrics and spans around each
// run. Recording is best effort: a failing usage store or audit sink is logged
// and never fails a calculation.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"abacus/internal/audit"
	"abacus/internal/calculation/metrics"
	"abacus/internal/calculator"
	"abacus/internal/registry"
	"abacus/internal/usage"
	dErrors "abacus/pkg/domain-errors"
	"abacus/pkg/platform/sentinel"
	"abacus/pkg/requestcontext"
)

// Catalog is the read side of the calculator registry.
type Catalog interface {
	Get(id string) (calculator.Calculator, error)
	List() []calculator.Calculator
	ListCategory(category string) []calculator.Calculator
	Categories() []string
}

type UsageStore interface {
	Increment(ctx context.Context, calculatorID string) error
	IncrementMany(ctx context.Context, calculatorIDs []string) error
	Top(ctx context.Context, n int) ([]usage.Count, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

const (
	defaultBatchConcurrency = 8
	defaultMaxBatchSize     = 50
	tracerName              = "abacus/internal/calculation/service"
)

// Service evaluates calculators.
type Service struct {
	catalog          Catalog
	usage            UsageStore
	auditPublisher   AuditPublisher
	logger           *slog.Logger
	metrics          *metrics.Metrics
	tracer           trace.Tracer
	batchConcurrency int
	maxBatchSize     int
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithUsageStore(store UsageStore) Option {
	return func(s *Service) {
		s.usage = store
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

// WithBatchLimits bounds batch fan-out and batch size. Non-positive values
// keep the defaults.
func WithBatchLimits(concurrency, maxSize int) Option {
	return func(s *Service) {
		if concurrency > 0 {
			s.batchConcurrency = concurrency
		}
		if maxSize > 0 {
			s.maxBatchSize = maxSize
		}
	}
}

// New constructs a Service over catalog.
func New(catalog Catalog, opts ...Option) (*Service, error) {
	if catalog == nil {
		return nil, errors.New("calculator catalog is required")
	}
	s := &Service{
		catalog:          catalog,
		logger:           slog.Default(),
		batchConcurrency: defaultBatchConcurrency,
		maxBatchSize:     defaultMaxBatchSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}
	return s, nil
}

// List returns calculator descriptors in registration order, optionally
// restricted to one category.
func (s *Service) List(category string) []calculator.Descriptor {
	var calcs []calculator.Calculator
	if category == "" {
		calcs = s.catalog.List()
	} else {
		calcs = s.catalog.ListCategory(category)
	}
	out := make([]calculator.Descriptor, len(calcs))
	for i, c := range calcs {
		out[i] = c.Descriptor()
	}
	return out
}

// Categories returns every category in first-registered order.
func (s *Service) Categories() []string {
	return s.catalog.Categories()
}

// Describe returns the descriptor registered under id.
func (s *Service) Describe(id string) (calculator.Descriptor, error) {
	c, err := s.catalog.Get(id)
	if err != nil {
		return calculator.Descriptor{}, toDomainError(err)
	}
	return c.Descriptor(), nil
}

// Evaluate runs the full pipeline for one calculator.
func (s *Service) Evaluate(ctx context.Context, id string, inputs calculator.Inputs) (*calculator.Result, error) {
	res, err := s.run(ctx, id, inputs)
	if err != nil {
		return nil, err
	}
	if s.usage != nil {
		if err := s.usage.Increment(ctx, id); err != nil {
			s.logger.WarnContext(ctx, "failed to record calculator usage",
				"request_id", requestcontext.RequestID(ctx),
				"calculator_id", id,
				"error", err,
			)
		}
	}
	return res, nil
}

// ValidationReport is the outcome of the validation and advisory stages.
type ValidationReport struct {
	CalculatorID string
	Valid        bool
	Errors       []calculator.FieldError
	Warnings     []calculator.Warning
}

// Validate runs validation without computing. Warnings are only produced for
// valid input.
func (s *Service) Validate(ctx context.Context, id string, inputs calculator.Inputs) (*ValidationReport, error) {
	_, span := s.tracer.Start(ctx, "calculation.validate",
		trace.WithAttributes(attribute.String("calculator.id", id)))
	defer span.End()

	c, err := s.catalog.Get(id)
	if err != nil {
		span.SetStatus(codes.Error, "unknown calculator")
		return nil, toDomainError(err)
	}

	outcome := c.Validate(inputs)
	report := &ValidationReport{
		CalculatorID: id,
		Valid:        outcome.Valid,
		Errors:       outcome.Errors,
	}
	if outcome.Valid {
		report.Warnings = c.Advise(inputs)
	}
	span.SetAttributes(attribute.Bool("calculation.valid", outcome.Valid))
	return report, nil
}

// run is the instrumented pipeline shared by Evaluate and EvaluateBatch.
func (s *Service) run(ctx context.Context, id string, inputs calculator.Inputs) (*calculator.Result, error) {
	ctx, span := s.tracer.Start(ctx, "calculation.evaluate",
		trace.WithAttributes(attribute.String("calculator.id", id)))
	defer span.End()

	requestID := requestcontext.RequestID(ctx)

	c, err := s.catalog.Get(id)
	if err != nil {
		span.SetStatus(codes.Error, "unknown calculator")
		return nil, toDomainError(err)
	}

	start := time.Now()
	res, err := c.Calculate(inputs)
	elapsed := time.Since(start)
	durationMs := float64(elapsed.Microseconds()) / 1000.0

	if err != nil {
		var verr *calculator.ValidationError
		var ierr *calculator.InvariantViolation
		switch {
		case errors.As(err, &verr):
			s.metrics.ObserveCalculation(id, metrics.OutcomeInvalid, elapsed)
			span.SetStatus(codes.Error, "invalid input")
			s.logger.InfoContext(ctx, "calculation rejected",
				"request_id", requestID,
				"calculator_id", id,
				"invalid_fields", len(verr.Errors),
			)
			s.emit(ctx, audit.Event{
				Type:         audit.EventCalculationRejected,
				CalculatorID: id,
				RequestID:    requestID,
				Fields:       fieldNames(verr.Errors),
				DurationMs:   durationMs,
			})
		case errors.As(err, &ierr):
			s.metrics.ObserveCalculation(id, metrics.OutcomeInvariant, elapsed)
			span.RecordError(err)
			span.SetStatus(codes.Error, "computation invariant violated")
			s.logger.ErrorContext(ctx, "computation invariant violated",
				"request_id", requestID,
				"calculator_id", id,
				"figure", ierr.Figure,
				"value", ierr.Value,
			)
			s.emit(ctx, audit.Event{
				Type:         audit.EventInvariantViolated,
				CalculatorID: id,
				RequestID:    requestID,
				RiskLevel:    string(ierr.Fallback.RiskLevel),
				Figure:       ierr.Figure,
				DurationMs:   durationMs,
			})
		default:
			s.metrics.ObserveCalculation(id, metrics.OutcomeError, elapsed)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.logger.ErrorContext(ctx, "calculation failed",
				"request_id", requestID,
				"calculator_id", id,
				"error", err,
			)
		}
		return nil, toDomainError(err)
	}

	s.metrics.ObserveCalculation(id, metrics.OutcomeOK, elapsed)
	s.metrics.IncrementRiskLevel(id, string(res.Analysis.RiskLevel))
	span.SetAttributes(attribute.String("calculation.risk_level", string(res.Analysis.RiskLevel)))
	s.logger.DebugContext(ctx, "calculation performed",
		"request_id", requestID,
		"calculator_id", id,
		"risk_level", string(res.Analysis.RiskLevel),
		"duration_ms", durationMs,
	)
	s.emit(ctx, audit.Event{
		Type:         audit.EventCalculationPerformed,
		CalculatorID: id,
		RequestID:    requestID,
		RiskLevel:    string(res.Analysis.RiskLevel),
		DurationMs:   durationMs,
	})
	return res, nil
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"request_id", event.RequestID,
			"event_type", string(event.Type),
			"calculator_id", event.CalculatorID,
			"error", err,
		)
	}
}

// MaxPopularLimit caps how many calculators Popular returns.
const MaxPopularLimit = 100

// Popularity pairs a calculator with how often it has been used.
type Popularity struct {
	Descriptor calculator.Descriptor
	Count      int64
}

// Popular returns the n most used calculators. Ids the store knows about but
// the registry does not (for example from another deployment sharing the
// store) are skipped.
func (s *Service) Popular(ctx context.Context, n int) ([]Popularity, error) {
	if s.usage == nil {
		return nil, dErrors.New(dErrors.CodeUnavailable, "usage statistics are disabled")
	}
	if n < 1 || n > MaxPopularLimit {
		return nil, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("limit must be between 1 and %d", MaxPopularLimit))
	}
	counts, err := s.usage.Top(ctx, n)
	if err != nil {
		if errors.Is(err, sentinel.ErrUnavailable) {
			return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "usage statistics are temporarily unavailable")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read usage statistics")
	}
	out := make([]Popularity, 0, len(counts))
	for _, c := range counts {
		calc, err := s.catalog.Get(c.CalculatorID)
		if err != nil {
			continue
		}
		out = append(out, Popularity{Descriptor: calc.Descriptor(), Count: c.Count})
	}
	return out, nil
}

// toDomainError maps calculator and registry errors onto domain codes while
// keeping the original error in the chain for errors.As.
func toDomainError(err error) error {
	var unknown *registry.UnknownCalculatorError
	var verr *calculator.ValidationError
	var ierr *calculator.InvariantViolation
	switch {
	case errors.As(err, &unknown):
		return dErrors.Wrap(err, dErrors.CodeNotFound, fmt.Sprintf("calculator %q not found", unknown.ID))
	case errors.As(err, &verr):
		fields := make([]dErrors.FieldError, len(verr.Errors))
		for i, fe := range verr.Errors {
			fields[i] = dErrors.FieldError{Field: fe.Field, Message: fe.Message}
		}
		return &dErrors.Error{
			Code:    dErrors.CodeValidation,
			Message: "invalid input",
			Fields:  fields,
			Err:     err,
		}
	case errors.As(err, &ierr):
		return dErrors.Wrap(err, dErrors.CodeInternal, "calculation could not be completed")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return dErrors.Wrap(err, dErrors.CodeTimeout, "calculation cancelled")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "calculation failed")
	}
}

func fieldNames(errs []calculator.FieldError) []string {
	names := make([]string, len(errs))
	for i, fe := range errs {
		names[i] = fe.Field
	}
	return names
}
