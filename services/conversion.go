package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"kucukaslan/gadsconversion/database"
	"kucukaslan/gadsconversion/domain"
	"kucukaslan/gadsconversion/eventlog"
	"kucukaslan/gadsconversion/mapping"
	"kucukaslan/gadsconversion/metrics"
	"kucukaslan/gadsconversion/normalize"
	"kucukaslan/gadsconversion/transport"
)

var (
	// ErrConversionFailed is the terminal failure of a conversion chain.
	ErrConversionFailed = errors.New("conversion upload failed")
	// ErrInvalidInvocation rejects an invocation before any work is done.
	ErrInvalidInvocation = errors.New("invalid invocation")
	// ErrMetricsUnavailable is returned when no log store backs the metrics query.
	ErrMetricsUnavailable = errors.New("metrics store is not configured")
)

const (
	msgSkippedAdjustment    = "Did not try to send Conversion Adjustment (ENHANCEMENT or RESTATEMENT)."
	reasonSkippedAdjustment = "Missing required data: Transaction ID; or Conversion Value or User Identifiers."
	msgSkippedOffline       = "Did not try to send Offline Conversion."
)

// ReplayGuard remembers conversions that already reached terminal success.
// It is the only state kept across invocations and is off unless configured.
// A key is marked after any successful chain, including one whose adjustment was a
// validateOnly dry run that did not escalate.
type ReplayGuard interface {
	IsProcessed(ctx context.Context, key string) (bool, error)
	MarkProcessed(ctx context.Context, key string) error
}

// Endpoints resolves the URL and options of an upload call.
type Endpoints interface {
	Prepare(ctx context.Context, op transport.Operation, cfg domain.Configuration, meta domain.RequestMeta) (string, transport.Options, error)
}

// MetricsStore aggregates stored upload logs.
type MetricsStore interface {
	GetLogMetrics(ctx context.Context, request domain.MetricRequest) ([]database.LogMetricRow, error)
}

// Dependencies of the conversion service. Replay and Metrics are optional.
type Dependencies struct {
	Config    domain.Configuration
	Transport transport.Transport
	Endpoints Endpoints
	EventLog  *eventlog.Dispatcher
	Replay    ReplayGuard
	Metrics   MetricsStore
	Logger    *zap.Logger
	Now       func() time.Time
	// DebugMode treats every invocation as coming from a debug session.
	DebugMode bool
}

var _ domain.ConversionService = &conversionService{}

type conversionService struct {
	cfg       domain.Configuration
	transport transport.Transport
	endpoints Endpoints
	eventLog  *eventlog.Dispatcher
	replay    ReplayGuard
	store     MetricsStore
	log       *zap.Logger
	now       func() time.Time
	debugMode bool

	// detached optimistic chains
	inflight sync.WaitGroup
}

// NewConversionService returns a domain.ConversionService running the
// adjustment-then-offline-conversion chain.
func NewConversionService(deps Dependencies) (domain.ConversionService, error) {
	if deps.Transport == nil {
		return nil, fmt.Errorf("transport cannot be nil")
	}
	if deps.Endpoints == nil {
		return nil, fmt.Errorf("endpoints cannot be nil")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.EventLog == nil {
		deps.EventLog = eventlog.NewDispatcher(nil, nil, deps.Logger, 0)
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	return &conversionService{
		cfg:       deps.Config,
		transport: deps.Transport,
		endpoints: deps.Endpoints,
		eventLog:  deps.EventLog,
		replay:    deps.Replay,
		store:     deps.Metrics,
		log:       deps.Logger,
		now:       deps.Now,
		debugMode: deps.DebugMode,
	}, nil
}

func (s *conversionService) Process(ctx context.Context, invocation *domain.Invocation) (*domain.EventResponse, error) {
	traceID := invocation.Meta.TraceID

	cfg, err := s.cfg.WithOverrides(invocation.Overrides)
	if err != nil {
		return &domain.EventResponse{
			Success: false,
			Message: err.Error(),
			TraceID: traceID,
		}, fmt.Errorf("%w: %w", ErrInvalidInvocation, err)
	}

	if cfg.UseOptimisticScenario {
		inv := *invocation
		s.inflight.Add(1)
		go func() {
			defer s.inflight.Done()
			_ = s.run(context.WithoutCancel(ctx), cfg, &inv)
		}()
		return &domain.EventResponse{
			Success: true,
			Message: "Conversion dispatched",
			TraceID: traceID,
		}, nil
	}

	if err := s.run(ctx, cfg, invocation); err != nil {
		return &domain.EventResponse{
			Success: false,
			Message: "Conversion upload failed",
			TraceID: traceID,
		}, fmt.Errorf("%w: %w", ErrConversionFailed, err)
	}

	return &domain.EventResponse{
		Success: true,
		Message: "Conversion processed",
		TraceID: traceID,
	}, nil
}

func (s *conversionService) ProcessBulk(ctx context.Context, invocations []*domain.Invocation) (*domain.BulkEventResponse, error) {
	resp := &domain.BulkEventResponse{TotalCount: len(invocations)}

	var firstErr error
	for _, inv := range invocations {
		if _, err := s.Process(ctx, inv); err != nil {
			resp.FailureCount++
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		resp.SuccessCount++
	}

	if firstErr != nil {
		resp.Message = fmt.Sprintf("%d of %d conversions failed", resp.FailureCount, resp.TotalCount)
		return resp, firstErr
	}
	resp.Success = true
	resp.Message = "Bulk conversions processed"
	return resp, nil
}

func (s *conversionService) GetMetrics(ctx context.Context, metricRequest *domain.MetricRequest) (*domain.MetricResponse, error) {
	if s.store == nil {
		return &domain.MetricResponse{
			Success: false,
			Message: ErrMetricsUnavailable.Error(),
		}, ErrMetricsUnavailable
	}

	rows, err := s.store.GetLogMetrics(ctx, *metricRequest)
	if err != nil {
		return &domain.MetricResponse{
			Success: false,
			Message: "Failed to retrieve metrics: " + err.Error(),
		}, err
	}

	results := make([]domain.MetricResult, len(rows))
	for i, r := range rows {
		results[i] = domain.MetricResult{
			Bucket:       r.Bucket,
			TotalLogs:    r.TotalLogs,
			UniqueTraces: r.UniqueTraces,
		}
	}
	return &domain.MetricResponse{
		Success: true,
		Message: "Metrics retrieved successfully",
		Metrics: results,
	}, nil
}

// Shutdown waits for detached chains and pending log writes.
func (s *conversionService) Shutdown() error {
	s.inflight.Wait()
	s.eventLog.Wait()
	return nil
}

// ShutdownConversionService shuts down service if it supports shutdown
func ShutdownConversionService(service domain.ConversionService) error {
	if srv, ok := service.(interface{ Shutdown() error }); ok {
		return srv.Shutdown()
	}
	return nil
}

// run executes one chain. Any error or panic inside it ends up here, is logged
// once, and becomes the returned failure.
func (s *conversionService) run(ctx context.Context, cfg domain.Configuration, inv *domain.Invocation) (err error) {
	c := &chain{
		svc: s,
		cfg: cfg,
		inv: inv,
		modes: eventlog.Modes{
			Console: cfg.ConsoleLogMode,
			Storage: cfg.StorageLogMode,
			Debug:   inv.Meta.Debug || s.debugMode,
		},
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		if err == nil {
			return
		}
		metrics.ConversionsProcessed.WithLabelValues(metrics.OutcomeFailed, "error").Inc()
		s.log.Warn("conversion chain failed", zap.String("trace_id", inv.Meta.TraceID), zap.Error(err))
		c.logEvent(ctx, domain.LogEvent{
			Type:      domain.LogEventMessage,
			EventName: "Conversion chain",
			Message:   serializeError(err),
		})
	}()

	return c.execute(ctx)
}

// chain is the state of one invocation.
type chain struct {
	svc   *conversionService
	cfg   domain.Configuration
	inv   *domain.Invocation
	modes eventlog.Modes
}

func (c *chain) execute(ctx context.Context) error {
	event := c.inv.Event

	if IsSandboxURL(normalize.FirstNonEmpty(event.PageLocation, c.inv.Meta.Referer)) {
		c.finish(metrics.OutcomeSkipped, "sandbox")
		return nil
	}
	if !ConsentAllowsUpload(c.cfg, event) {
		c.finish(metrics.OutcomeSkipped, "consent")
		return nil
	}

	key, hasKey := ReplayKey(c.cfg, event)
	if hasKey && c.svc.replay != nil {
		processed, err := c.svc.replay.IsProcessed(ctx, key)
		if err != nil {
			c.svc.log.Warn("replay check failed", zap.String("trace_id", c.inv.Meta.TraceID), zap.Error(err))
		} else if processed {
			c.finish(metrics.OutcomeSkipped, "replay")
			return nil
		}
	}

	escalate, err := c.adjust(ctx)
	if errors.Is(err, mapping.ErrUnbuildable) {
		c.finish(metrics.OutcomeSkipped, "unbuildable")
		return nil
	}
	if err != nil {
		return err
	}

	reason := "adjusted"
	if escalate {
		metrics.Escalations.Inc()
		reason = "escalated"
		if err := c.uploadOffline(ctx); err != nil && !errors.Is(err, mapping.ErrUnbuildable) {
			return err
		}
	}

	if hasKey && c.svc.replay != nil {
		if err := c.svc.replay.MarkProcessed(ctx, key); err != nil {
			c.svc.log.Warn("replay mark failed", zap.String("trace_id", c.inv.Meta.TraceID), zap.Error(err))
		}
	}
	c.finish(metrics.OutcomeSucceeded, reason)
	return nil
}

// adjust sends the conversion adjustment and reports whether the response asks for
// escalation to an offline conversion.
func (c *chain) adjust(ctx context.Context) (bool, error) {
	req, err := mapping.BuildAdjustment(c.cfg, c.inv.Event, c.svc.now())
	if err != nil {
		if errors.Is(err, mapping.ErrUnbuildable) {
			c.logEvent(ctx, domain.LogEvent{
				Type:      domain.LogEventMessage,
				EventName: c.cfg.ConversionActionSource,
				Message:   msgSkippedAdjustment,
				Reason:    reasonSkippedAdjustment,
			})
		}
		return false, err
	}

	resp, err := c.upload(ctx, transport.OperationAdjustment, "Adjustment "+c.cfg.ConversionActionSource, req)
	if err != nil {
		return false, err
	}

	parsed, ok := domain.ParseUploadResponse(resp.Body)
	if !ok {
		return false, nil
	}
	return parsed.FirstAdjustmentUploadError() == domain.ConversionNotFound, nil
}

func (c *chain) uploadOffline(ctx context.Context) error {
	req, err := mapping.BuildOfflineConversion(c.cfg, c.inv.Event, c.svc.now())
	if err != nil {
		if errors.Is(err, mapping.ErrUnbuildable) {
			c.logEvent(ctx, domain.LogEvent{
				Type:      domain.LogEventMessage,
				EventName: c.cfg.ConversionActionDestination,
				Message:   msgSkippedOffline,
				Reason:    err.Error(),
			})
		}
		return err
	}

	_, err = c.upload(ctx, transport.OperationClickConversion, "Offline Conversion "+c.cfg.ConversionActionDestination, req)
	return err
}

// upload sends payload and logs the request and response. Non-2xx/3xx statuses are
// returned as errors wrapping transport.ErrUnexpectedStatus.
func (c *chain) upload(ctx context.Context, op transport.Operation, eventName string, payload any) (*transport.Response, error) {
	opLabel := operationLabel(op)

	url, opts, err := c.svc.endpoints.Prepare(ctx, op, c.cfg, c.inv.Meta)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", eventName, err)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: encode request: %w", eventName, err)
	}

	c.logEvent(ctx, domain.LogEvent{
		Type:          domain.LogEventRequest,
		EventName:     eventName,
		RequestMethod: opts.Method,
		RequestURL:    url,
		RequestBody:   payload,
	})

	start := time.Now()
	resp, err := c.svc.transport.Send(ctx, url, opts, body)
	metrics.UploadDuration.WithLabelValues(opLabel).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UploadRequests.WithLabelValues(opLabel, "error").Inc()
		return nil, fmt.Errorf("%s: %w", eventName, err)
	}
	metrics.UploadRequests.WithLabelValues(opLabel, strconv.Itoa(resp.StatusCode)).Inc()

	c.logEvent(ctx, domain.LogEvent{
		Type:               domain.LogEventResponse,
		EventName:          eventName,
		ResponseStatusCode: resp.StatusCode,
		ResponseHeaders:    resp.Headers,
		ResponseBody:       string(resp.Body),
	})

	if !resp.OK() {
		return resp, fmt.Errorf("%s: %w: %d", eventName, transport.ErrUnexpectedStatus, resp.StatusCode)
	}
	return resp, nil
}

func (c *chain) logEvent(ctx context.Context, ev domain.LogEvent) {
	ev.Name = domain.LogTagName
	ev.TraceID = c.inv.Meta.TraceID
	c.svc.eventLog.Log(ctx, c.modes, ev)
}

func (c *chain) finish(outcome, reason string) {
	metrics.ConversionsProcessed.WithLabelValues(outcome, reason).Inc()
	c.svc.log.Debug("conversion chain finished",
		zap.String("trace_id", c.inv.Meta.TraceID),
		zap.String("outcome", outcome),
		zap.String("reason", reason))
}

func operationLabel(op transport.Operation) string {
	if op == transport.OperationClickConversion {
		return "click_conversion"
	}
	return "adjustment"
}

// serializeError renders err as a JSON string for the failure log.
func serializeError(err error) string {
	raw, marshalErr := json.Marshal(map[string]string{"error": err.Error()})
	if marshalErr != nil {
		return err.Error()
	}
	return string(raw)
}
