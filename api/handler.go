package api

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"kucukaslan/gadsconversion/domain"
	"kucukaslan/gadsconversion/services"
	"kucukaslan/gadsconversion/validations"
)

var _ EventHandler = &eventHandler{}

type eventHandler struct {
	conversionService domain.ConversionService
	maxBulkEvents     int
}

func NewEventHandler(conversionService domain.ConversionService, maxBulkEvents int) EventHandler {
	return &eventHandler{conversionService: conversionService, maxBulkEvents: maxBulkEvents}
}

// conversionStatus maps a service error to an HTTP status.
func conversionStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidInvocation):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrConversionFailed):
		return fiber.StatusBadGateway
	case errors.Is(err, services.ErrMetricsUnavailable):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// PostEvent handles one conversion event
// @Summary Process a conversion event
// @Description Sends a conversion adjustment for the event and escalates to an offline click conversion when Google Ads reports CONVERSION_NOT_FOUND
// @Tags Events
// @Accept json
// @Produce json
// @Param event body domain.EventRequest true "Event data and optional mapping overrides"
// @Param trace-id header string false "Trace id, generated when absent"
// @Param x-gtm-identifier header string false "Container identifier (stape auth flow)"
// @Param x-gtm-default-domain header string false "Container default domain (stape auth flow)"
// @Param x-gtm-api-key header string false "Container API key (stape auth flow)"
// @Param x-gtm-debug-mode header bool false "Debug session"
// @Success 200 {object} domain.EventResponse "Conversion processed, skipped or dispatched"
// @Failure 400 {object} domain.EventResponse "Invalid request"
// @Failure 502 {object} domain.EventResponse "Google Ads upload failed"
// @Failure 500 {object} domain.EventResponse "Internal server error"
// @Router /events [post]
func (e eventHandler) PostEvent(ctx *fiber.Ctx) error {
	var req domain.EventRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(domain.EventResponse{
			Success: false,
			Message: "Invalid request body: " + err.Error(),
		})
	}

	meta := requestMeta(ctx)
	invocation, err := validations.ToInvocation(&req, meta)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(domain.EventResponse{
			Success: false,
			Message: "Validation failed: " + err.Error(),
			TraceID: meta.TraceID,
		})
	}

	resp, err := e.conversionService.Process(ctx.UserContext(), invocation)
	if err != nil {
		if resp == nil {
			resp = &domain.EventResponse{Message: err.Error(), TraceID: meta.TraceID}
		}
		return ctx.Status(conversionStatus(err)).JSON(resp)
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

// PostEventsBulk handles a batch of independent conversion events
// @Summary Process conversion events in bulk
// @Description Runs every event through the conversion chain in order. Header values apply to every event; each event gets its own trace id suffix.
// @Tags Events
// @Accept json
// @Produce json
// @Param events body domain.BulkEventRequest true "Array of events"
// @Success 200 {object} domain.BulkEventResponse "All events processed"
// @Failure 400 {object} domain.BulkEventResponse "Invalid request"
// @Failure 502 {object} domain.BulkEventResponse "At least one upload failed"
// @Failure 500 {object} domain.BulkEventResponse "Internal server error"
// @Router /events/bulk [post]
func (e eventHandler) PostEventsBulk(ctx *fiber.Ctx) error {
	var req domain.BulkEventRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(domain.BulkEventResponse{
			Success: false,
			Message: "Invalid request body: " + err.Error(),
		})
	}

	if err := validations.ValidateBulkEventRequest(&req, e.maxBulkEvents); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(domain.BulkEventResponse{
			Success:      false,
			Message:      "Validation failed: " + err.Error(),
			TotalCount:   len(req.Events),
			FailureCount: len(req.Events),
		})
	}

	meta := requestMeta(ctx)
	invocations := make([]*domain.Invocation, 0, len(req.Events))
	for i := range req.Events {
		eventMeta := meta
		eventMeta.TraceID = meta.TraceID + "-" + strconv.Itoa(i)
		invocation, err := validations.ToInvocation(&req.Events[i], eventMeta)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(domain.BulkEventResponse{
				Success:      false,
				Message:      "Validation failed for event at index " + strconv.Itoa(i) + ": " + err.Error(),
				TotalCount:   len(req.Events),
				FailureCount: len(req.Events),
			})
		}
		invocations = append(invocations, invocation)
	}

	resp, err := e.conversionService.ProcessBulk(ctx.UserContext(), invocations)
	if err != nil {
		if resp == nil {
			resp = &domain.BulkEventResponse{Message: err.Error(), TotalCount: len(invocations)}
		}
		return ctx.Status(conversionStatus(err)).JSON(resp)
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

// GetMetrics retrieves aggregated upload log metrics
// @Summary GET aggregated upload log metrics
// @Description Counts stored upload log rows and distinct trace ids, optionally filtered and grouped
// @Tags Metrics
// @Produce json
// @Param event_name query string false "Event name filter, e.g. Adjustment 123456"
// @Param from query int false "Start timestamp (Unix seconds)"
// @Param to query int false "End timestamp (Unix seconds)"
// @Param group_by query string false "Group by field (hour, day, week, month, year, event_name, type, response_status_code)"
// @Success 200 {object} domain.MetricResponse "Metrics retrieved successfully"
// @Failure 400 {object} domain.MetricResponse "Invalid request"
// @Failure 503 {object} domain.MetricResponse "No log store configured"
// @Failure 500 {object} domain.MetricResponse "Internal server error"
// @Router /metrics [get]
func (e eventHandler) GetMetrics(ctx *fiber.Ctx) error {
	var req domain.MetricRequest

	if eventName := ctx.Query("event_name"); eventName != "" {
		eventName = utils.CopyString(eventName)
		req.EventName = &eventName
	}

	if fromStr := ctx.Query("from"); fromStr != "" {
		from, err := strconv.ParseInt(fromStr, 10, 64)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(domain.MetricResponse{
				Success: false,
				Message: "Invalid 'from' parameter: " + err.Error(),
			})
		}
		req.From = &from
	}

	if toStr := ctx.Query("to"); toStr != "" {
		to, err := strconv.ParseInt(toStr, 10, 64)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(domain.MetricResponse{
				Success: false,
				Message: "Invalid 'to' parameter: " + err.Error(),
			})
		}
		req.To = &to
	}

	if groupBy := ctx.Query("group_by"); groupBy != "" {
		groupBy = utils.CopyString(groupBy)
		req.GroupBy = &groupBy
	}

	if err := validations.ValidateMetricRequest(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(domain.MetricResponse{
			Success: false,
			Message: "Validation failed: " + err.Error(),
		})
	}

	resp, err := e.conversionService.GetMetrics(ctx.UserContext(), &req)
	if err != nil {
		if resp == nil {
			resp = &domain.MetricResponse{Message: err.Error()}
		}
		return ctx.Status(conversionStatus(err)).JSON(resp)
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}
