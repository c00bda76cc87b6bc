package api

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"

	"kucukaslan/gadsconversion/domain"
)

// Request headers set by the tagging server in front of this service.
const (
	HeaderTraceID             = "trace-id"
	HeaderReferer             = "referer"
	HeaderContainerIdentifier = "x-gtm-identifier"
	HeaderDefaultDomain       = "x-gtm-default-domain"
	HeaderContainerAPIKey     = "x-gtm-api-key"
	HeaderDebugMode           = "x-gtm-debug-mode"
)

type EventHandler interface {
	PostEvent(ctx *fiber.Ctx) error
	PostEventsBulk(ctx *fiber.Ctx) error
	GetMetrics(ctx *fiber.Ctx) error
}

// requestMeta collects the header-borne invocation values. fiber reuses header
// buffers after the handler returns, so everything is copied.
func requestMeta(ctx *fiber.Ctx) domain.RequestMeta {
	traceID := utils.CopyString(ctx.Get(HeaderTraceID))
	if traceID == "" {
		traceID = uuid.NewString()
	}
	debug, _ := strconv.ParseBool(ctx.Get(HeaderDebugMode))

	return domain.RequestMeta{
		TraceID:             traceID,
		Referer:             utils.CopyString(ctx.Get(HeaderReferer)),
		ContainerIdentifier: utils.CopyString(ctx.Get(HeaderContainerIdentifier)),
		DefaultDomain:       utils.CopyString(ctx.Get(HeaderDefaultDomain)),
		ContainerAPIKey:     utils.CopyString(ctx.Get(HeaderContainerAPIKey)),
		Debug:               debug,
	}
}
