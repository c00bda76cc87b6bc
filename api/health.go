package api

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"kucukaslan/gadsconversion/buildinfo"
	"kucukaslan/gadsconversion/domain"
)

// HealthCheckFunc probes one dependency.
type HealthCheckFunc func(ctx context.Context) error

// HealthDependencies lists the probes; a nil probe reports the dependency as disabled.
type HealthDependencies struct {
	ClickHouse HealthCheckFunc
	Redis      HealthCheckFunc
	RabbitMQ   HealthCheckFunc
}

func probe(ctx context.Context, check HealthCheckFunc) (domain.ServiceStatus, bool) {
	if check == nil {
		return domain.ServiceStatus{Status: "disabled"}, true
	}
	if err := check(ctx); err != nil {
		return domain.ServiceStatus{Status: "unhealthy", Message: err.Error()}, false
	}
	return domain.ServiceStatus{Status: "healthy"}, true
}

// NewHealthCheck builds the /health handler
// @Summary Health check endpoint
// @Description Check the health status of the service and its enabled dependencies
// @Tags Health
// @Produce json
// @Success 200 {object} domain.HealthResponse "Service is healthy"
// @Success 503 {object} domain.HealthResponse "Service is unhealthy"
// @Router /health [get]
func NewHealthCheck(deps HealthDependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()

		response := domain.HealthResponse{
			Timestamp: time.Now(),
			BuildInfo: buildinfo.GetInfo(),
		}

		var clickhouseOK, redisOK, rabbitOK bool
		response.Services.ClickHouse, clickhouseOK = probe(ctx, deps.ClickHouse)
		response.Services.Redis, redisOK = probe(ctx, deps.Redis)
		response.Services.RabbitMQ, rabbitOK = probe(ctx, deps.RabbitMQ)

		if clickhouseOK && redisOK && rabbitOK {
			response.Status = "healthy"
			return c.Status(fiber.StatusOK).JSON(response)
		}

		response.Status = "unhealthy"
		return c.Status(fiber.StatusServiceUnavailable).JSON(response)
	}
}
