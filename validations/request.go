package validations

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"kucukaslan/gadsconversion/database"
	"kucukaslan/gadsconversion/domain"
)

// DefaultMaxBulkEventCount is the maximum number of events allowed in a single bulk request
const DefaultMaxBulkEventCount = 500

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func ValidateEventRequest(request *domain.EventRequest) error {
	if request == nil || len(bytes.TrimSpace(request.EventData)) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "event_data is required")
	}
	if !isObject(request.EventData) {
		return fiber.NewError(fiber.StatusBadRequest, "event_data must be a JSON object")
	}
	trimmed := bytes.TrimSpace(request.Overrides)
	if len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) && !isObject(trimmed) {
		return fiber.NewError(fiber.StatusBadRequest, "overrides must be a JSON object if provided")
	}
	return nil
}

// ToInvocation validates request and decodes it into an invocation carrying meta.
func ToInvocation(request *domain.EventRequest, meta domain.RequestMeta) (*domain.Invocation, error) {
	if err := ValidateEventRequest(request); err != nil {
		return nil, err
	}

	inv := &domain.Invocation{Meta: meta}
	if err := json.Unmarshal(request.EventData, &inv.Event); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "event_data is malformed: "+err.Error())
	}
	if overrides := bytes.TrimSpace(request.Overrides); len(overrides) > 0 && !bytes.Equal(overrides, []byte("null")) {
		inv.Overrides = overrides
	}
	return inv, nil
}

// ValidateBulkEventRequest validates a bulk event request
// It checks batch size limits and validates each individual event
// Returns an error if any validation fails (all-or-nothing approach)
func ValidateBulkEventRequest(request *domain.BulkEventRequest, maxEvents int) error {
	if request == nil {
		return fiber.NewError(fiber.StatusBadRequest, "bulk event request is required")
	}
	if request.Events == nil {
		return fiber.NewError(fiber.StatusBadRequest, "events array is required")
	}
	if len(request.Events) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "events array cannot be empty")
	}
	if maxEvents <= 0 {
		maxEvents = DefaultMaxBulkEventCount
	}
	if len(request.Events) > maxEvents {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("events array exceeds maximum allowed size of %d", maxEvents))
	}

	for i := range request.Events {
		if err := ValidateEventRequest(&request.Events[i]); err != nil {
			return fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("validation failed for event at index %d: %v", i, err))
		}
	}
	return nil
}

func ValidateMetricRequest(request *domain.MetricRequest) error {
	now := time.Now().UTC().Unix()
	if request.From != nil {
		if *request.From <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "from must be a positive integer")
		}
		if *request.From > now {
			return fiber.NewError(fiber.StatusBadRequest, "from cannot be in the future")
		}
	}
	if request.To != nil {
		if *request.To <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "to must be a positive integer")
		}
		if *request.To > now {
			return fiber.NewError(fiber.StatusBadRequest, "to cannot be in the future")
		}
	}
	if request.From != nil && request.To != nil && *request.From > *request.To {
		return fiber.NewError(fiber.StatusBadRequest, "from cannot be greater than to")
	}

	if request.GroupBy != nil {
		if strings.TrimSpace(*request.GroupBy) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "group_by cannot be empty if provided")
		}
		if !database.IsMetricGroup(*request.GroupBy) {
			return fiber.NewError(fiber.StatusBadRequest, "unsupported group_by: "+*request.GroupBy)
		}
	}

	if request.EventName != nil && strings.TrimSpace(*request.EventName) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "event_name cannot be empty if provided")
	}
	return nil
}
