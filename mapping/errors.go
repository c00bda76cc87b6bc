package mapping

import (
	"errors"
	"fmt"
)

// ErrUnbuildable is wrapped by every reason a builder declines to produce a request.
// Callers treat it as a skip, not as a failure.
var ErrUnbuildable = errors.New("request not buildable")

var (
	ErrMissingCustomerID       = fmt.Errorf("%w: missing operating customer id", ErrUnbuildable)
	ErrMissingConversionAction = fmt.Errorf("%w: missing conversion action", ErrUnbuildable)
	ErrMissingOrderID          = fmt.Errorf("%w: missing order id", ErrUnbuildable)
	ErrNoAdjustmentType        = fmt.Errorf("%w: neither restatement value nor user identifiers", ErrUnbuildable)
)
