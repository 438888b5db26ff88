package report

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/google/uuid"
)

// Delivery error kinds.
const (
	KindTimeout  = "timeout"
	KindCanceled = "canceled"
	KindNetwork  = "network"
	KindAPI      = "api"
	KindUnknown  = "unknown"
)

// DeliveryError reports that the admin notification for a report was not delivered.
type DeliveryError struct {
	ReportID uuid.UUID
	Kind     string
	Err      error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver report %s (%s): %v", e.ReportID, e.Kind, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// ErrorKind classifies a transport error. Errors may carry their own kind by
// implementing ErrorKind() string.
func ErrorKind(err error) string {
	var kinded interface{ ErrorKind() string }
	var netErr net.Error
	switch {
	case err == nil:
		return ""
	case errors.As(err, &kinded):
		return kinded.ErrorKind()
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, context.Canceled):
		return KindCanceled
	case errors.As(err, &netErr):
		if netErr.Timeout() {
			return KindTimeout
		}
		return KindNetwork
	}
	return KindUnknown
}
