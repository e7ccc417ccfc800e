package schedule

import (
	"context"

	"github.com/m04kA/SMC-AvailabilityService/internal/integrations/schedstore"
)

type StoreClient interface {
	FetchAvailability(ctx context.Context) (*schedstore.AvailabilityCollection, error)
	SaveViewMode(ctx context.Context, mode string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
