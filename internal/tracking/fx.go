package tracking

import (
	"github.com/smallbiznis/taller/internal/tracking/service"
	"go.uber.org/fx"
)

var Module = fx.Module("tracking",
	fx.Provide(service.NewService),
)
