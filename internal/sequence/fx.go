package sequence

import (
	"github.com/smallbiznis/taller/internal/sequence/service"
	"go.uber.org/fx"
)

var Module = fx.Module("sequence.allocator",
	fx.Provide(service.NewAllocator),
)
